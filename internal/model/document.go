package model

// Document is one loaded source file plus its metadata. Documents live only
// for the duration of an ingestion run; only their chunks are persisted.
type Document struct {
	Content  string
	Metadata map[string]any
}

// Chunk is a bounded substring of a Document, carrying a copy of the parent
// document's metadata.
type Chunk struct {
	Content  string
	Metadata map[string]any
}

// CloneMetadata returns a shallow copy so chunk-level additions do not leak
// into sibling chunks.
func CloneMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
