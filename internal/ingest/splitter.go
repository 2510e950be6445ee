package ingest

import (
	"log"
	"strings"
	"unicode/utf8"

	"docuchat/internal/model"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 100
)

// Splitter divides documents into overlapping chunks, preferring structural
// boundaries (paragraph, line, sentence, word) before hard character cuts.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   []string{"\n\n", "\n", ". ", " ", ""},
	}
}

// SplitDocuments splits every document and copies its metadata onto each
// resulting chunk. Deterministic for fixed inputs and parameters.
func (s *Splitter) SplitDocuments(docs []model.Document) []model.Chunk {
	var chunks []model.Chunk
	for _, doc := range docs {
		for _, piece := range s.SplitText(doc.Content) {
			chunks = append(chunks, model.Chunk{
				Content:  piece,
				Metadata: model.CloneMetadata(doc.Metadata),
			})
		}
	}
	log.Printf("split %d documents into %d chunks", len(docs), len(chunks))
	return chunks
}

// SplitText splits a single text into chunks of at most chunkSize runes.
func (s *Splitter) SplitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	sep := ""
	rest := separators
	for i, cand := range separators {
		if cand == "" || strings.Contains(text, cand) {
			sep = cand
			rest = separators[i+1:]
			break
		}
	}

	if sep == "" {
		// No structure left, fall back to hard rune windows with overlap.
		return chunkRunes(text, s.chunkSize, s.chunkOverlap)
	}

	// SplitAfter keeps the separator attached so joining is lossless.
	var splits []string
	for _, part := range strings.SplitAfter(text, sep) {
		if part != "" {
			splits = append(splits, part)
		}
	}

	var chunks []string
	var pending []string
	for _, part := range splits {
		if utf8.RuneCountInString(part) <= s.chunkSize {
			pending = append(pending, part)
			continue
		}
		// Oversized piece: flush what we have, then recurse on finer separators.
		if len(pending) > 0 {
			chunks = append(chunks, s.merge(pending)...)
			pending = nil
		}
		chunks = append(chunks, s.split(part, rest)...)
	}
	if len(pending) > 0 {
		chunks = append(chunks, s.merge(pending)...)
	}
	return chunks
}

// merge greedily packs splits into chunks of at most chunkSize runes, carrying
// roughly chunkOverlap trailing runes into the next chunk.
func (s *Splitter) merge(splits []string) []string {
	var chunks []string
	var window []string
	windowLen := 0

	for _, part := range splits {
		partLen := utf8.RuneCountInString(part)
		if windowLen+partLen > s.chunkSize && len(window) > 0 {
			if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for len(window) > 0 && (windowLen > s.chunkOverlap || windowLen+partLen > s.chunkSize) {
				windowLen -= utf8.RuneCountInString(window[0])
				window = window[1:]
			}
		}
		window = append(window, part)
		windowLen += partLen
	}

	if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// chunkRunes cuts text into fixed rune windows sharing overlap runes.
func chunkRunes(text string, size, overlap int) []string {
	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
		i += size - overlap
	}
	return chunks
}
