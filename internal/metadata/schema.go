package metadata

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DocumentMetadata is the schema the metadata prompt asks the model to fill.
type DocumentMetadata struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Topics   []string `json:"topics"`
	Entities []string `json:"entities"`
}

// Parse validates raw model output against the metadata schema. Code fences
// around the JSON body are tolerated; anything that does not decode into the
// schema, or decodes with an empty title and summary, is an error.
func Parse(raw string) (*DocumentMetadata, error) {
	body := stripCodeFence(strings.TrimSpace(raw))
	if body == "" {
		return nil, fmt.Errorf("empty metadata output")
	}

	var meta DocumentMetadata
	dec := json.NewDecoder(strings.NewReader(body))
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode metadata json failed: %w", err)
	}
	if strings.TrimSpace(meta.Title) == "" && strings.TrimSpace(meta.Summary) == "" {
		return nil, fmt.Errorf("metadata json missing title and summary")
	}
	return &meta, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
