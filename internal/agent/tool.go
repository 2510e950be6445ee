package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const (
	retrieveToolName = "retrieve_context"
	retrieveTopK     = 2
)

func retrieveTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        retrieveToolName,
			Description: "Retrieve information to help answer a query.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"query": {
						Type:        jsonschema.String,
						Description: "The search query to run against the document store.",
					},
				},
				Required: []string{"query"},
			},
		},
	}
}

// retrieveContext runs a fixed top-k similarity search and serializes the
// hits as one text block for the model.
func (a *Agent) retrieveContext(ctx context.Context, query string) (string, error) {
	results, err := a.store.SimilaritySearch(ctx, query, retrieveTopK)
	if err != nil {
		return "", fmt.Errorf("retrieve context failed: %w", err)
	}

	blocks := make([]string, 0, len(results))
	for _, res := range results {
		meta, err := json.Marshal(res.Metadata)
		if err != nil {
			meta = []byte("{}")
		}
		blocks = append(blocks, fmt.Sprintf("Source: %s\nContent: %s", meta, res.Content))
	}
	return strings.Join(blocks, "\n\n"), nil
}
