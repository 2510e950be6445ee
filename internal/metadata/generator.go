package metadata

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const promptTemplate = `You are a metadata generator. Given the following text, extract the metadata as JSON:
- title: a concise title
- summary: 2-3 sentence description
- topics: list of key themes
- entities: list of named entities (people, organizations, locations)

Text:
%s

Return valid JSON only.`

// ChatCompleter is the slice of the OpenAI-compatible client the generator
// needs; *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator asks an LLM for structured metadata about a piece of text.
type Generator struct {
	llm   ChatCompleter
	model string
}

func NewGenerator(llm ChatCompleter, model string) *Generator {
	return &Generator{llm: llm, model: model}
}

// Generate returns parsed metadata for text, or nil when the model call or
// the schema parse ultimately fails. A parse failure is retried once; errors
// are logged, never propagated, so ingestion keeps going.
func (g *Generator) Generate(ctx context.Context, text string) *DocumentMetadata {
	for attempt := 0; attempt < 2; attempt++ {
		raw, err := g.invoke(ctx, text)
		if err != nil {
			log.Printf("metadata generation failed: %v", err)
			return nil
		}
		meta, parseErr := Parse(raw)
		if parseErr == nil {
			return meta
		}
		log.Printf("metadata parse failed (attempt %d): %v", attempt+1, parseErr)
	}
	return nil
}

func (g *Generator) invoke(ctx context.Context, text string) (string, error) {
	resp, err := g.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, text),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("metadata llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty llm choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
