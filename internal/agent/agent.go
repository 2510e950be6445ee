package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	openai "github.com/sashabaranov/go-openai"

	"docuchat/internal/vectorstore"
)

// The prompt asks for a single retrieval, but leave room for the model to
// refine its query once before we cut it off.
const maxToolRounds = 3

// ChatCompleter is the slice of the OpenAI-compatible client the agent
// needs; *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Agent is an LLM bound to the retrieval tool and the fixed system prompt.
// It answers one query per Respond call; conversation history lives with
// the caller.
type Agent struct {
	llm          ChatCompleter
	store        *vectorstore.Store
	model        string
	indexVersion int64

	// refs counts the owner reference plus one per in-flight request; the
	// store closes when it reaches zero.
	refs atomic.Int64
}

func New(llm ChatCompleter, store *vectorstore.Store, model string, indexVersion int64) *Agent {
	a := &Agent{
		llm:          llm,
		store:        store,
		model:        model,
		indexVersion: indexVersion,
	}
	a.refs.Store(1)
	return a
}

// IndexVersion is the store version this agent was loaded against.
func (a *Agent) IndexVersion() int64 {
	return a.indexVersion
}

// Stale reports whether the backing store has been re-ingested since this
// agent was loaded.
func (a *Agent) Stale() (bool, error) {
	current, err := a.store.IndexVersion()
	if err != nil {
		return false, err
	}
	return current != a.indexVersion, nil
}

// Acquire takes a reference for the duration of one request. It fails once
// the owning reference is gone and the agent is shutting down.
func (a *Agent) Acquire() bool {
	for {
		n := a.refs.Load()
		if n <= 0 {
			return false
		}
		if a.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Release drops a reference taken by Acquire, closing the backing store when
// the last one goes.
func (a *Agent) Release() error {
	if a.refs.Add(-1) == 0 {
		return a.store.Close()
	}
	return nil
}

// Close drops the owner reference taken at New. The store stays open until
// every in-flight request has released its own.
func (a *Agent) Close() error {
	return a.Release()
}

// Respond answers a single user query. The model decides whether to call
// the retrieval tool; tool results are fed back until it produces a final
// text answer.
func (a *Agent) Respond(ctx context.Context, query string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: query},
	}
	tools := []openai.Tool{retrieveTool()}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return "", fmt.Errorf("agent llm request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty llm choices")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result, err := a.executeToolCall(ctx, call)
			if err != nil {
				return "", err
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("agent exceeded %d tool rounds without a final answer", maxToolRounds)
}

func (a *Agent) executeToolCall(ctx context.Context, call openai.ToolCall) (string, error) {
	if call.Function.Name != retrieveToolName {
		// Let the model recover instead of failing the whole turn.
		return fmt.Sprintf("unknown tool: %s", call.Function.Name), nil
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return "", fmt.Errorf("decode tool arguments failed: %w", err)
	}
	return a.retrieveContext(ctx, args.Query)
}
