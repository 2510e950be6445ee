package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "http://127.0.0.1:8000"

// APIError carries the HTTP status and the server-provided detail message.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
}

// Client is a thin JSON client for the chatbot API. Ingestion and agent
// loading can take minutes, so mutating calls get a long timeout.
type Client struct {
	baseURL  string
	slowHTTP *http.Client
	fastHTTP *http.Client
}

func New() *Client {
	baseURL := os.Getenv("RAG_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		slowHTTP: &http.Client{Timeout: 5 * time.Minute},
		fastHTTP: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ingest triggers a full ingestion pass.
func (c *Client) Ingest(ctx context.Context) (string, error) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, c.slowHTTP, http.MethodPost, "/ingest", nil, &body); err != nil {
		return "", err
	}
	return body.Message, nil
}

// LoadAgent (re)loads the agent from the persisted index.
func (c *Client) LoadAgent(ctx context.Context) (string, error) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, c.slowHTTP, http.MethodPost, "/load-agent", nil, &body); err != nil {
		return "", err
	}
	return body.Message, nil
}

// Chat sends one query and returns the agent answer.
func (c *Client) Chat(ctx context.Context, query string) (string, error) {
	payload := map[string]string{"query": query}
	var body struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, c.slowHTTP, http.MethodPost, "/chat", payload, &body); err != nil {
		return "", err
	}
	return body.Response, nil
}

// Root pings the API welcome endpoint.
func (c *Client) Root(ctx context.Context) (string, error) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, c.fastHTTP, http.MethodGet, "/", nil, &body); err != nil {
		return "", err
	}
	return body.Message, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, payload, out any) error {
	var reqBody *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Detail == "" {
			apiErr.Detail = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Detail: apiErr.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}
