package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("RAG_API_URL", srv.URL)
	return New()
}

func TestChatSendsQueryAndDecodesResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "hola", payload["query"])

		_ = json.NewEncoder(w).Encode(map[string]string{"response": "respuesta"})
	})

	answer, err := client.Chat(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "respuesta", answer)
}

func TestErrorResponsesCarryDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "El agente RAG no está inicializado."})
	})

	_, err := client.Chat(context.Background(), "hola")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "El agente RAG no está inicializado.", apiErr.Detail)
}

func TestErrorWithoutDetailFallsBackToStatusText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Ingest(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), apiErr.Detail)
}

func TestIngestAndLoadAgentMessages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ingest":
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Ingesta de datos completada."})
		case "/load-agent":
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Agente cargado exitosamente."})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	msg, err := client.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ingesta de datos completada.", msg)

	msg, err = client.LoadAgent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Agente cargado exitosamente.", msg)
}

func TestBaseURLDefault(t *testing.T) {
	t.Setenv("RAG_API_URL", "")
	client := New()
	assert.Equal(t, defaultBaseURL, client.BaseURL())
}
