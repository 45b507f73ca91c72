package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAIServer(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewOpenAIClient(LLMConfig{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	return client
}

func TestNewOpenAIClient_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIClient(LLMConfig{})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOpenAIClient_Generate(t *testing.T) {
	var gotModel string
	var gotPrompt string

	client := newFakeOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel = body.Model
		if len(body.Messages) > 0 {
			gotPrompt = body.Messages[len(body.Messages)-1].Content
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "model": "llama-test",
  "choices": [
    {"index": 0, "message": {"role": "assistant", "content": "def test_add():\nassert add(1, 1) == 2"}, "finish_reason": "stop"}
  ]
}`))
	})

	text, err := client.Generate(context.Background(), "write tests", "llama-test")
	require.NoError(t, err)
	assert.Equal(t, "def test_add():\nassert add(1, 1) == 2", text)
	assert.Equal(t, "llama-test", gotModel)
	assert.Equal(t, "write tests", gotPrompt)
}

func TestOpenAIClient_GenerateNoChoices(t *testing.T) {
	client := newFakeOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`))
	})

	_, err := client.Generate(context.Background(), "write tests", "llama-test")
	require.ErrorIs(t, err, ErrNoChoices)
}

func TestOpenAIClient_GenerateServiceError(t *testing.T) {
	client := newFakeOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	})

	_, err := client.Generate(context.Background(), "write tests", "llama-test")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoChoices)
}

func TestOpenAIClient_ListModels(t *testing.T) {
	client := newFakeOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "object": "list",
  "data": [
    {"id": "mixtral-8x7b", "object": "model", "owned_by": "test"},
    {"id": "llama3-70b", "object": "model", "owned_by": "test"}
  ]
}`))
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3-70b", "mixtral-8x7b"}, models)
}

func TestOpenAIClient_ListModelsError(t *testing.T) {
	client := newFakeOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	})

	_, err := client.ListModels(context.Background())
	require.Error(t, err)
}

func TestLazyOpenAIClient_MissingKey(t *testing.T) {
	calls := 0
	client := NewLazyOpenAIClient(func() LLMConfig {
		calls++
		return LLMConfig{}
	})

	require.ErrorIs(t, client.Ready(), ErrMissingAPIKey)

	_, err := client.Generate(context.Background(), "prompt", "model")
	require.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = client.ListModels(context.Background())
	require.ErrorIs(t, err, ErrMissingAPIKey)

	assert.Equal(t, 1, calls, "config is read once")
}

func TestLazyOpenAIClient_DelegatesOnceReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object": "list", "data": [{"id": "llama3-70b", "object": "model"}]}`))
	}))
	t.Cleanup(server.Close)

	client := NewLazyOpenAIClient(func() LLMConfig {
		return LLMConfig{APIKey: "key", BaseURL: server.URL + "/v1"}
	})

	require.NoError(t, client.Ready())

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3-70b"}, models)
}
