package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/faqchat/internal/models"
)

type capturedRequest struct {
	Model       string                  `json:"model"`
	Messages    []models.HistoryMessage `json:"messages"`
	Temperature float64                 `json:"temperature"`
	MaxTokens   int64                   `json:"max_tokens"`
}

func newCompletionServer(t *testing.T, status int, reply string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error": {"message": "invalid model", "type": "invalid_request_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "gemma2-9b-it",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{})
	assert.Error(t, err)
}

func TestOpenAIProvider_Defaults(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, models.DefaultCompletionModel, p.Model())
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var captured capturedRequest
	srv := newCompletionServer(t, http.StatusOK, "Drink water.", &captured)

	p, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL + "/v1",
		Model:       "gemma2-9b-it",
		Temperature: 0.7,
		MaxTokens:   700,
	})
	require.NoError(t, err)

	reply, err := p.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "system",
		History: []models.HistoryMessage{
			{Role: models.RoleUser, Content: "earlier question"},
			{Role: models.RoleAssistant, Content: "earlier answer"},
		},
		Query: "fever?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Drink water.", reply)

	assert.Equal(t, "gemma2-9b-it", captured.Model)
	assert.Equal(t, 0.7, captured.Temperature)
	assert.Equal(t, int64(700), captured.MaxTokens)
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, models.RoleSystem, captured.Messages[0].Role)
	assert.Equal(t, models.RoleAssistant, captured.Messages[2].Role)
	assert.Equal(t, "fever?", captured.Messages[3].Content)
}

func TestOpenAIProvider_CompleteError(t *testing.T) {
	srv := newCompletionServer(t, http.StatusBadRequest, "", nil)

	p, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
		Options: []option.RequestOption{option.WithMaxRetries(0)},
	})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), CompletionRequest{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion failed")
}

func TestCompletionRequest_Messages(t *testing.T) {
	msgs := CompletionRequest{Query: "only"}.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
}

func TestSystemPrompt(t *testing.T) {
	prompt := SystemPrompt("SECTION A\n\nSECTION B")
	assert.Contains(t, prompt, "Bengali family health")
	assert.Contains(t, prompt, "SECTION A\n\nSECTION B")
}
