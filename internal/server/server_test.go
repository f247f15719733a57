package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/faqchat/internal/history"
	"github.com/diogo/faqchat/internal/knowledge"
	"github.com/diogo/faqchat/internal/llm"
	"github.com/diogo/faqchat/internal/models"
)

type fakeProvider struct {
	mu       sync.Mutex
	requests []llm.CompletionRequest
	reply    string
	err      error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeProvider) last() llm.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestServer(t *testing.T, provider *fakeProvider) *Server {
	t.Helper()
	srv, err := New(Options{
		Knowledge: knowledge.New("Fever needs rest and fluids\nBrush teeth twice a day", 5),
		Provider:  provider,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	return srv
}

func post(t *testing.T, h http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestNew_RequiresProvider(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestChat_Success(t *testing.T) {
	provider := &fakeProvider{reply: "Drink water."}
	srv := newTestServer(t, provider)

	rec := post(t, srv.Handler(), "/chat", `{"query": "what helps a fever"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Drink water.", resp.Response)
	assert.Empty(t, resp.Error)
	require.Len(t, resp.ConversationHistory, 2)
	assert.Equal(t, models.HistoryMessage{Role: models.RoleUser, Content: "what helps a fever"}, resp.ConversationHistory[0])
	assert.Equal(t, models.HistoryMessage{Role: models.RoleAssistant, Content: "Drink water."}, resp.ConversationHistory[1])

	req := provider.last()
	assert.Equal(t, "what helps a fever", req.Query)
	assert.Empty(t, req.History)
	assert.Contains(t, req.SystemPrompt, "Fever needs rest and fluids")
}

func TestChat_ProviderErrorReturns500(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{err: errors.New("bad query")})

	rec := post(t, srv.Handler(), "/chat", `{"query": "x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "bad query"}`, rec.Body.String())
}

func TestChat_InvalidBody(t *testing.T) {
	provider := &fakeProvider{reply: "unused"}
	srv := newTestServer(t, provider)

	rec := post(t, srv.Handler(), "/chat", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
	assert.Empty(t, provider.requests)
}

func TestChat_MissingQueryIsEmpty(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	srv := newTestServer(t, provider)

	rec := post(t, srv.Handler(), "/chat", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", provider.last().Query)
}

func TestChat_SessionMemory(t *testing.T) {
	provider := &fakeProvider{reply: "a"}
	srv := newTestServer(t, provider)
	h := srv.Handler()

	first := post(t, h, "/chat", `{"query": "one"}`)
	cookie := sessionCookie(t, first)

	for i := 0; i < 6; i++ {
		rec := post(t, h, "/chat", `{"query": "again"}`, cookie)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := provider.last()
	assert.Len(t, req.History, models.HistoryWindow)
	assert.Equal(t, models.RoleUser, req.History[0].Role)

	other := post(t, h, "/chat", `{"query": "fresh"}`)
	require.Equal(t, http.StatusOK, other.Code)
	assert.Empty(t, provider.last().History, "a new session starts with no memory")
}

func TestReset(t *testing.T) {
	provider := &fakeProvider{reply: "a"}
	srv := newTestServer(t, provider)
	h := srv.Handler()

	first := post(t, h, "/chat", `{"query": "one"}`)
	cookie := sessionCookie(t, first)

	rec := post(t, h, "/reset", ``, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Conversation history reset successfully"}`, rec.Body.String())

	post(t, h, "/chat", `{"query": "two"}`, cookie)
	assert.Empty(t, provider.last().History)
}

func TestChat_InvalidCookieGetsNewSession(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{reply: "a"})

	rec := post(t, srv.Handler(), "/chat", `{"query": "q"}`, &http.Cookie{Name: SessionCookie, Value: "../../etc"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, history.ValidSessionID(sessionCookie(t, rec).Value))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok", "provider": "fake", "chunks": 2}`, rec.Body.String())
}

func TestCORS_AllowsAnyOrigin(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	cancel()
	assert.NoError(t, <-done)
}
