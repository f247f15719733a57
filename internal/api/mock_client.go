package api

import (
	"context"
	"sync"

	"github.com/diogo/faqchat/internal/models"
)

// MockChatClient is a mock implementation of ChatClientInterface for testing
type MockChatClient struct {
	// Replies maps a query to the reply text returned for it
	Replies map[string]string
	// Errors maps a query to the error returned for it
	Errors map[string]error
	// DefaultReply is used for queries missing from both maps
	DefaultReply string
	ResetErr     error
	URL          string

	mu          sync.Mutex
	queries     []string
	resetCalls  int
	closeCalled bool
}

// Ensure MockChatClient implements ChatClientInterface
var _ ChatClientInterface = (*MockChatClient)(nil)

func (m *MockChatClient) Chat(ctx context.Context, query string) (*models.ChatResponse, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if err, ok := m.Errors[query]; ok {
		return nil, err
	}
	if reply, ok := m.Replies[query]; ok {
		return &models.ChatResponse{Response: reply}, nil
	}
	return &models.ChatResponse{Response: m.DefaultReply}, nil
}

func (m *MockChatClient) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCalls++
	return m.ResetErr
}

func (m *MockChatClient) ServerURL() string {
	if m.URL == "" {
		return models.DefaultServerURL
	}
	return m.URL
}

func (m *MockChatClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
}

// Queries returns every query received, in call order
func (m *MockChatClient) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}

// ResetCalls returns how many times Reset was called
func (m *MockChatClient) ResetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetCalls
}

// Closed reports whether Close was called
func (m *MockChatClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}
