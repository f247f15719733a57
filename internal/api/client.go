// Package api provides the HTTP client for the faqchat backend.
package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/diogo/faqchat/internal/models"
)

// ChatClientInterface is what the TUI and commands need from a backend client
type ChatClientInterface interface {
	Chat(ctx context.Context, query string) (*models.ChatResponse, error)
	Reset(ctx context.Context) error
	ServerURL() string
	Close()
}

// httpDoer is the subset of tls_client.HttpClient used by ChatClient
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChatClient talks to the /chat and /reset endpoints
type ChatClient struct {
	httpClient httpDoer
	serverURL  string
	timeout    time.Duration
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*ChatClient)

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ChatClient) {
		c.timeout = timeout
	}
}

// withHTTPClient replaces the transport (used by tests)
func withHTTPClient(doer httpDoer) ClientOption {
	return func(c *ChatClient) {
		c.httpClient = doer
	}
}

// unboundedTransportTimeout is used when no request timeout is configured;
// the per-request context is then the only bound.
const unboundedTransportTimeout = 24 * time.Hour

// NewClient creates a new ChatClient for the server at serverURL
func NewClient(serverURL string, opts ...ClientOption) (*ChatClient, error) {
	serverURL = strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if serverURL == "" {
		serverURL = models.DefaultServerURL
	}
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		return nil, fmt.Errorf("invalid server URL %q: missing http:// or https:// scheme", serverURL)
	}

	client := &ChatClient{
		serverURL: serverURL,
		timeout:   300 * time.Second,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		transportTimeout := client.timeout
		if transportTimeout <= 0 {
			transportTimeout = unboundedTransportTimeout
		}

		// The cookie jar keeps the server session, and with it the
		// conversation memory, across queries.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(transportTimeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithCookieJar(tls_client.NewCookieJar()),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// ServerURL returns the base URL of the backend
func (c *ChatClient) ServerURL() string {
	return c.serverURL
}

// Close marks the client closed and drops idle connections
func (c *ChatClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if hc, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		hc.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *ChatClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *ChatClient) endpoint(path string) string {
	return c.serverURL + path
}

// requestContext applies the configured timeout to ctx
func (c *ChatClient) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}
