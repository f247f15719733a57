package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/faqchat/internal/errors"
	"github.com/diogo/faqchat/internal/models"
)

// maxResponseBytes bounds how much of a reply body is read
const maxResponseBytes = 4 << 20

// JSON paths in /chat replies
const (
	PathResponse = "response"
	PathError    = "error"
	PathHistory  = "conversation_history"
	PathMessage  = "message"
)

// Chat posts one query to /chat. The reply body is parsed as JSON whatever
// the HTTP status, since the backend reports failures as a 500 carrying an
// "error" field. A server-reported error comes back as
// *errors.ServerReportedError; anything that prevents reading a JSON object
// comes back as *errors.TransportError.
func (c *ChatClient) Chat(ctx context.Context, query string) (*models.ChatResponse, error) {
	if c.IsClosed() {
		return nil, apierrors.NewTransportError(models.PathChat, apierrors.ErrClientClosed)
	}

	payload, err := json.Marshal(models.ChatRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	body, status, err := c.post(ctx, models.PathChat, payload)
	if err != nil {
		return nil, err
	}

	return parseChatResponse(body, status)
}

// Reset clears the conversation history kept by the server for this client's session
func (c *ChatClient) Reset(ctx context.Context) error {
	if c.IsClosed() {
		return apierrors.NewTransportError(models.PathReset, apierrors.ErrClientClosed)
	}

	body, status, err := c.post(ctx, models.PathReset, []byte("{}"))
	if err != nil {
		return err
	}

	if status < 200 || status > 299 {
		msg := gjson.GetBytes(body, PathError).String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return apierrors.NewAPIError(status, models.PathReset, msg)
	}

	return nil
}

// post sends a JSON body and returns the raw reply body and status
func (c *ChatClient) post(ctx context.Context, path string, payload []byte) ([]byte, int, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return nil, 0, apierrors.NewTransportError(path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, c.transportFailure(ctx, path, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, c.transportFailure(ctx, path, err)
	}

	return body, resp.StatusCode, nil
}

// transportFailure classifies a failed exchange, turning a context deadline
// into a timeout description.
func (c *ChatClient) transportFailure(ctx context.Context, path string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		timeoutErr := apierrors.NewTimeoutError(fmt.Sprintf("no reply from %s within %s", path, c.timeout))
		return &apierrors.TransportError{
			Endpoint: path,
			Message:  timeoutErr.Error(),
			Err:      timeoutErr,
		}
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return &apierrors.TransportError{Endpoint: path, Message: "request cancelled", Err: ctx.Err()}
	}
	return apierrors.NewTransportError(path, err)
}

// parseChatResponse interprets a /chat reply body
func parseChatResponse(body []byte, status int) (*models.ChatResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, &apierrors.TransportError{
			Endpoint: models.PathChat,
			Message:  fmt.Sprintf("invalid JSON in reply (HTTP %d)", status),
			Err:      apierrors.ErrInvalidResponse,
		}
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &apierrors.TransportError{
			Endpoint: models.PathChat,
			Message:  fmt.Sprintf("unexpected reply shape (HTTP %d)", status),
			Err:      apierrors.ErrInvalidResponse,
		}
	}

	if errField := root.Get(PathError); truthy(errField) {
		return nil, apierrors.NewServerReportedError(errField.String())
	}

	respField := root.Get(PathResponse)
	if !respField.Exists() {
		return nil, &apierrors.TransportError{
			Endpoint: models.PathChat,
			Message:  fmt.Sprintf("reply has no %q field (HTTP %d)", PathResponse, status),
			Err:      apierrors.ErrInvalidResponse,
		}
	}

	out := &models.ChatResponse{Response: respField.String()}
	root.Get(PathHistory).ForEach(func(_, value gjson.Result) bool {
		out.ConversationHistory = append(out.ConversationHistory, models.HistoryMessage{
			Role:    value.Get("role").String(),
			Content: value.Get("content").String(),
		})
		return true
	})

	return out, nil
}

// truthy follows the loose truthiness a browser client applies to the
// "error" field: absent, null, false, 0 and "" mean no error.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return r.Exists()
	}
}
