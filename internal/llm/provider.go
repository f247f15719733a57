// Package llm wraps the chat completion backend used to answer FAQ questions.
package llm

import (
	"context"

	"github.com/diogo/faqchat/internal/models"
)

// CompletionRequest is one completion call: a system prompt, prior turns and
// the new user message.
type CompletionRequest struct {
	SystemPrompt string
	History      []models.HistoryMessage
	Query        string
}

// Provider produces an assistant reply for a request
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Messages flattens a request into the ordered turn list sent to the model
func (r CompletionRequest) Messages() []models.HistoryMessage {
	msgs := make([]models.HistoryMessage, 0, len(r.History)+2)
	if r.SystemPrompt != "" {
		msgs = append(msgs, models.HistoryMessage{Role: models.RoleSystem, Content: r.SystemPrompt})
	}
	msgs = append(msgs, r.History...)
	msgs = append(msgs, models.HistoryMessage{Role: models.RoleUser, Content: r.Query})
	return msgs
}
