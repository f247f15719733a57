package models

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is the successful body of POST /chat. Error is set instead
// of Response when the server failed to answer.
type ChatResponse struct {
	Response            string           `json:"response"`
	ConversationHistory []HistoryMessage `json:"conversation_history,omitempty"`
	Error               string           `json:"error,omitempty"`
}

// ResetResponse is the body of POST /reset
type ResetResponse struct {
	Message string `json:"message"`
}
