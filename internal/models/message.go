package models

// Sender identifies who authored a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message represents a chat message for TUI display
type Message struct {
	Content string
	Sender  Sender
}

// Roles used in the model conversation history kept by the server.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryMessage is one turn of the conversation sent to the completion model.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
