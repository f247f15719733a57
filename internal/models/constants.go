// Package models contains data types and constants shared by the faqchat client and server.
package models

// Endpoint paths served by the chat backend
const (
	PathChat   = "/chat"
	PathReset  = "/reset"
	PathHealth = "/healthz"
)

// DefaultServerURL is where the client looks for the backend when nothing is configured.
const DefaultServerURL = "http://127.0.0.1:5000"

// Completion defaults
const (
	DefaultCompletionModel = "gemma2-9b-it"
	DefaultBaseURL         = "https://api.groq.com/openai/v1"
	DefaultTemperature     = 0.7
	DefaultMaxTokens       = 700

	// HistoryWindow is how many stored history messages accompany each query.
	HistoryWindow = 10
)

// ResetMessage is returned by the reset endpoint
const ResetMessage = "Conversation history reset successfully"
