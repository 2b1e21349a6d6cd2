package ports

import "context"

// Chat message roles understood by the LLM service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one role-tagged message in a chat-completion request.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatClient talks to the generative assessor. The service is treated as
// unreliable: every call site must fall back on error, never propagate.
type ChatClient interface {
	// Probe performs a minimal round trip to verify the service and model
	// are reachable. Returns nil only when a scoring call is worth trying.
	Probe(ctx context.Context) error

	// Chat sends the ordered message list and returns the reply content.
	Chat(ctx context.Context, messages []ChatMessage) (string, error)
}
