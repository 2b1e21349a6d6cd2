package ports

import (
	"context"
	"time"
)

// TranscriptEntry is one persisted chat message.
type TranscriptEntry struct {
	Role      string    `json:"role" bson:"role"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Processed bool      `json:"processed" bson:"processed"`
}

// TranscriptRepository persists the conversational transcript. The scoring
// core itself never persists assessments; only the chat surface records what
// was said.
type TranscriptRepository interface {
	Append(ctx context.Context, entry TranscriptEntry) error
	History(ctx context.Context) ([]TranscriptEntry, error)
	Clear(ctx context.Context) error
}

// ChatService drives a conversation: it records the user message, routes the
// query, and records the agent reply.
type ChatService interface {
	Send(ctx context.Context, query string) (string, error)
	History(ctx context.Context) ([]TranscriptEntry, error)
	Clear(ctx context.Context) error
}
