package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog"

	"github.com/altscore/credit-system/internal/api/metrics"
	"github.com/altscore/credit-system/internal/core/ports"
)

// DedupChecker abstracts the duplicate-submission store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// ChatService wraps the query router with a persisted transcript and a
// duplicate-submission guard, so retried form posts don't trigger a second
// full scoring pass.
type ChatService struct {
	queries     ports.QueryService
	transcripts ports.TranscriptRepository
	dedup       DedupChecker
	log         zerolog.Logger
}

func NewChatService(queries ports.QueryService, transcripts ports.TranscriptRepository, dedup DedupChecker, log zerolog.Logger) *ChatService {
	return &ChatService{queries: queries, transcripts: transcripts, dedup: dedup, log: log}
}

// Send records the user message, routes the query, and records the reply.
// Transcript writes are an audit trail: failures are logged, never fatal.
func (s *ChatService) Send(ctx context.Context, query string) (string, error) {
	key := messageKey(query)

	isDup, err := s.dedup.IsDuplicate(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.ChatDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("key", key).Msg("duplicate chat message skipped")
		return "No new message to process.", nil
	}
	metrics.ChatDedupTotal.WithLabelValues("miss").Inc()

	now := time.Now().UTC()
	s.append(ctx, ports.TranscriptEntry{Role: ports.RoleUser, Content: query, Timestamp: now, Processed: true})

	if markErr := s.dedup.Mark(ctx, key); markErr != nil {
		s.log.Warn().Err(markErr).Msg("failed to set dedup key")
	}

	reply := s.queries.Process(ctx, query)

	s.append(ctx, ports.TranscriptEntry{Role: ports.RoleAssistant, Content: reply, Timestamp: time.Now().UTC(), Processed: true})
	return reply, nil
}

// History returns the persisted transcript, oldest first.
func (s *ChatService) History(ctx context.Context) ([]ports.TranscriptEntry, error) {
	return s.transcripts.History(ctx)
}

// Clear wipes the transcript.
func (s *ChatService) Clear(ctx context.Context) error {
	return s.transcripts.Clear(ctx)
}

func (s *ChatService) append(ctx context.Context, entry ports.TranscriptEntry) {
	if err := s.transcripts.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("role", entry.Role).Msg("failed to persist transcript entry")
	}
}

func messageKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return "chat:" + hex.EncodeToString(sum[:8])
}
