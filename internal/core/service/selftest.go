package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/altscore/credit-system/internal/core/ports"
)

// SelfTest verifies the system before it accepts traffic: the full
// aggregation must succeed and yield at least one user. A failing data load
// is fatal (the host must refuse to start); an unreachable LLM is only
// logged, since every query path carries its own deterministic fallback.
func SelfTest(ctx context.Context, agg ports.Aggregator, scorer ports.ScoringService, llm ports.ChatClient, log zerolog.Logger) error {
	vectors, err := agg.Aggregate(ctx)
	if err != nil {
		return fmt.Errorf("self-test: data load: %w", err)
	}
	if len(vectors) == 0 {
		return fmt.Errorf("self-test: data load produced no users")
	}
	log.Info().Int("users", len(vectors)).Msg("self-test: source data loaded")

	if err := llm.Probe(ctx); err != nil {
		log.Warn().Err(err).Msg("self-test: llm not available, rule-based fallback will be used")
	} else {
		log.Info().Msg("self-test: llm connected")
	}

	// Sample assessment for the first user, visible at debug level.
	sample := scorer.Assess(ctx, vectors[0])
	if len(sample) > 200 {
		sample = sample[:200] + "..."
	}
	log.Debug().Str("user", vectors[0].Name).Str("assessment", sample).Msg("self-test: sample assessment")

	return nil
}
