package ports

import (
	"context"

	"github.com/altscore/credit-system/internal/core/domain"
)

// Extractor computes one behavioral signal category's per-user features from
// the source tables. Concrete output types differ per domain, so extractors
// are exposed through the Aggregator rather than a shared interface.

// Aggregator unifies the three domain feature sets into one vector per user.
type Aggregator interface {
	// Aggregate recomputes the full join from source data. It returns
	// domain.ErrIncompleteCoverage when any domain extractor comes back
	// empty: partial coverage is treated as total failure, never as a
	// degraded vector.
	Aggregate(ctx context.Context) ([]domain.FeatureVector, error)
}

// ScoringService turns one user's feature vector into a rendered assessment.
// It never fails: the LLM path is attempted first and any failure falls back
// to the deterministic rule-based scorer.
type ScoringService interface {
	Assess(ctx context.Context, vec domain.FeatureVector) string
}

// QueryService is the conversational entry point invoked by the HTTP layer.
// All internal errors are rendered as explanatory text, never propagated.
type QueryService interface {
	Process(ctx context.Context, query string) string
}
