package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/altscore/credit-system/internal/api/metrics"
	"github.com/altscore/credit-system/internal/core/domain"
	"github.com/altscore/credit-system/internal/core/ports"
)

const (
	scoringSystemPrompt = "You assess credit risk based on alternative data such as utility bills, telecom usage, digital transactions, and location stability."

	scoringPromptFormat = `You are an AI financial analyst specializing in alternative credit scoring for underserved communities.
Assess creditworthiness based on the following user data and provide:
1. A credit score out of 100
2. Key factors that influenced the score
3. Brief reasoning

User data:
%s`
)

// ScoringService produces a human-readable assessment for one user's feature
// vector. It tries the generative assessor first and falls back to the
// deterministic rule-based scorer on any failure, so Assess never fails.
type ScoringService struct {
	llm ports.ChatClient
	log zerolog.Logger
}

func NewScoringService(llm ports.ChatClient, log zerolog.Logger) *ScoringService {
	return &ScoringService{llm: llm, log: log}
}

// Assess implements ports.ScoringService.
func (s *ScoringService) Assess(ctx context.Context, vec domain.FeatureVector) string {
	if text, err := s.assessWithLLM(ctx, vec); err == nil {
		metrics.AssessmentsTotal.WithLabelValues(string(domain.SourceLLM)).Inc()
		return text
	} else if errors.Is(err, domain.ErrLLMUnavailable) || errors.Is(err, domain.ErrLLMMalformedResponse) {
		s.log.Warn().Err(err).Str("user", vec.UserID).Msg("llm scoring failed, using rule-based fallback")
	} else {
		// Unexpected error kind: still fall back, but log it distinctly.
		s.log.Error().Err(err).Str("user", vec.UserID).Msg("unexpected scoring error, using rule-based fallback")
	}

	metrics.AssessmentsTotal.WithLabelValues(string(domain.SourceRules)).Inc()
	return RuleBasedAssessment(vec).Render()
}

// assessWithLLM probes connectivity first and only then attempts scoring.
func (s *ScoringService) assessWithLLM(ctx context.Context, vec domain.FeatureVector) (string, error) {
	if err := s.llm.Probe(ctx); err != nil {
		return "", fmt.Errorf("connectivity probe: %w", err)
	}

	reply, err := s.llm.Chat(ctx, []ports.ChatMessage{
		{Role: ports.RoleSystem, Content: scoringSystemPrompt},
		{Role: ports.RoleUser, Content: fmt.Sprintf(scoringPromptFormat, vec.Summary())},
	})
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", domain.ErrLLMMalformedResponse
	}
	return reply, nil
}

// RuleBasedAssessment is the deterministic fallback scorer: base score 50,
// fixed ordered adjustments, final clamp to [0,100]. It is a pure function
// of the feature vector.
func RuleBasedAssessment(vec domain.FeatureVector) domain.Assessment {
	score := 50
	var factors []string
	apply := func(delta int, label string) {
		score += delta
		factors = append(factors, fmt.Sprintf("%s (%+d)", label, delta))
	}

	// Income.
	if vec.AvgSalary > 20000 {
		apply(15, "High salary income")
	} else if vec.AvgSalary > 10000 {
		apply(8, "Moderate salary income")
	}
	if vec.GigIncomeTotal > 5000 {
		apply(10, "Additional gig income")
	}

	// Payment behavior.
	if vec.MonthlyUtilitySpend > 0 && vec.MonthlyUtilitySpend < 2000 {
		apply(12, "Regular utility payments")
	} else if vec.MonthlyUtilitySpend > 3000 {
		apply(-8, "High utility expenses")
	}

	// Digital activity.
	if vec.UPITotalSpent > 5000 {
		apply(8, "Active digital transactions")
	}

	// Location stability.
	switch vec.LocationStability {
	case "high":
		apply(10, "High location stability")
	case "medium":
		apply(5, "Medium location stability")
	}

	// Loan history.
	if vec.OutstandingAmount > 30000 {
		apply(-15, "High outstanding debt")
	} else if vec.OutstandingAmount > 10000 {
		apply(-8, "Moderate outstanding debt")
	}
	if vec.OnTimeRepayments > 0.8 {
		apply(12, "Good repayment history")
	} else if vec.OnTimeRepayments > 0.5 {
		apply(6, "Fair repayment history")
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return domain.Assessment{
		Score:   score,
		Factors: factors,
		Tier:    domain.TierForScore(score),
	}
}
