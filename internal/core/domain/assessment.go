package domain

import (
	"fmt"
	"strings"
)

// RiskTier is the coarse bucket derived from a numeric credit score.
type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// TierForScore maps a clamped score to its risk tier.
//
//	score >= 70 → Low
//	score >= 50 → Medium
//	otherwise   → High
func TierForScore(score int) RiskTier {
	switch {
	case score >= 70:
		return RiskLow
	case score >= 50:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// AssessmentSource identifies which scoring path produced an assessment.
type AssessmentSource string

const (
	SourceLLM   AssessmentSource = "llm"
	SourceRules AssessmentSource = "rules"
)

// Assessment is the result of the rule-based scorer: a clamped score, the
// ordered list of factors that moved it, and the derived tier.
type Assessment struct {
	Score   int
	Factors []string
	Tier    RiskTier
}

// Render produces the human-readable rule-based assessment text. The output
// is deterministic for a given assessment so the fallback path is
// byte-for-byte reproducible.
func (a Assessment) Render() string {
	var b strings.Builder
	b.WriteString("**RULE-BASED CREDIT ASSESSMENT**\n")
	fmt.Fprintf(&b, "Credit Score: %d/100\n\n", a.Score)
	b.WriteString("Key Factors:\n")
	for _, factor := range a.Factors {
		fmt.Fprintf(&b, "- %s\n", factor)
	}
	fmt.Fprintf(&b, "\nRisk Level: %s\n\n", a.Tier)
	b.WriteString("Note: This assessment is based on alternative data sources including utility payments,\n")
	b.WriteString("digital transaction patterns, income sources, and location stability.")
	return b.String()
}
