package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/altscore/credit-system/internal/api/metrics"
	"github.com/altscore/credit-system/internal/core/domain"
	"github.com/altscore/credit-system/internal/core/ports"
)

const maxListedUsers = 20

const helpMessage = `Available Commands:
==================
- "assess [user name]" or "credit score for [user name]" - Get credit assessment
- "list users" - Show all available users
- "help" - Show this help message

Examples:
- "What is the credit score for John Doe?"
- "Assess creditworthiness of Jane Smith"
- "List all users"

Note: If the LLM service is not running, the system will use rule-based scoring as fallback.`

const capabilityMessage = "I can help you with credit scoring queries. Try asking about specific users or type 'help' for available commands."

const generalSystemPrompt = "You are an expert in alternative credit scoring for underserved populations."

const generalPromptFormat = `You are a credit scoring assistant. The user asked: %s

Available data: %s

Please provide a helpful response about credit scoring, user assessment, or system capabilities.`

// QueryService classifies free-text queries by keyword, in fixed priority
// order, and dispatches to the right handler. Process never fails: every
// internal error is rendered as an explanatory string.
type QueryService struct {
	ds     ports.Dataset
	agg    ports.Aggregator
	scorer ports.ScoringService
	llm    ports.ChatClient
	log    zerolog.Logger
}

func NewQueryService(ds ports.Dataset, agg ports.Aggregator, scorer ports.ScoringService, llm ports.ChatClient, log zerolog.Logger) *QueryService {
	return &QueryService{ds: ds, agg: agg, scorer: scorer, llm: llm, log: log}
}

// Process implements ports.QueryService. Priority order is fixed and
// first-match-wins: list-users, assess, help, general.
func (s *QueryService) Process(ctx context.Context, query string) string {
	lowered := strings.ToLower(query)

	switch {
	case strings.Contains(lowered, "list") && strings.Contains(lowered, "user"):
		metrics.QueriesRoutedTotal.WithLabelValues("list_users").Inc()
		return s.listUsers(ctx)

	case strings.Contains(lowered, "credit score") ||
		strings.Contains(lowered, "assess") ||
		strings.Contains(lowered, "creditworthiness"):
		metrics.QueriesRoutedTotal.WithLabelValues("assess").Inc()
		return s.assess(ctx, lowered)

	case strings.Contains(lowered, "help"):
		metrics.QueriesRoutedTotal.WithLabelValues("help").Inc()
		return helpMessage

	default:
		metrics.QueriesRoutedTotal.WithLabelValues("general").Inc()
		return s.general(ctx, query)
	}
}

// assess resolves a user name embedded in the query and runs the scoring
// engine on that user's feature vector.
func (s *QueryService) assess(ctx context.Context, loweredQuery string) string {
	vectors, err := s.agg.Aggregate(ctx)
	if err != nil || len(vectors) == 0 {
		s.log.Warn().Err(err).Msg("assessment requested but user data unavailable")
		return "Error: Unable to load user data. Please check if the source tables are available."
	}

	// Case-folded name index, built once per aggregation pass. Iteration is
	// over the vector slice itself so first-match tie-breaks follow
	// aggregated-table order.
	name := ""
	for _, vec := range vectors {
		folded := strings.ToLower(vec.Name)
		if folded != "" && strings.Contains(loweredQuery, folded) {
			name = vec.Name
			break
		}
	}
	if name == "" {
		return fmt.Sprintf("Please specify a user name. Available users: %s", s.listUsers(ctx))
	}

	return s.assessUser(ctx, vectors, name)
}

// assessUser looks the name up by case-insensitive substring match; the
// first matching row wins.
func (s *QueryService) assessUser(ctx context.Context, vectors []domain.FeatureVector, name string) string {
	folded := strings.ToLower(name)
	for _, vec := range vectors {
		if strings.Contains(strings.ToLower(vec.Name), folded) {
			assessment := s.scorer.Assess(ctx, vec)
			return fmt.Sprintf("Credit Assessment for: %s\n%s\n%s", vec.Name, strings.Repeat("=", 50), assessment)
		}
	}

	// domain.ErrNoUserMatch is a normal outcome: list what exists instead.
	available := make([]string, 0, 10)
	for _, vec := range vectors {
		if vec.Name == "" {
			continue
		}
		available = append(available, vec.Name)
		if len(available) == 10 {
			break
		}
	}
	s.log.Debug().Str("name", name).Msg("no user matched assessment query")
	return fmt.Sprintf("No user found matching '%s'. Available users: %s", name, strings.Join(available, ", "))
}

// listUsers loads the identity table directly, independent of the
// aggregator.
func (s *QueryService) listUsers(ctx context.Context) string {
	users, err := s.ds.Users(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list users")
		return fmt.Sprintf("Error listing users: %v", domain.ErrSourceUnavailable)
	}

	names := make([]string, 0, len(users))
	for _, u := range users {
		if u.Name != "" {
			names = append(names, u.Name)
		}
	}

	listed := names
	if len(listed) > maxListedUsers {
		listed = listed[:maxListedUsers]
	}
	out := fmt.Sprintf("Available users (%d): %s", len(names), strings.Join(listed, ", "))
	if len(names) > maxListedUsers {
		out += fmt.Sprintf(" ... and %d more", len(names)-maxListedUsers)
	}
	return out
}

// general forwards the raw query to the LLM with a one-line dataset summary,
// or returns the static capability message when the service is unreachable.
func (s *QueryService) general(ctx context.Context, query string) string {
	if err := s.llm.Probe(ctx); err != nil {
		s.log.Debug().Err(err).Msg("llm unreachable for general query")
		return capabilityMessage
	}

	userCount := 0
	if vectors, err := s.agg.Aggregate(ctx); err == nil {
		userCount = len(vectors)
	}
	summary := fmt.Sprintf("System has %d users with financial and alternative credit data.", userCount)

	reply, err := s.llm.Chat(ctx, []ports.ChatMessage{
		{Role: ports.RoleSystem, Content: generalSystemPrompt},
		{Role: ports.RoleUser, Content: fmt.Sprintf(generalPromptFormat, query, summary)},
	})
	if err != nil || reply == "" {
		s.log.Warn().Err(err).Msg("llm failed on general query")
		return capabilityMessage
	}
	return reply
}
