package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/altscore/credit-system/internal/core/domain"
)

// queryFixture wires a query service over a seeded stub dataset with the LLM
// down, so routing and name matching can be tested deterministically.
func queryFixture(names ...string) (*QueryService, *stubDataset) {
	ds := newStubDataset()
	ds.seedUsers(names...)
	agg := NewMasterAggregator(ds, discardLogger)
	llm := downLLM()
	scorer := NewScoringService(llm, discardLogger)
	return NewQueryService(ds, agg, scorer, llm, discardLogger), ds
}

// ---------------------------------------------------------------------------
// Routing priority
// ---------------------------------------------------------------------------

func TestQueryService_RoutesListUsers(t *testing.T) {
	svc, _ := queryFixture("Asha Rao", "Ben Lee")

	out := svc.Process(context.Background(), "List all users")
	if !strings.HasPrefix(out, "Available users (2): ") {
		t.Errorf("expected user listing, got %q", out)
	}
	if !strings.Contains(out, "Asha Rao") || !strings.Contains(out, "Ben Lee") {
		t.Errorf("listing must name every user, got %q", out)
	}
}

func TestQueryService_ListBeatsHelp(t *testing.T) {
	svc, _ := queryFixture("Asha Rao")

	// Both "list users" and "help" keywords present: list wins.
	out := svc.Process(context.Background(), "help me list the users")
	if !strings.HasPrefix(out, "Available users") {
		t.Errorf("list must take priority over help, got %q", out)
	}
}

func TestQueryService_AssessBeatsHelp(t *testing.T) {
	svc, _ := queryFixture("Asha Rao")

	out := svc.Process(context.Background(), "help me assess Asha Rao")
	if !strings.HasPrefix(out, "Credit Assessment for: Asha Rao") {
		t.Errorf("assess must take priority over help, got %q", out)
	}
}

func TestQueryService_RoutesHelp(t *testing.T) {
	svc, _ := queryFixture("Asha Rao")

	out := svc.Process(context.Background(), "help")
	if !strings.Contains(out, "Available Commands:") {
		t.Errorf("expected the help message, got %q", out)
	}
}

func TestQueryService_GeneralFallsBackWhenLLMDown(t *testing.T) {
	svc, _ := queryFixture("Asha Rao")

	out := svc.Process(context.Background(), "what can you do")
	if out != capabilityMessage {
		t.Errorf("expected the capability message, got %q", out)
	}
}

func TestQueryService_GeneralUsesLLMWhenUp(t *testing.T) {
	ds := newStubDataset()
	ds.seedUsers("Asha Rao")
	agg := NewMasterAggregator(ds, discardLogger)
	llm := &stubChatClient{reply: "Credit scoring uses alternative data."}
	svc := NewQueryService(ds, agg, NewScoringService(llm, discardLogger), llm, discardLogger)

	out := svc.Process(context.Background(), "tell me about the system")
	if out != "Credit scoring uses alternative data." {
		t.Errorf("expected the LLM reply, got %q", out)
	}
	if !strings.Contains(llm.lastMsgs[1].Content, "System has 1 users") {
		t.Errorf("prompt must embed the dataset summary, got:\n%s", llm.lastMsgs[1].Content)
	}
}

// ---------------------------------------------------------------------------
// Name resolution
// ---------------------------------------------------------------------------

func TestQueryService_AssessResolvesNameFromQuery(t *testing.T) {
	svc, _ := queryFixture("Asha Rao", "Ben Lee")

	out := svc.Process(context.Background(), "What is the credit score for Asha Rao?")
	if !strings.HasPrefix(out, "Credit Assessment for: Asha Rao\n") {
		t.Errorf("expected assessment header for Asha Rao, got %q", out)
	}
	if !strings.Contains(out, strings.Repeat("=", 50)) {
		t.Errorf("missing separator line, got %q", out)
	}
	if !strings.Contains(out, "**RULE-BASED CREDIT ASSESSMENT**") {
		t.Errorf("LLM is down, expected the rule-based body, got %q", out)
	}
}

func TestQueryService_AssessMatchIsCaseInsensitive(t *testing.T) {
	svc, _ := queryFixture("Asha Rao")

	out := svc.Process(context.Background(), "assess ASHA RAO please")
	if !strings.HasPrefix(out, "Credit Assessment for: Asha Rao") {
		t.Errorf("case-folded match failed, got %q", out)
	}
}

func TestQueryService_AssessFirstMatchWins(t *testing.T) {
	// Both names appear in the query; the first aggregated row wins.
	svc, _ := queryFixture("Asha Rao", "Ben Lee")

	out := svc.Process(context.Background(), "assess Asha Rao and Ben Lee")
	if !strings.HasPrefix(out, "Credit Assessment for: Asha Rao") {
		t.Errorf("first match must win, got %q", out)
	}
}

func TestQueryService_AssessWithoutNamePromptsForOne(t *testing.T) {
	svc, _ := queryFixture("Asha Rao", "Ben Lee")

	out := svc.Process(context.Background(), "assess creditworthiness")
	if !strings.HasPrefix(out, "Please specify a user name. Available users: ") {
		t.Errorf("expected the specify-a-name prompt, got %q", out)
	}
}

func TestQueryService_AssessUnavailableData(t *testing.T) {
	ds := newStubDataset()
	ds.seedUsers("Asha Rao")
	ds.failTable("bill_payments")
	agg := NewMasterAggregator(ds, discardLogger)
	llm := downLLM()
	svc := NewQueryService(ds, agg, NewScoringService(llm, discardLogger), llm, discardLogger)

	out := svc.Process(context.Background(), "assess Asha Rao")
	if out != "Error: Unable to load user data. Please check if the source tables are available." {
		t.Errorf("expected the data-unavailable message, got %q", out)
	}
}

func TestQueryService_AssessUserNoMatchListsAvailable(t *testing.T) {
	svc, _ := queryFixture("Asha Rao", "Ben Lee")

	vectors := []domain.FeatureVector{
		{UserID: "U1", Name: "Asha Rao"},
		{UserID: "U2", Name: "Ben Lee"},
	}
	out := svc.assessUser(context.Background(), vectors, "Nonexistent Person")
	if !strings.HasPrefix(out, "No user found matching 'Nonexistent Person'. Available users: ") {
		t.Errorf("expected the no-match message, got %q", out)
	}
	if !strings.Contains(out, "Asha Rao, Ben Lee") {
		t.Errorf("no-match message must list known users, got %q", out)
	}
}

func TestQueryService_AssessUserCapsAvailableAtTen(t *testing.T) {
	vectors := make([]domain.FeatureVector, 0, 15)
	for i := 0; i < 15; i++ {
		vectors = append(vectors, domain.FeatureVector{
			UserID: fmt.Sprintf("U%02d", i),
			Name:   fmt.Sprintf("User %02d", i),
		})
	}
	svc, _ := queryFixture("Asha Rao")

	out := svc.assessUser(context.Background(), vectors, "zzz")
	listed := strings.Count(out, "User ")
	if listed != 10 {
		t.Errorf("no-match listing must cap at 10 names, got %d:\n%s", listed, out)
	}
}

// ---------------------------------------------------------------------------
// User listing
// ---------------------------------------------------------------------------

func TestQueryService_ListUsersCapsAtTwenty(t *testing.T) {
	ds := newStubDataset()
	for i := 0; i < 25; i++ {
		ds.users = append(ds.users, domain.User{
			ID:   fmt.Sprintf("U%02d", i),
			Name: fmt.Sprintf("User %02d", i),
		})
	}
	agg := NewMasterAggregator(ds, discardLogger)
	llm := downLLM()
	svc := NewQueryService(ds, agg, NewScoringService(llm, discardLogger), llm, discardLogger)

	out := svc.Process(context.Background(), "list users")
	if !strings.HasPrefix(out, "Available users (25): ") {
		t.Errorf("count must reflect all users, got %q", out)
	}
	if !strings.HasSuffix(out, " ... and 5 more") {
		t.Errorf("overflow suffix missing, got %q", out)
	}
	if listed := strings.Count(out, "User "); listed != 20 {
		t.Errorf("listing must cap at 20 names, got %d", listed)
	}
}

func TestQueryService_ListUsersSourceError(t *testing.T) {
	ds := newStubDataset()
	ds.failTable("users")
	agg := NewMasterAggregator(ds, discardLogger)
	llm := downLLM()
	svc := NewQueryService(ds, agg, NewScoringService(llm, discardLogger), llm, discardLogger)

	out := svc.Process(context.Background(), "list users")
	if !strings.HasPrefix(out, "Error listing users: ") {
		t.Errorf("expected a listing error, got %q", out)
	}
}
