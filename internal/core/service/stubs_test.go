package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/altscore/credit-system/internal/core/domain"
	"github.com/altscore/credit-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub dataset
// ---------------------------------------------------------------------------

// stubDataset serves fixed slices per table. Setting errs[table] makes that
// table's read fail, mirroring a missing or unreadable source file.
type stubDataset struct {
	users     []domain.User
	locations []domain.Location
	bills     []domain.Payment
	rents     []domain.Payment
	telecom   []domain.TelecomUsage
	upi       []domain.Payment
	wallets   []domain.WalletBalance
	fin       []domain.Payment
	gig       []domain.Payment
	salary    []domain.Payment
	loans     []domain.LoanRecord
	ecom      []domain.Payment

	errs map[string]error
}

func newStubDataset() *stubDataset {
	return &stubDataset{errs: make(map[string]error)}
}

func (d *stubDataset) failTable(name string) {
	d.errs[name] = errors.New("open " + name + ".csv: no such file or directory")
}

func (d *stubDataset) Users(context.Context) ([]domain.User, error) {
	return d.users, d.errs["users"]
}

func (d *stubDataset) Locations(context.Context) ([]domain.Location, error) {
	return d.locations, d.errs["location_data"]
}

func (d *stubDataset) BillPayments(context.Context) ([]domain.Payment, error) {
	return d.bills, d.errs["bill_payments"]
}

func (d *stubDataset) RentPayments(context.Context) ([]domain.Payment, error) {
	return d.rents, d.errs["inferred_rent_payments"]
}

func (d *stubDataset) TelecomUsage(context.Context) ([]domain.TelecomUsage, error) {
	return d.telecom, d.errs["telecom_usage"]
}

func (d *stubDataset) UPITransactions(context.Context) ([]domain.Payment, error) {
	return d.upi, d.errs["upi_transactions"]
}

func (d *stubDataset) WalletBalances(context.Context) ([]domain.WalletBalance, error) {
	return d.wallets, d.errs["wallet_balances"]
}

func (d *stubDataset) FinancialTransactions(context.Context) ([]domain.Payment, error) {
	return d.fin, d.errs["financial_transactions"]
}

func (d *stubDataset) GigIncome(context.Context) ([]domain.Payment, error) {
	return d.gig, d.errs["gig_income"]
}

func (d *stubDataset) SalaryIncome(context.Context) ([]domain.Payment, error) {
	return d.salary, d.errs["salary_income"]
}

func (d *stubDataset) LoanHistory(context.Context) ([]domain.LoanRecord, error) {
	return d.loans, d.errs["loan_history"]
}

func (d *stubDataset) EcommerceActivity(context.Context) ([]domain.Payment, error) {
	return d.ecom, d.errs["ecommerce_activity"]
}

// seedUsers populates the identity table plus one payment row per table so
// every extractor has data and the fail-closed check passes.
func (d *stubDataset) seedUsers(names ...string) {
	for i, name := range names {
		id := userID(i)
		d.users = append(d.users, domain.User{ID: id, Name: name})
		d.bills = append(d.bills, domain.Payment{UserID: id, Amount: 100, Timestamp: ts("2024-03-01")})
		d.upi = append(d.upi, domain.Payment{UserID: id, Amount: 200, Timestamp: ts("2024-03-02")})
		d.ecom = append(d.ecom, domain.Payment{UserID: id, Amount: 300, Timestamp: ts("2024-03-03")})
	}
}

func userID(i int) string {
	return "U" + string(rune('1'+i))
}

func ts(day string) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return t
}

// ---------------------------------------------------------------------------
// Stub LLM client
// ---------------------------------------------------------------------------

type stubChatClient struct {
	probeErr error
	reply    string
	chatErr  error

	chatCalls int
	lastMsgs  []ports.ChatMessage
}

func (c *stubChatClient) Probe(context.Context) error {
	return c.probeErr
}

func (c *stubChatClient) Chat(_ context.Context, msgs []ports.ChatMessage) (string, error) {
	c.chatCalls++
	c.lastMsgs = msgs
	return c.reply, c.chatErr
}

// downLLM is an LLM client whose probe always fails.
func downLLM() *stubChatClient {
	return &stubChatClient{probeErr: domain.ErrLLMUnavailable}
}
