package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/altscore/credit-system/internal/api/metrics"
	"github.com/altscore/credit-system/internal/core/domain"
	"github.com/altscore/credit-system/internal/core/ports"
)

// FinancialsExtractor computes the financial feature set: UPI spend totals,
// latest wallet balances per wallet type, overall transaction totals, gig
// income totals, average salary and loan history, left-joined onto identity
// and location. One row per known user.
type FinancialsExtractor struct {
	ds  ports.Dataset
	log zerolog.Logger
}

func NewFinancialsExtractor(ds ports.Dataset, log zerolog.Logger) *FinancialsExtractor {
	return &FinancialsExtractor{ds: ds, log: log}
}

func (e *FinancialsExtractor) Extract(ctx context.Context) ([]domain.FinancialFeatures, error) {
	users, err := e.ds.Users(ctx)
	if err != nil {
		return nil, e.fail("users", err)
	}
	locations, err := e.ds.Locations(ctx)
	if err != nil {
		return nil, e.fail("location_data", err)
	}
	upi, err := e.ds.UPITransactions(ctx)
	if err != nil {
		return nil, e.fail("upi_transactions", err)
	}
	wallets, err := e.ds.WalletBalances(ctx)
	if err != nil {
		return nil, e.fail("wallet_balances", err)
	}
	fin, err := e.ds.FinancialTransactions(ctx)
	if err != nil {
		return nil, e.fail("financial_transactions", err)
	}
	gig, err := e.ds.GigIncome(ctx)
	if err != nil {
		return nil, e.fail("gig_income", err)
	}
	salary, err := e.ds.SalaryIncome(ctx)
	if err != nil {
		return nil, e.fail("salary_income", err)
	}
	loans, err := e.ds.LoanHistory(ctx)
	if err != nil {
		return nil, e.fail("loan_history", err)
	}

	upiTotal := sumAmountByUser(upi)
	finTotal := sumAmountByUser(fin)
	gigTotal := sumAmountByUser(gig)
	salaryAvg := meanAmountByUser(salary)

	// Latest balance per (user, wallet type): later rows overwrite earlier
	// ones, matching last-value-per-group semantics in table order.
	walletByUser := make(map[string]map[string]float64)
	for _, w := range wallets {
		m, ok := walletByUser[w.UserID]
		if !ok {
			m = make(map[string]float64)
			walletByUser[w.UserID] = m
		}
		m[w.WalletType] = w.Balance
	}

	// loan_history carries one row per user; a duplicate overwrites.
	loanByUser := make(map[string]domain.LoanRecord, len(loans))
	for _, l := range loans {
		loanByUser[l.UserID] = l
	}

	locByUser := locationIndex(locations)

	out := make([]domain.FinancialFeatures, 0, len(users))
	for _, u := range users {
		loc := locByUser[u.ID]
		loan := loanByUser[u.ID]
		out = append(out, domain.FinancialFeatures{
			UserID:            u.ID,
			Name:              u.Name,
			UPITotalSpent:     upiTotal[u.ID],
			WalletBalances:    walletByUser[u.ID],
			TotalTransactions: finTotal[u.ID],
			GigIncomeTotal:    gigTotal[u.ID],
			AvgSalary:         salaryAvg.mean(u.ID),
			OutstandingAmount: loan.OutstandingAmount,
			OnTimeRepayments:  loan.OnTimeRepayments,
			City:              loc.City,
			LocationStability: loc.Stability,
		})
	}
	return out, nil
}

func (e *FinancialsExtractor) fail(table string, err error) error {
	metrics.ExtractorFailuresTotal.WithLabelValues("financials").Inc()
	e.log.Error().Err(err).Str("table", table).Msg("financials extractor failed")
	return fmt.Errorf("financials extractor: table %s: %w", table, err)
}
