package ports

import (
	"context"

	"github.com/altscore/credit-system/internal/core/domain"
)

// Dataset provides read-only access to the external source tables. Every
// method re-reads the underlying table: the pipeline trades repeated I/O for
// always-fresh data and no invalidation logic (tables are assumed small).
//
// Implementations must return domain.ErrSourceUnavailable (wrapped) when a
// required table is missing or unreadable.
type Dataset interface {
	Users(ctx context.Context) ([]domain.User, error)
	Locations(ctx context.Context) ([]domain.Location, error)

	BillPayments(ctx context.Context) ([]domain.Payment, error)
	RentPayments(ctx context.Context) ([]domain.Payment, error)
	TelecomUsage(ctx context.Context) ([]domain.TelecomUsage, error)

	UPITransactions(ctx context.Context) ([]domain.Payment, error)
	WalletBalances(ctx context.Context) ([]domain.WalletBalance, error)
	FinancialTransactions(ctx context.Context) ([]domain.Payment, error)
	GigIncome(ctx context.Context) ([]domain.Payment, error)
	SalaryIncome(ctx context.Context) ([]domain.Payment, error)
	LoanHistory(ctx context.Context) ([]domain.LoanRecord, error)

	EcommerceActivity(ctx context.Context) ([]domain.Payment, error)
}
