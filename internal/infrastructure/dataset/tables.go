package dataset

import (
	"context"

	"github.com/altscore/credit-system/internal/core/domain"
)

// CSVDataset implements ports.Dataset over a directory of CSV files.
type CSVDataset struct {
	dir string
}

func NewCSVDataset(dir string) *CSVDataset {
	return &CSVDataset{dir: dir}
}

func (d *CSVDataset) Users(_ context.Context) ([]domain.User, error) {
	t, err := readTable(d.dir, "users", "user_id", "name")
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(t.rows))
	for _, row := range t.rows {
		users = append(users, domain.User{
			ID:   t.str(row, "user_id"),
			Name: t.str(row, "name"),
		})
	}
	return users, nil
}

func (d *CSVDataset) Locations(_ context.Context) ([]domain.Location, error) {
	t, err := readTable(d.dir, "location_data", "user_id")
	if err != nil {
		return nil, err
	}
	locations := make([]domain.Location, 0, len(t.rows))
	for _, row := range t.rows {
		locations = append(locations, domain.Location{
			UserID:    t.str(row, "user_id"),
			City:      t.str(row, "city"),
			Stability: t.str(row, "location_stability"),
		})
	}
	return locations, nil
}

func (d *CSVDataset) BillPayments(ctx context.Context) ([]domain.Payment, error) {
	return d.payments(ctx, "bill_payments")
}

func (d *CSVDataset) RentPayments(ctx context.Context) ([]domain.Payment, error) {
	return d.payments(ctx, "inferred_rent_payments")
}

func (d *CSVDataset) TelecomUsage(_ context.Context) ([]domain.TelecomUsage, error) {
	t, err := readTable(d.dir, "telecom_usage", "user_id", "timestamp", "monthly_data_usage_gb", "monthly_recharge_amount")
	if err != nil {
		return nil, err
	}
	usage := make([]domain.TelecomUsage, 0, len(t.rows))
	for i, row := range t.rows {
		data, err := t.float(row, i, "monthly_data_usage_gb")
		if err != nil {
			return nil, err
		}
		recharge, err := t.float(row, i, "monthly_recharge_amount")
		if err != nil {
			return nil, err
		}
		ts, err := t.time(row, i, "timestamp")
		if err != nil {
			return nil, err
		}
		usage = append(usage, domain.TelecomUsage{
			UserID:         t.str(row, "user_id"),
			DataUsageGB:    data,
			RechargeAmount: recharge,
			Timestamp:      ts,
		})
	}
	return usage, nil
}

func (d *CSVDataset) UPITransactions(ctx context.Context) ([]domain.Payment, error) {
	return d.payments(ctx, "upi_transactions")
}

func (d *CSVDataset) WalletBalances(_ context.Context) ([]domain.WalletBalance, error) {
	t, err := readTable(d.dir, "wallet_balances", "user_id", "wallet_type", "balance_amount", "timestamp")
	if err != nil {
		return nil, err
	}
	balances := make([]domain.WalletBalance, 0, len(t.rows))
	for i, row := range t.rows {
		balance, err := t.float(row, i, "balance_amount")
		if err != nil {
			return nil, err
		}
		ts, err := t.time(row, i, "timestamp")
		if err != nil {
			return nil, err
		}
		balances = append(balances, domain.WalletBalance{
			UserID:     t.str(row, "user_id"),
			WalletType: t.str(row, "wallet_type"),
			Balance:    balance,
			Timestamp:  ts,
		})
	}
	return balances, nil
}

func (d *CSVDataset) FinancialTransactions(ctx context.Context) ([]domain.Payment, error) {
	return d.payments(ctx, "financial_transactions")
}

func (d *CSVDataset) GigIncome(ctx context.Context) ([]domain.Payment, error) {
	return d.payments(ctx, "gig_income")
}

func (d *CSVDataset) SalaryIncome(ctx context.Context) ([]domain.Payment, error) {
	return d.payments(ctx, "salary_income")
}

func (d *CSVDataset) LoanHistory(_ context.Context) ([]domain.LoanRecord, error) {
	t, err := readTable(d.dir, "loan_history", "user_id", "outstanding_amount", "on_time_repayments")
	if err != nil {
		return nil, err
	}
	loans := make([]domain.LoanRecord, 0, len(t.rows))
	for i, row := range t.rows {
		outstanding, err := t.float(row, i, "outstanding_amount")
		if err != nil {
			return nil, err
		}
		repayments, err := t.float(row, i, "on_time_repayments")
		if err != nil {
			return nil, err
		}
		loans = append(loans, domain.LoanRecord{
			UserID:            t.str(row, "user_id"),
			OutstandingAmount: outstanding,
			OnTimeRepayments:  repayments,
		})
	}
	return loans, nil
}

func (d *CSVDataset) EcommerceActivity(ctx context.Context) ([]domain.Payment, error) {
	return d.payments(ctx, "ecommerce_activity")
}

// payments reads one of the timestamped amount tables.
func (d *CSVDataset) payments(_ context.Context, name string) ([]domain.Payment, error) {
	t, err := readTable(d.dir, name, "user_id", "amount", "timestamp")
	if err != nil {
		return nil, err
	}
	payments := make([]domain.Payment, 0, len(t.rows))
	for i, row := range t.rows {
		amount, err := t.float(row, i, "amount")
		if err != nil {
			return nil, err
		}
		ts, err := t.time(row, i, "timestamp")
		if err != nil {
			return nil, err
		}
		payments = append(payments, domain.Payment{
			UserID:    t.str(row, "user_id"),
			Amount:    amount,
			Timestamp: ts,
		})
	}
	return payments, nil
}
