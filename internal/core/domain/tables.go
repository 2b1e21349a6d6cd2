package domain

import "time"

// monthLayout is the period format derived from row timestamps for monthly
// aggregation (e.g. "2024-03").
const monthLayout = "2006-01"

// User is one row of the identity table. UserID is the only join key across
// all source tables.
type User struct {
	ID   string
	Name string
}

// Location is one row of the location_data table.
type Location struct {
	UserID    string
	City      string
	Stability string // "high", "medium", "low"
}

// Payment is a generic timestamped amount row. It backs bill_payments,
// inferred_rent_payments, upi_transactions, financial_transactions,
// gig_income, salary_income and ecommerce_activity.
type Payment struct {
	UserID    string
	Amount    float64
	Timestamp time.Time
}

// Month returns the monthly period the payment belongs to.
func (p Payment) Month() string {
	return p.Timestamp.Format(monthLayout)
}

// TelecomUsage is one row of the telecom_usage table.
type TelecomUsage struct {
	UserID         string
	DataUsageGB    float64
	RechargeAmount float64
	Timestamp      time.Time
}

// WalletBalance is one row of the wallet_balances table. Only the latest
// balance per (user, wallet type) is meaningful.
type WalletBalance struct {
	UserID     string
	WalletType string
	Balance    float64
	Timestamp  time.Time
}

// LoanRecord is one row of the loan_history table (no timestamp).
type LoanRecord struct {
	UserID            string
	OutstandingAmount float64
	OnTimeRepayments  float64 // ratio in [0,1]
}
