package domain

import (
	"fmt"
	"sort"
	"strings"
)

// UtilityFeatures is one row of the utilities/rent/telecom extractor output.
// A user with monthly bill activity yields one row per month; a user without
// any bills still yields a single zero-filled row (left-anchored join).
type UtilityFeatures struct {
	UserID string
	Name   string
	Month  string

	MonthlyUtilitySpend float64
	AvgRentPayment      float64
	AvgDataUsageGB      float64
	AvgRechargeAmount   float64

	City              string
	LocationStability string
}

// FinancialFeatures is one row per user of the financials extractor output.
type FinancialFeatures struct {
	UserID string
	Name   string

	UPITotalSpent     float64
	WalletBalances    map[string]float64 // keyed by wallet type
	TotalTransactions float64
	GigIncomeTotal    float64
	AvgSalary         float64
	OutstandingAmount float64
	OnTimeRepayments  float64

	City              string
	LocationStability string
}

// EcommerceFeatures is one row of the e-commerce extractor output, one row
// per user per active month (or a single zero row for inactive users).
type EcommerceFeatures struct {
	UserID string
	Name   string
	Month  string

	MonthlyEcomSpend float64

	City              string
	LocationStability string
}

// FeatureVector is the unified per-user record produced by the master
// aggregator. Missing numeric signals are zero, not absent: no activity in a
// domain is treated as "no activity", never "unknown".
type FeatureVector struct {
	UserID string
	Name   string

	MonthlyUtilitySpend float64
	AvgRentPayment      float64
	AvgDataUsageGB      float64
	AvgRechargeAmount   float64

	UPITotalSpent     float64
	WalletBalances    map[string]float64
	TotalTransactions float64
	GigIncomeTotal    float64
	AvgSalary         float64
	OutstandingAmount float64
	OnTimeRepayments  float64

	MonthlyEcomSpend float64

	City              string
	LocationStability string
}

// Summary renders every scalar and string field as "name: value" lines for
// embedding into an LLM prompt. Wallet balances are listed in sorted type
// order so the output is stable for a given vector.
func (v FeatureVector) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "user_id: %s\n", v.UserID)
	fmt.Fprintf(&b, "name: %s\n", v.Name)
	fmt.Fprintf(&b, "monthly_utility_spend: %s\n", formatAmount(v.MonthlyUtilitySpend))
	fmt.Fprintf(&b, "avg_rent_payment: %s\n", formatAmount(v.AvgRentPayment))
	fmt.Fprintf(&b, "monthly_data_usage_gb: %s\n", formatAmount(v.AvgDataUsageGB))
	fmt.Fprintf(&b, "monthly_recharge_amount: %s\n", formatAmount(v.AvgRechargeAmount))
	fmt.Fprintf(&b, "upi_total_spent: %s\n", formatAmount(v.UPITotalSpent))
	for _, wt := range sortedWalletTypes(v.WalletBalances) {
		fmt.Fprintf(&b, "wallet_balance_%s: %s\n", wt, formatAmount(v.WalletBalances[wt]))
	}
	fmt.Fprintf(&b, "total_transactions: %s\n", formatAmount(v.TotalTransactions))
	fmt.Fprintf(&b, "gig_income_total: %s\n", formatAmount(v.GigIncomeTotal))
	fmt.Fprintf(&b, "avg_salary: %s\n", formatAmount(v.AvgSalary))
	fmt.Fprintf(&b, "outstanding_amount: %s\n", formatAmount(v.OutstandingAmount))
	fmt.Fprintf(&b, "on_time_repayments: %s\n", formatAmount(v.OnTimeRepayments))
	fmt.Fprintf(&b, "monthly_ecom_spend: %s\n", formatAmount(v.MonthlyEcomSpend))
	fmt.Fprintf(&b, "city: %s\n", v.City)
	fmt.Fprintf(&b, "location_stability: %s", v.LocationStability)
	return b.String()
}

func sortedWalletTypes(balances map[string]float64) []string {
	types := make([]string, 0, len(balances))
	for wt := range balances {
		types = append(types, wt)
	}
	sort.Strings(types)
	return types
}

// formatAmount trims trailing zeros so whole amounts read as integers.
func formatAmount(f float64) string {
	return fmt.Sprintf("%g", f)
}
