package service

import (
	"context"
	"testing"

	"github.com/altscore/credit-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Utilities extractor
// ---------------------------------------------------------------------------

func TestUtilitiesExtractor_SumsBillsPerMonth(t *testing.T) {
	ds := newStubDataset()
	ds.users = append(ds.users, domain.User{ID: "U1", Name: "Asha Rao"})
	ds.bills = append(ds.bills,
		domain.Payment{UserID: "U1", Amount: 300, Timestamp: ts("2024-03-05")},
		domain.Payment{UserID: "U1", Amount: 200, Timestamp: ts("2024-03-20")},
		domain.Payment{UserID: "U1", Amount: 150, Timestamp: ts("2024-04-02")},
	)

	rows, err := NewUtilitiesExtractor(ds, discardLogger).Extract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One row per active month, in month order.
	if len(rows) != 2 {
		t.Fatalf("expected 2 monthly rows, got %d", len(rows))
	}
	if rows[0].Month != "2024-03" || rows[0].MonthlyUtilitySpend != 500 {
		t.Errorf("march row wrong: %+v", rows[0])
	}
	if rows[1].Month != "2024-04" || rows[1].MonthlyUtilitySpend != 150 {
		t.Errorf("april row wrong: %+v", rows[1])
	}
}

func TestUtilitiesExtractor_AveragesRentAndTelecom(t *testing.T) {
	ds := newStubDataset()
	ds.users = append(ds.users, domain.User{ID: "U1", Name: "Asha Rao"})
	ds.rents = append(ds.rents,
		domain.Payment{UserID: "U1", Amount: 8000, Timestamp: ts("2024-03-01")},
		domain.Payment{UserID: "U1", Amount: 9000, Timestamp: ts("2024-04-01")},
	)
	ds.telecom = append(ds.telecom,
		domain.TelecomUsage{UserID: "U1", DataUsageGB: 10, RechargeAmount: 200},
		domain.TelecomUsage{UserID: "U1", DataUsageGB: 20, RechargeAmount: 400},
	)

	rows, err := NewUtilitiesExtractor(ds, discardLogger).Extract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].AvgRentPayment != 8500 {
		t.Errorf("rent mean: want 8500, got %v", rows[0].AvgRentPayment)
	}
	if rows[0].AvgDataUsageGB != 15 {
		t.Errorf("data mean: want 15, got %v", rows[0].AvgDataUsageGB)
	}
	if rows[0].AvgRechargeAmount != 300 {
		t.Errorf("recharge mean: want 300, got %v", rows[0].AvgRechargeAmount)
	}
}

func TestUtilitiesExtractor_EmitsZeroRowForInactiveUser(t *testing.T) {
	ds := newStubDataset()
	ds.users = append(ds.users,
		domain.User{ID: "U1", Name: "Asha Rao"},
		domain.User{ID: "U2", Name: "Ben Lee"},
	)
	ds.bills = append(ds.bills, domain.Payment{UserID: "U1", Amount: 100, Timestamp: ts("2024-03-01")})

	rows, err := NewUtilitiesExtractor(ds, discardLogger).Extract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].UserID != "U2" || rows[1].MonthlyUtilitySpend != 0 || rows[1].Month != "" {
		t.Errorf("inactive user must get a single zero row, got %+v", rows[1])
	}
}

func TestUtilitiesExtractor_TableErrorPropagates(t *testing.T) {
	ds := newStubDataset()
	ds.seedUsers("Asha Rao")
	ds.failTable("telecom_usage")

	_, err := NewUtilitiesExtractor(ds, discardLogger).Extract(context.Background())
	if err == nil {
		t.Fatal("expected an error when a source table is unreadable")
	}
}

// ---------------------------------------------------------------------------
// Financials extractor
// ---------------------------------------------------------------------------

func TestFinancialsExtractor_OneRowPerUser(t *testing.T) {
	ds := newStubDataset()
	ds.users = append(ds.users,
		domain.User{ID: "U1", Name: "Asha Rao"},
		domain.User{ID: "U2", Name: "Ben Lee"},
	)
	ds.upi = append(ds.upi,
		domain.Payment{UserID: "U1", Amount: 100, Timestamp: ts("2024-03-01")},
		domain.Payment{UserID: "U1", Amount: 200, Timestamp: ts("2024-03-05")},
	)
	ds.salary = append(ds.salary,
		domain.Payment{UserID: "U1", Amount: 20000, Timestamp: ts("2024-03-01")},
		domain.Payment{UserID: "U1", Amount: 24000, Timestamp: ts("2024-04-01")},
	)

	rows, err := NewFinancialsExtractor(ds, discardLogger).Extract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].UPITotalSpent != 300 {
		t.Errorf("upi total: want 300, got %v", rows[0].UPITotalSpent)
	}
	if rows[0].AvgSalary != 22000 {
		t.Errorf("salary mean: want 22000, got %v", rows[0].AvgSalary)
	}
	if rows[1].UPITotalSpent != 0 || rows[1].AvgSalary != 0 {
		t.Errorf("inactive user must be zero-filled, got %+v", rows[1])
	}
}

func TestFinancialsExtractor_KeepsLatestWalletBalance(t *testing.T) {
	ds := newStubDataset()
	ds.users = append(ds.users, domain.User{ID: "U1", Name: "Asha Rao"})
	ds.wallets = append(ds.wallets,
		domain.WalletBalance{UserID: "U1", WalletType: "paytm", Balance: 100, Timestamp: ts("2024-03-01")},
		domain.WalletBalance{UserID: "U1", WalletType: "paytm", Balance: 250, Timestamp: ts("2024-04-01")},
		domain.WalletBalance{UserID: "U1", WalletType: "phonepe", Balance: 40, Timestamp: ts("2024-03-15")},
	)

	rows, err := NewFinancialsExtractor(ds, discardLogger).Extract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	balances := rows[0].WalletBalances
	if balances["paytm"] != 250 {
		t.Errorf("paytm: want latest balance 250, got %v", balances["paytm"])
	}
	if balances["phonepe"] != 40 {
		t.Errorf("phonepe: want 40, got %v", balances["phonepe"])
	}
}

func TestFinancialsExtractor_AttachesLoanHistory(t *testing.T) {
	ds := newStubDataset()
	ds.users = append(ds.users, domain.User{ID: "U1", Name: "Asha Rao"})
	ds.loans = append(ds.loans, domain.LoanRecord{UserID: "U1", OutstandingAmount: 12000, OnTimeRepayments: 0.85})

	rows, err := NewFinancialsExtractor(ds, discardLogger).Extract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].OutstandingAmount != 12000 || rows[0].OnTimeRepayments != 0.85 {
		t.Errorf("loan record not attached: %+v", rows[0])
	}
}

// ---------------------------------------------------------------------------
// E-commerce extractor
// ---------------------------------------------------------------------------

func TestEcommerceExtractor_SumsSpendPerMonth(t *testing.T) {
	ds := newStubDataset()
	ds.users = append(ds.users, domain.User{ID: "U1", Name: "Asha Rao"})
	ds.ecom = append(ds.ecom,
		domain.Payment{UserID: "U1", Amount: 500, Timestamp: ts("2024-03-10")},
		domain.Payment{UserID: "U1", Amount: 700, Timestamp: ts("2024-03-25")},
	)

	rows, err := NewEcommerceExtractor(ds, discardLogger).Extract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Month != "2024-03" || rows[0].MonthlyEcomSpend != 1200 {
		t.Errorf("monthly sum wrong: %+v", rows[0])
	}
}
