package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/altscore/credit-system/internal/api/metrics"
	"github.com/altscore/credit-system/internal/core/domain"
	"github.com/altscore/credit-system/internal/core/ports"
)

// MasterAggregator unifies the three domain feature sets into one vector per
// user. Scoring requires complete domain coverage: if any extractor comes
// back empty the aggregator returns ErrIncompleteCoverage rather than a
// partial vector.
//
// Nothing is cached between calls. Every Aggregate re-reads the source
// tables, so concurrent queries are independent as long as the tables are
// not mutated mid-read.
type MasterAggregator struct {
	utilities  *UtilitiesExtractor
	financials *FinancialsExtractor
	ecommerce  *EcommerceExtractor
	ds         ports.Dataset
	log        zerolog.Logger
}

func NewMasterAggregator(ds ports.Dataset, log zerolog.Logger) *MasterAggregator {
	return &MasterAggregator{
		utilities:  NewUtilitiesExtractor(ds, log),
		financials: NewFinancialsExtractor(ds, log),
		ecommerce:  NewEcommerceExtractor(ds, log),
		ds:         ds,
		log:        log,
	}
}

// Aggregate implements ports.Aggregator.
func (a *MasterAggregator) Aggregate(ctx context.Context) ([]domain.FeatureVector, error) {
	start := time.Now()
	defer func() {
		metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	}()

	util, err := a.utilities.Extract(ctx)
	if err != nil {
		return nil, a.failClosed("utilities", err)
	}
	fin, err := a.financials.Extract(ctx)
	if err != nil {
		return nil, a.failClosed("financials", err)
	}
	ecom, err := a.ecommerce.Extract(ctx)
	if err != nil {
		return nil, a.failClosed("ecommerce", err)
	}
	if len(util) == 0 || len(fin) == 0 || len(ecom) == 0 {
		a.log.Warn().
			Int("utilities_rows", len(util)).
			Int("financials_rows", len(fin)).
			Int("ecommerce_rows", len(ecom)).
			Msg("domain extractor returned no rows, aggregation aborted")
		return nil, domain.ErrIncompleteCoverage
	}

	utilByUser := collapseUtilities(util)
	finByUser := collapseFinancials(fin)
	ecomByUser := collapseEcommerce(ecom)

	// Outer join on user_id: a user present in any domain survives. Order is
	// anchored on the utilities result (which is itself identity-table
	// ordered), then any extra users from the other domains in their order.
	order := make([]string, 0, len(utilByUser))
	seen := make(map[string]bool, len(utilByUser))
	appendUser := func(id string) {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, row := range util {
		appendUser(row.UserID)
	}
	for _, row := range fin {
		appendUser(row.UserID)
	}
	for _, row := range ecom {
		appendUser(row.UserID)
	}

	names := nameIndex(util, fin, ecom)

	locations, err := a.ds.Locations(ctx)
	if err != nil {
		return nil, a.failClosed("locations", err)
	}
	locByUser := locationIndex(locations)

	vectors := make([]domain.FeatureVector, 0, len(order))
	for _, id := range order {
		u := utilByUser[id]
		f := finByUser[id]
		e := ecomByUser[id]
		loc := locByUser[id]
		vectors = append(vectors, domain.FeatureVector{
			UserID:              id,
			Name:                names[id],
			MonthlyUtilitySpend: u.MonthlyUtilitySpend,
			AvgRentPayment:      u.AvgRentPayment,
			AvgDataUsageGB:      u.AvgDataUsageGB,
			AvgRechargeAmount:   u.AvgRechargeAmount,
			UPITotalSpent:       f.UPITotalSpent,
			WalletBalances:      f.WalletBalances,
			TotalTransactions:   f.TotalTransactions,
			GigIncomeTotal:      f.GigIncomeTotal,
			AvgSalary:           f.AvgSalary,
			OutstandingAmount:   f.OutstandingAmount,
			OnTimeRepayments:    f.OnTimeRepayments,
			MonthlyEcomSpend:    e.MonthlyEcomSpend,
			City:                loc.City,
			LocationStability:   loc.Stability,
		})
	}

	a.log.Debug().Int("users", len(vectors)).Msg("aggregation complete")
	return vectors, nil
}

func (a *MasterAggregator) failClosed(domainName string, err error) error {
	a.log.Warn().Err(err).Str("domain", domainName).Msg("domain data missing, aggregation aborted")
	return fmt.Errorf("%w: %s: %v", domain.ErrIncompleteCoverage, domainName, err)
}

// collapseUtilities averages duplicate per-user rows (one per active month)
// into a single numeric summary per user.
func collapseUtilities(rows []domain.UtilityFeatures) map[string]domain.UtilityFeatures {
	spend := newMeanAcc()
	rent := newMeanAcc()
	data := newMeanAcc()
	recharge := newMeanAcc()
	for _, r := range rows {
		spend.add(r.UserID, r.MonthlyUtilitySpend)
		rent.add(r.UserID, r.AvgRentPayment)
		data.add(r.UserID, r.AvgDataUsageGB)
		recharge.add(r.UserID, r.AvgRechargeAmount)
	}
	out := make(map[string]domain.UtilityFeatures)
	for _, r := range rows {
		if _, ok := out[r.UserID]; ok {
			continue
		}
		out[r.UserID] = domain.UtilityFeatures{
			UserID:              r.UserID,
			MonthlyUtilitySpend: spend.mean(r.UserID),
			AvgRentPayment:      rent.mean(r.UserID),
			AvgDataUsageGB:      data.mean(r.UserID),
			AvgRechargeAmount:   recharge.mean(r.UserID),
		}
	}
	return out
}

// collapseFinancials is defensive against duplicate per-user rows even though
// the extractor emits one row per user.
func collapseFinancials(rows []domain.FinancialFeatures) map[string]domain.FinancialFeatures {
	upi := newMeanAcc()
	total := newMeanAcc()
	gig := newMeanAcc()
	salary := newMeanAcc()
	outstanding := newMeanAcc()
	repay := newMeanAcc()
	walletSum := make(map[string]map[string]float64)
	walletCount := make(map[string]map[string]int)
	for _, r := range rows {
		upi.add(r.UserID, r.UPITotalSpent)
		total.add(r.UserID, r.TotalTransactions)
		gig.add(r.UserID, r.GigIncomeTotal)
		salary.add(r.UserID, r.AvgSalary)
		outstanding.add(r.UserID, r.OutstandingAmount)
		repay.add(r.UserID, r.OnTimeRepayments)
		for wt, bal := range r.WalletBalances {
			if walletSum[r.UserID] == nil {
				walletSum[r.UserID] = make(map[string]float64)
				walletCount[r.UserID] = make(map[string]int)
			}
			walletSum[r.UserID][wt] += bal
			walletCount[r.UserID][wt]++
		}
	}
	out := make(map[string]domain.FinancialFeatures)
	for _, r := range rows {
		if _, ok := out[r.UserID]; ok {
			continue
		}
		var wallets map[string]float64
		if sums := walletSum[r.UserID]; len(sums) > 0 {
			wallets = make(map[string]float64, len(sums))
			for wt, sum := range sums {
				wallets[wt] = sum / float64(walletCount[r.UserID][wt])
			}
		}
		out[r.UserID] = domain.FinancialFeatures{
			UserID:            r.UserID,
			UPITotalSpent:     upi.mean(r.UserID),
			WalletBalances:    wallets,
			TotalTransactions: total.mean(r.UserID),
			GigIncomeTotal:    gig.mean(r.UserID),
			AvgSalary:         salary.mean(r.UserID),
			OutstandingAmount: outstanding.mean(r.UserID),
			OnTimeRepayments:  repay.mean(r.UserID),
		}
	}
	return out
}

func collapseEcommerce(rows []domain.EcommerceFeatures) map[string]domain.EcommerceFeatures {
	spend := newMeanAcc()
	for _, r := range rows {
		spend.add(r.UserID, r.MonthlyEcomSpend)
	}
	out := make(map[string]domain.EcommerceFeatures)
	for _, r := range rows {
		if _, ok := out[r.UserID]; ok {
			continue
		}
		out[r.UserID] = domain.EcommerceFeatures{
			UserID:           r.UserID,
			MonthlyEcomSpend: spend.mean(r.UserID),
		}
	}
	return out
}

// nameIndex keeps one display name per user, first domain wins.
func nameIndex(util []domain.UtilityFeatures, fin []domain.FinancialFeatures, ecom []domain.EcommerceFeatures) map[string]string {
	names := make(map[string]string)
	put := func(id, name string) {
		if _, ok := names[id]; !ok {
			names[id] = name
		}
	}
	for _, r := range util {
		put(r.UserID, r.Name)
	}
	for _, r := range fin {
		put(r.UserID, r.Name)
	}
	for _, r := range ecom {
		put(r.UserID, r.Name)
	}
	return names
}
