package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/altscore/credit-system/internal/api/metrics"
	"github.com/altscore/credit-system/internal/core/domain"
	"github.com/altscore/credit-system/internal/core/ports"
)

// UtilitiesExtractor computes the utilities/rent/telecom feature set:
// monthly utility spend (sum per user per month), average rent payment and
// average telecom usage (mean per user), left-joined onto identity and
// location so every known user appears even with no activity.
type UtilitiesExtractor struct {
	ds  ports.Dataset
	log zerolog.Logger
}

func NewUtilitiesExtractor(ds ports.Dataset, log zerolog.Logger) *UtilitiesExtractor {
	return &UtilitiesExtractor{ds: ds, log: log}
}

// Extract never panics past its boundary: any read error is logged here and
// surfaced as an error value so the aggregator can fail closed.
func (e *UtilitiesExtractor) Extract(ctx context.Context) ([]domain.UtilityFeatures, error) {
	users, err := e.ds.Users(ctx)
	if err != nil {
		return nil, e.fail("users", err)
	}
	locations, err := e.ds.Locations(ctx)
	if err != nil {
		return nil, e.fail("location_data", err)
	}
	bills, err := e.ds.BillPayments(ctx)
	if err != nil {
		return nil, e.fail("bill_payments", err)
	}
	rents, err := e.ds.RentPayments(ctx)
	if err != nil {
		return nil, e.fail("inferred_rent_payments", err)
	}
	telecom, err := e.ds.TelecomUsage(ctx)
	if err != nil {
		return nil, e.fail("telecom_usage", err)
	}

	// Monthly utility spend: sum of bill amounts per (user, month).
	spendByMonth := make(map[string]map[string]float64)
	for _, p := range bills {
		m, ok := spendByMonth[p.UserID]
		if !ok {
			m = make(map[string]float64)
			spendByMonth[p.UserID] = m
		}
		m[p.Month()] += p.Amount
	}

	rentAvg := meanAmountByUser(rents)

	dataAvg := newMeanAcc()
	rechargeAvg := newMeanAcc()
	for _, t := range telecom {
		dataAvg.add(t.UserID, t.DataUsageGB)
		rechargeAvg.add(t.UserID, t.RechargeAmount)
	}

	locByUser := locationIndex(locations)

	var out []domain.UtilityFeatures
	for _, u := range users {
		loc := locByUser[u.ID]
		base := domain.UtilityFeatures{
			UserID:            u.ID,
			Name:              u.Name,
			AvgRentPayment:    rentAvg.mean(u.ID),
			AvgDataUsageGB:    dataAvg.mean(u.ID),
			AvgRechargeAmount: rechargeAvg.mean(u.ID),
			City:              loc.City,
			LocationStability: loc.Stability,
		}

		months := sortedKeys(spendByMonth[u.ID])
		if len(months) == 0 {
			// Left-anchored join: a user with no bills still gets one
			// zero-filled row.
			out = append(out, base)
			continue
		}
		for _, month := range months {
			row := base
			row.Month = month
			row.MonthlyUtilitySpend = spendByMonth[u.ID][month]
			out = append(out, row)
		}
	}
	return out, nil
}

func (e *UtilitiesExtractor) fail(table string, err error) error {
	metrics.ExtractorFailuresTotal.WithLabelValues("utilities").Inc()
	e.log.Error().Err(err).Str("table", table).Msg("utilities extractor failed")
	return fmt.Errorf("utilities extractor: table %s: %w", table, err)
}

// ---------------------------------------------------------------------------
// Shared aggregation helpers
// ---------------------------------------------------------------------------

// meanAcc accumulates per-user sums and counts for mean aggregation.
type meanAcc struct {
	sum   map[string]float64
	count map[string]int
}

func newMeanAcc() meanAcc {
	return meanAcc{sum: make(map[string]float64), count: make(map[string]int)}
}

func (a meanAcc) add(userID string, v float64) {
	a.sum[userID] += v
	a.count[userID]++
}

// mean returns the per-user mean, or zero when the user has no rows
// (missing signals are zero-filled, never absent).
func (a meanAcc) mean(userID string) float64 {
	n := a.count[userID]
	if n == 0 {
		return 0
	}
	return a.sum[userID] / float64(n)
}

func meanAmountByUser(rows []domain.Payment) meanAcc {
	acc := newMeanAcc()
	for _, p := range rows {
		acc.add(p.UserID, p.Amount)
	}
	return acc
}

func sumAmountByUser(rows []domain.Payment) map[string]float64 {
	totals := make(map[string]float64)
	for _, p := range rows {
		totals[p.UserID] += p.Amount
	}
	return totals
}

// locationIndex keeps the first location row per user (duplicates dropped).
func locationIndex(locations []domain.Location) map[string]domain.Location {
	idx := make(map[string]domain.Location, len(locations))
	for _, l := range locations {
		if _, seen := idx[l.UserID]; !seen {
			idx[l.UserID] = l
		}
	}
	return idx
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
