package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/altscore/credit-system/internal/api/metrics"
	"github.com/altscore/credit-system/internal/core/domain"
	"github.com/altscore/credit-system/internal/core/ports"
)

// EcommerceExtractor computes monthly e-commerce spend (sum per user per
// month), left-joined onto identity and location.
type EcommerceExtractor struct {
	ds  ports.Dataset
	log zerolog.Logger
}

func NewEcommerceExtractor(ds ports.Dataset, log zerolog.Logger) *EcommerceExtractor {
	return &EcommerceExtractor{ds: ds, log: log}
}

func (e *EcommerceExtractor) Extract(ctx context.Context) ([]domain.EcommerceFeatures, error) {
	users, err := e.ds.Users(ctx)
	if err != nil {
		return nil, e.fail("users", err)
	}
	locations, err := e.ds.Locations(ctx)
	if err != nil {
		return nil, e.fail("location_data", err)
	}
	activity, err := e.ds.EcommerceActivity(ctx)
	if err != nil {
		return nil, e.fail("ecommerce_activity", err)
	}

	spendByMonth := make(map[string]map[string]float64)
	for _, p := range activity {
		m, ok := spendByMonth[p.UserID]
		if !ok {
			m = make(map[string]float64)
			spendByMonth[p.UserID] = m
		}
		m[p.Month()] += p.Amount
	}

	locByUser := locationIndex(locations)

	var out []domain.EcommerceFeatures
	for _, u := range users {
		loc := locByUser[u.ID]
		base := domain.EcommerceFeatures{
			UserID:            u.ID,
			Name:              u.Name,
			City:              loc.City,
			LocationStability: loc.Stability,
		}

		months := sortedKeys(spendByMonth[u.ID])
		if len(months) == 0 {
			out = append(out, base)
			continue
		}
		for _, month := range months {
			row := base
			row.Month = month
			row.MonthlyEcomSpend = spendByMonth[u.ID][month]
			out = append(out, row)
		}
	}
	return out, nil
}

func (e *EcommerceExtractor) fail(table string, err error) error {
	metrics.ExtractorFailuresTotal.WithLabelValues("ecommerce").Inc()
	e.log.Error().Err(err).Str("table", table).Msg("ecommerce extractor failed")
	return fmt.Errorf("ecommerce extractor: table %s: %w", table, err)
}
