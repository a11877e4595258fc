package analytics

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jonathan/jobtrackr/internal/types"
)

// MonthlySuccessRate is one month of the success-rate trend.
type MonthlySuccessRate struct {
	Period      string  `json:"period"`
	SuccessRate float64 `json:"success_rate"`
	Total       int     `json:"total"`
	Success     int     `json:"success"`
}

// SuccessRateOverTime computes the per-month success rate across the owner's
// applications, ascending by month.
func (s *Service) SuccessRateOverTime(ctx context.Context, ownerID uuid.UUID) ([]MonthlySuccessRate, error) {
	apps, err := s.records(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	type monthTally struct {
		total   int
		success int
	}
	months := make(map[string]*monthTally)

	for _, app := range apps {
		key := app.CreatedAt.Format("2006-01")
		tally, ok := months[key]
		if !ok {
			tally = &monthTally{}
			months[key] = tally
		}
		tally.total++
		if types.IsSuccessStatus(app.Application.Status) {
			tally.success++
		}
	}

	keys := make([]string, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	trend := make([]MonthlySuccessRate, 0, len(keys))
	for _, key := range keys {
		tally := months[key]
		rate := 0.0
		if tally.total > 0 {
			rate = round2(float64(tally.success) / float64(tally.total) * 100)
		}
		trend = append(trend, MonthlySuccessRate{
			Period:      key,
			SuccessRate: rate,
			Total:       tally.total,
			Success:     tally.success,
		})
	}
	return trend, nil
}
