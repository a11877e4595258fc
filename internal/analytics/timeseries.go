package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// PeriodCount is one bucket of the applications-over-time series.
type PeriodCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// ApplicationsOverTime buckets the owner's applications by creation date.
// period must be one of day, week, or month; anything else is rejected with
// ErrInvalidPeriod. Buckets come back in ascending chronological order.
func (s *Service) ApplicationsOverTime(ctx context.Context, ownerID uuid.UUID, period string) ([]PeriodCount, error) {
	switch period {
	case PeriodDay, PeriodWeek, PeriodMonth:
	default:
		return nil, ErrInvalidPeriod
	}

	apps, err := s.records(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, app := range apps {
		counts[bucketLabel(app.CreatedAt, period)]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	// Labels are zero-padded, so lexicographic order is chronological order
	// for all three period formats.
	sort.Strings(labels)

	series := make([]PeriodCount, 0, len(labels))
	for _, label := range labels {
		series = append(series, PeriodCount{Period: label, Count: counts[label]})
	}
	return series, nil
}

// bucketLabel derives the grouping key for a creation timestamp.
func bucketLabel(t time.Time, period string) string {
	switch period {
	case PeriodWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case PeriodDay:
		return t.Format("2006-01-02")
	default: // month
		return t.Format("2006-01")
	}
}
