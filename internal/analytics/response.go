package analytics

import (
	"context"

	"github.com/google/uuid"
)

// ResponseTimeStats summarizes how long companies take to respond after an
// application is submitted.
type ResponseTimeStats struct {
	AverageDays    float64 `json:"average_days"`
	Fastest        int     `json:"fastest"`
	Slowest        int     `json:"slowest"`
	TotalResponses int     `json:"total_responses"`
}

// ResponseTimeAnalysis computes per-application response times and
// aggregates them. A record's response time is the day-difference between
// its applied date and the first timeline event strictly after it,
// regardless of event type. Records without an applied date, without
// timeline events, or with no event after the applied date contribute
// nothing.
func (s *Service) ResponseTimeAnalysis(ctx context.Context, ownerID uuid.UUID) (*ResponseTimeStats, error) {
	apps, err := s.records(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &ResponseTimeStats{}
	sumDays := 0

	for _, app := range apps {
		applied := app.Application.AppliedDate
		if applied == nil || len(app.Timeline) == 0 {
			continue
		}
		for _, event := range app.SortedTimeline() {
			if !event.Date.After(*applied) {
				continue
			}
			days := wholeDays(*applied, event.Date)
			sumDays += days
			stats.TotalResponses++
			if stats.TotalResponses == 1 {
				stats.Fastest = days
				stats.Slowest = days
			} else {
				if days < stats.Fastest {
					stats.Fastest = days
				}
				if days > stats.Slowest {
					stats.Slowest = days
				}
			}
			break
		}
	}

	if stats.TotalResponses > 0 {
		stats.AverageDays = round1(float64(sumDays) / float64(stats.TotalResponses))
	}
	return stats, nil
}
