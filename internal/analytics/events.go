package analytics

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// EventTypeCount is a timeline event type ranked by occurrence.
type EventTypeCount struct {
	EventType string `json:"event_type"`
	Count     int    `json:"count"`
}

// TimelineAnalysis tallies timeline event types across all of the owner's
// applications, descending by count.
func (s *Service) TimelineAnalysis(ctx context.Context, ownerID uuid.UUID) ([]EventTypeCount, error) {
	apps, err := s.records(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	order := []string{}
	for _, app := range apps {
		for _, event := range app.Timeline {
			if _, seen := counts[event.EventType]; !seen {
				order = append(order, event.EventType)
			}
			counts[event.EventType]++
		}
	}

	ranked := make([]EventTypeCount, 0, len(order))
	for _, eventType := range order {
		ranked = append(ranked, EventTypeCount{EventType: eventType, Count: counts[eventType]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked, nil
}
