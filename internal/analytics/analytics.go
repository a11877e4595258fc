// Package analytics derives reporting statistics from a user's application
// records. Every operation is a read-only, owner-scoped pass over the record
// set: the store materializes the user's applications and the aggregation
// folds over them in process. There is no shared mutable state, so operations
// are safe to call concurrently for the same or different users.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobtrackr/internal/types"
)

// Periods accepted by ApplicationsOverTime.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// ErrInvalidPeriod is returned when a caller passes an unrecognized period.
// It is never silently coerced to a default.
var ErrInvalidPeriod = errors.New("invalid period: must be day, week, or month")

// Store is the queryable record collection the aggregator reads from.
// Implementations must return only records belonging to ownerID.
type Store interface {
	ApplicationsByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Application, error)
}

// Service computes analytics over one user's application records. It holds
// no state beyond its injected dependencies.
type Service struct {
	store Store
	now   func() time.Time
}

// New creates an analytics service backed by the given store.
func New(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NewWithClock creates an analytics service with an explicit clock, used by
// tests that need a fixed "now".
func NewWithClock(store Store, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// records fetches the owner's application set, wrapping storage failures so
// callers can distinguish them from caller errors.
func (s *Service) records(ctx context.Context, ownerID uuid.UUID) ([]types.Application, error) {
	apps, err := s.store.ApplicationsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}
	return apps, nil
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// wholeDays returns the number of complete days between from and to.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
