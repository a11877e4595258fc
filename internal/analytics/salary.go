package analytics

import (
	"context"
	"math"

	"github.com/google/uuid"
)

// SalaryInsights summarizes salary ranges across applications that disclose
// a minimum salary.
type SalaryInsights struct {
	AverageMin      int `json:"average_min"`
	AverageMax      int `json:"average_max"`
	Lowest          int `json:"lowest"`
	Highest         int `json:"highest"`
	TotalWithSalary int `json:"total_with_salary"`
}

// SalaryStats computes salary statistics over the owner's applications.
// Records without a salary_min are excluded entirely; if none qualify, all
// fields are zero.
func (s *Service) SalaryStats(ctx context.Context, ownerID uuid.UUID) (*SalaryInsights, error) {
	apps, err := s.records(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	insights := &SalaryInsights{}
	sumMin, sumMax := 0, 0
	maxCount := 0

	for _, app := range apps {
		if app.Job.SalaryMin == nil {
			continue
		}
		low := *app.Job.SalaryMin
		insights.TotalWithSalary++
		sumMin += low
		if insights.TotalWithSalary == 1 || low < insights.Lowest {
			insights.Lowest = low
		}
		// salary_max may be absent even when salary_min is present; it only
		// contributes where disclosed.
		if app.Job.SalaryMax != nil {
			high := *app.Job.SalaryMax
			sumMax += high
			maxCount++
			if high > insights.Highest {
				insights.Highest = high
			}
		}
	}

	if insights.TotalWithSalary > 0 {
		insights.AverageMin = int(math.Round(float64(sumMin) / float64(insights.TotalWithSalary)))
	}
	if maxCount > 0 {
		insights.AverageMax = int(math.Round(float64(sumMax) / float64(maxCount)))
	}
	return insights, nil
}
