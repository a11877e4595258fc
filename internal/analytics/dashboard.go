package analytics

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/jonathan/jobtrackr/internal/types"
)

// CompanyCount is a company ranked by how many applications target it.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// SourceCount is an application source ranked by usage.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// DashboardStats is the combined summary shown on the dashboard.
type DashboardStats struct {
	TotalApplications      int            `json:"total_applications"`
	StatusBreakdown        map[string]int `json:"status_breakdown"`
	SuccessRate            float64        `json:"success_rate"`
	ResponseRate           float64        `json:"response_rate"`
	ApplicationsLast30Days int            `json:"applications_last_30_days"`
	AverageDaysInPipeline  int            `json:"average_days_in_pipeline"`
	TopCompanies           []CompanyCount `json:"top_companies"`
	TopSources             []SourceCount  `json:"top_sources"`
}

// topCompaniesLimit caps the dashboard company ranking.
const topCompaniesLimit = 5

// Dashboard computes the full dashboard summary for one owner.
func (s *Service) Dashboard(ctx context.Context, ownerID uuid.UUID) (*DashboardStats, error) {
	apps, err := s.records(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &DashboardStats{
		TotalApplications: len(apps),
		StatusBreakdown:   make(map[string]int),
		TopCompanies:      []CompanyCount{},
		TopSources:        []SourceCount{},
	}

	// Breakdown keys come from observed statuses; missing ones do not appear.
	successes := 0
	closedOut := 0
	thirtyDaysAgo := now.AddDate(0, 0, -30)
	pipelineDays := 0
	pipelineCount := 0

	for _, app := range apps {
		status := app.Application.Status
		stats.StatusBreakdown[status]++

		if types.IsSuccessStatus(status) {
			successes++
		}
		if status == types.StatusRejected || status == types.StatusWithdrawn {
			closedOut++
		}
		if !app.CreatedAt.Before(thirtyDaysAgo) {
			stats.ApplicationsLast30Days++
		}
		// Only applications still in flight count toward pipeline age.
		if !types.IsTerminalStatus(status) {
			pipelineDays += wholeDays(app.CreatedAt, now)
			pipelineCount++
		}
	}

	if total := stats.TotalApplications; total > 0 {
		stats.SuccessRate = round2(float64(successes) / float64(total) * 100)
		stats.ResponseRate = round2(float64(total-closedOut) / float64(total) * 100)
	}
	if pipelineCount > 0 {
		stats.AverageDaysInPipeline = int(math.Round(float64(pipelineDays) / float64(pipelineCount)))
	}

	stats.TopCompanies = topCompanies(apps, topCompaniesLimit)
	stats.TopSources = topSources(apps)

	return stats, nil
}

// topCompanies ranks distinct company names by application count, first-seen
// order breaking ties.
func topCompanies(apps []types.Application, limit int) []CompanyCount {
	counts := make(map[string]int)
	order := []string{}
	for _, app := range apps {
		name := app.Company.Name
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	ranked := make([]CompanyCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, CompanyCount{Company: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// topSources ranks all distinct sources by count; absent sources group under
// the "Unknown" label.
func topSources(apps []types.Application) []SourceCount {
	counts := make(map[string]int)
	order := []string{}
	for _, app := range apps {
		source := app.SourceLabel()
		if _, seen := counts[source]; !seen {
			order = append(order, source)
		}
		counts[source]++
	}

	ranked := make([]SourceCount, 0, len(order))
	for _, source := range order {
		ranked = append(ranked, SourceCount{Source: source, Count: counts[source]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}
