// Package export renders a user's data as CSV for download. Each export is a
// full owner-scoped snapshot; filtering beyond status and company is left to
// the spreadsheet the file ends up in.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobtrackr/internal/analytics"
	"github.com/jonathan/jobtrackr/internal/db"
	"github.com/jonathan/jobtrackr/internal/types"
)

// Store is the data source exports read from.
type Store interface {
	ApplicationsByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Application, error)
	ListCompanies(ctx context.Context, ownerID uuid.UUID, filters db.CompanyFilters) ([]types.Company, int, error)
}

// Service writes CSV exports.
type Service struct {
	store     Store
	analytics *analytics.Service
}

// New creates an export service.
func New(store Store, analyticsService *analytics.Service) *Service {
	return &Service{store: store, analytics: analyticsService}
}

// ApplicationFilter narrows an application export.
type ApplicationFilter struct {
	Status  string
	Company string
}

func (f ApplicationFilter) matches(app *types.Application) bool {
	if f.Status != "" && app.Application.Status != f.Status {
		return false
	}
	if f.Company != "" && !strings.EqualFold(app.Company.Name, f.Company) {
		return false
	}
	return true
}

var applicationHeader = []string{
	"company", "job_title", "status", "applied_date", "source",
	"location", "work_mode", "salary_min", "salary_max", "currency",
	"skills_required", "is_favorite", "created_at",
}

// WriteApplicationsCSV writes the owner's applications matching the filter
// as CSV rows, newest first.
func (s *Service) WriteApplicationsCSV(ctx context.Context, w io.Writer, ownerID uuid.UUID, filter ApplicationFilter) error {
	apps, err := s.store.ApplicationsByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load applications: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(applicationHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range apps {
		app := &apps[i]
		if !filter.matches(app) {
			continue
		}
		if err := cw.Write(applicationRow(app)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func applicationRow(app *types.Application) []string {
	return []string{
		app.Company.Name,
		app.Job.Title,
		app.Application.Status,
		formatDate(app.Application.AppliedDate),
		app.SourceLabel(),
		app.Company.Location,
		app.Job.WorkMode,
		formatIntPtr(app.Job.SalaryMin),
		formatIntPtr(app.Job.SalaryMax),
		app.Job.Currency,
		strings.Join(app.Requirements.SkillsRequired, "; "),
		strconv.FormatBool(app.IsFavorite),
		app.CreatedAt.Format(time.RFC3339),
	}
}

var companyHeader = []string{
	"name", "industry", "size", "location", "website",
	"glassdoor_rating", "tags", "application_count", "is_favorite",
}

// WriteCompaniesCSV writes every company record the owner has, sorted by name.
func (s *Service) WriteCompaniesCSV(ctx context.Context, w io.Writer, ownerID uuid.UUID) error {
	companies, _, err := s.store.ListCompanies(ctx, ownerID, db.CompanyFilters{Limit: exportPageLimit})
	if err != nil {
		return fmt.Errorf("failed to load companies: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(companyHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range companies {
		c := &companies[i]
		row := []string{
			c.Name,
			c.Industry,
			c.Size,
			c.Location,
			c.Website,
			formatFloatPtr(c.GlassdoorRating),
			strings.Join(c.Tags, "; "),
			strconv.Itoa(c.ApplicationCount),
			strconv.FormatBool(c.IsFavorite),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// exportPageLimit bounds a company export to one page. Personal trackers stay
// far below it.
const exportPageLimit = 10000

// WriteAnalyticsCSV writes a sectioned analytics report. The sections are
// computed concurrently since each one is an independent read.
func (s *Service) WriteAnalyticsCSV(ctx context.Context, w io.Writer, ownerID uuid.UUID) error {
	var (
		dashboard *analytics.DashboardStats
		events    []analytics.EventTypeCount
		skills    []analytics.SkillCount
		salary    *analytics.SalaryInsights
		response  *analytics.ResponseTimeStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dashboard, err = s.analytics.Dashboard(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.analytics.TimelineAnalysis(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		skills, err = s.analytics.SkillsDemand(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		salary, err = s.analytics.SalaryStats(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		response, err = s.analytics.ResponseTimeAnalysis(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to compute analytics: %w", err)
	}

	cw := csv.NewWriter(w)

	rows := [][]string{
		{"section", "metric", "value"},
		{"overview", "total_applications", strconv.Itoa(dashboard.TotalApplications)},
		{"overview", "success_rate", formatFloat(dashboard.SuccessRate)},
		{"overview", "response_rate", formatFloat(dashboard.ResponseRate)},
		{"overview", "applications_last_30_days", strconv.Itoa(dashboard.ApplicationsLast30Days)},
		{"overview", "average_days_in_pipeline", strconv.Itoa(dashboard.AverageDaysInPipeline)},
	}
	for status, count := range dashboard.StatusBreakdown {
		rows = append(rows, []string{"status_breakdown", status, strconv.Itoa(count)})
	}
	for _, e := range events {
		rows = append(rows, []string{"timeline_events", e.EventType, strconv.Itoa(e.Count)})
	}
	for _, sk := range skills {
		rows = append(rows, []string{"skills", sk.Skill, strconv.Itoa(sk.Count)})
	}
	for _, src := range dashboard.TopSources {
		rows = append(rows, []string{"sources", src.Source, strconv.Itoa(src.Count)})
	}
	rows = append(rows,
		[]string{"salary", "average_min", strconv.Itoa(salary.AverageMin)},
		[]string{"salary", "average_max", strconv.Itoa(salary.AverageMax)},
		[]string{"salary", "lowest", strconv.Itoa(salary.Lowest)},
		[]string{"salary", "highest", strconv.Itoa(salary.Highest)},
		[]string{"salary", "total_with_salary", strconv.Itoa(salary.TotalWithSalary)},
		[]string{"response_time", "average_days", formatFloat(response.AverageDays)},
		[]string{"response_time", "fastest_days", strconv.Itoa(response.Fastest)},
		[]string{"response_time", "slowest_days", strconv.Itoa(response.Slowest)},
		[]string{"response_time", "total_responses", strconv.Itoa(response.TotalResponses)},
	)

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
