package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobtrackr/internal/types"
)

// fakeStore is an in-memory Store keyed by owner.
type fakeStore struct {
	apps map[uuid.UUID][]types.Application
	err  error
}

func (f *fakeStore) ApplicationsByOwner(_ context.Context, ownerID uuid.UUID) ([]types.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.apps[ownerID], nil
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(apps map[uuid.UUID][]types.Application) *Service {
	return NewWithClock(&fakeStore{apps: apps}, func() time.Time { return testNow })
}

func app(owner uuid.UUID, status string, createdAt time.Time) types.Application {
	return types.Application{
		ID:      uuid.New(),
		OwnerID: owner,
		Company: types.CompanyInfo{Name: "Acme"},
		Application: types.ApplicationInfo{
			Status: status,
		},
		CreatedAt: createdAt,
	}
}

func TestDashboard_EmptyRecordSet(t *testing.T) {
	owner := uuid.New()
	svc := newTestService(nil)

	stats, err := svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalApplications)
	assert.Equal(t, 0.0, stats.SuccessRate)
	assert.Equal(t, 0.0, stats.ResponseRate)
	assert.Equal(t, 0, stats.ApplicationsLast30Days)
	assert.Equal(t, 0, stats.AverageDaysInPipeline)
	assert.Empty(t, stats.StatusBreakdown)
	assert.Empty(t, stats.TopCompanies)
	assert.Empty(t, stats.TopSources)
}

func TestDashboard_SuccessAndResponseRates(t *testing.T) {
	owner := uuid.New()
	created := testNow.AddDate(0, -1, 0)
	apps := []types.Application{
		app(owner, types.StatusApplied, created),
		app(owner, types.StatusOffer, created),
		app(owner, types.StatusRejected, created),
		app(owner, types.StatusAccepted, created),
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: apps})

	stats, err := svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalApplications)
	// offer + accepted = 2 of 4
	assert.Equal(t, 50.0, stats.SuccessRate)
	// 4 - rejected(1) - withdrawn(0) = 3... but the scenario from the
	// product doc uses withdrawn-free sets; verify the arithmetic directly.
	assert.Equal(t, 75.0, stats.ResponseRate)
}

func TestDashboard_ResponseRateCountsWithdrawn(t *testing.T) {
	owner := uuid.New()
	created := testNow.AddDate(0, -1, 0)
	apps := []types.Application{
		app(owner, types.StatusApplied, created),
		app(owner, types.StatusOffer, created),
		app(owner, types.StatusRejected, created),
		app(owner, types.StatusWithdrawn, created),
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: apps})

	stats, err := svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, 25.0, stats.SuccessRate)
	assert.Equal(t, 50.0, stats.ResponseRate)
}

func TestDashboard_RatesStayWithinBounds(t *testing.T) {
	owner := uuid.New()
	created := testNow.AddDate(0, -2, 0)
	apps := []types.Application{}
	for _, status := range types.ValidStatuses {
		apps = append(apps, app(owner, status, created))
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: apps})

	stats, err := svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, stats.SuccessRate, 0.0)
	assert.LessOrEqual(t, stats.SuccessRate, 100.0)
	assert.GreaterOrEqual(t, stats.ResponseRate, 0.0)
	assert.LessOrEqual(t, stats.ResponseRate, 100.0)
}

func TestDashboard_StatusBreakdownSumsToTotal(t *testing.T) {
	owner := uuid.New()
	created := testNow.AddDate(0, -1, 0)
	apps := []types.Application{
		app(owner, types.StatusApplied, created),
		app(owner, types.StatusApplied, created),
		app(owner, types.StatusScreening, created),
		app(owner, types.StatusInterview, created),
		app(owner, types.StatusOffer, created),
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: apps})

	stats, err := svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)

	sum := 0
	for _, count := range stats.StatusBreakdown {
		sum += count
	}
	assert.Equal(t, stats.TotalApplications, sum)
	// Only observed statuses appear as keys.
	assert.Len(t, stats.StatusBreakdown, 4)
	assert.NotContains(t, stats.StatusBreakdown, types.StatusRejected)
}

func TestDashboard_ApplicationsLast30Days(t *testing.T) {
	owner := uuid.New()
	apps := []types.Application{
		app(owner, types.StatusApplied, testNow.AddDate(0, 0, -5)),
		app(owner, types.StatusApplied, testNow.AddDate(0, 0, -40)),
		app(owner, types.StatusApplied, testNow.AddDate(0, 0, -95)),
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: apps})

	stats, err := svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ApplicationsLast30Days)
}

func TestDashboard_PipelineAgeIgnoresTerminalStatuses(t *testing.T) {
	owner := uuid.New()
	active := []types.Application{
		app(owner, types.StatusApplied, testNow.AddDate(0, 0, -10)),
		app(owner, types.StatusInterview, testNow.AddDate(0, 0, -20)),
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: active})

	stats, err := svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 15, stats.AverageDaysInPipeline)

	// Adding a terminal-status record must not change the average.
	withTerminal := append(active, app(owner, types.StatusRejected, testNow.AddDate(0, 0, -300)))
	svc = newTestService(map[uuid.UUID][]types.Application{owner: withTerminal})

	stats, err = svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 15, stats.AverageDaysInPipeline)
}

func TestDashboard_TopCompaniesLimitedToFive(t *testing.T) {
	owner := uuid.New()
	created := testNow.AddDate(0, -1, 0)
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	apps := []types.Application{}
	for i, name := range names {
		// Earlier names get more applications so the ranking is deterministic.
		for range len(names) - i {
			a := app(owner, types.StatusApplied, created)
			a.Company.Name = name
			apps = append(apps, a)
		}
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: apps})

	stats, err := svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)

	require.Len(t, stats.TopCompanies, 5)
	assert.Equal(t, "A", stats.TopCompanies[0].Company)
	assert.Equal(t, 7, stats.TopCompanies[0].Count)
	assert.Equal(t, "E", stats.TopCompanies[4].Company)
}

func TestDashboard_MissingSourceGroupsAsUnknown(t *testing.T) {
	owner := uuid.New()
	created := testNow.AddDate(0, -1, 0)
	withSource := app(owner, types.StatusApplied, created)
	withSource.Application.Source = "LinkedIn"
	apps := []types.Application{
		withSource,
		app(owner, types.StatusApplied, created),
		app(owner, types.StatusApplied, created),
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: apps})

	stats, err := svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)

	require.Len(t, stats.TopSources, 2)
	assert.Equal(t, "Unknown", stats.TopSources[0].Source)
	assert.Equal(t, 2, stats.TopSources[0].Count)
	assert.Equal(t, "LinkedIn", stats.TopSources[1].Source)
}

func TestDashboard_OwnerScoped(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	created := testNow.AddDate(0, -1, 0)
	store := map[uuid.UUID][]types.Application{
		alice: {app(alice, types.StatusOffer, created)},
		bob:   {app(bob, types.StatusRejected, created), app(bob, types.StatusRejected, created)},
	}
	svc := newTestService(store)

	stats, err := svc.Dashboard(context.Background(), alice)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalApplications)
	assert.Equal(t, 100.0, stats.SuccessRate)
}

func TestDashboard_StoreErrorPropagates(t *testing.T) {
	svc := New(&fakeStore{err: errors.New("connection refused")})

	_, err := svc.Dashboard(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestApplicationsOverTime_InvalidPeriod(t *testing.T) {
	svc := newTestService(nil)

	for _, period := range []string{"year", "", "Month", "hour"} {
		_, err := svc.ApplicationsOverTime(context.Background(), uuid.New(), period)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "period %q", period)
	}
}

func TestApplicationsOverTime_MonthBuckets(t *testing.T) {
	owner := uuid.New()
	apps := []types.Application{
		app(owner, types.StatusApplied, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)),
		app(owner, types.StatusApplied, time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)),
		app(owner, types.StatusApplied, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)),
		app(owner, types.StatusApplied, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)),
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: apps})

	series, err := svc.ApplicationsOverTime(context.Background(), owner, PeriodMonth)
	require.NoError(t, err)

	require.Len(t, series, 3)
	assert.Equal(t, PeriodCount{Period: "2024-12", Count: 1}, series[0])
	assert.Equal(t, PeriodCount{Period: "2025-01", Count: 1}, series[1])
	assert.Equal(t, PeriodCount{Period: "2025-03", Count: 2}, series[2])
}

func TestApplicationsOverTime_DayAndWeekLabels(t *testing.T) {
	owner := uuid.New()
	// Jan 1 2025 falls in ISO week 1 of 2025; Jan 9 in week 2.
	apps := []types.Application{
		app(owner, types.StatusApplied, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)),
		app(owner, types.StatusApplied, time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC)),
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: apps})

	days, err := svc.ApplicationsOverTime(context.Background(), owner, PeriodDay)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-01-01", days[0].Period)
	assert.Equal(t, "2025-01-09", days[1].Period)

	weeks, err := svc.ApplicationsOverTime(context.Background(), owner, PeriodWeek)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, "2025-W01", weeks[0].Period)
	assert.Equal(t, "2025-W02", weeks[1].Period)
}

func TestApplicationsOverTime_BucketsSumToTotal(t *testing.T) {
	owner := uuid.New()
	apps := []types.Application{}
	for i := range 17 {
		apps = append(apps, app(owner, types.StatusApplied, testNow.AddDate(0, 0, -i*3)))
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: apps})

	for _, period := range []string{PeriodDay, PeriodWeek, PeriodMonth} {
		series, err := svc.ApplicationsOverTime(context.Background(), owner, period)
		require.NoError(t, err)

		sum := 0
		seen := map[string]bool{}
		for i, bucket := range series {
			sum += bucket.Count
			assert.False(t, seen[bucket.Period], "duplicate bucket %s", bucket.Period)
			seen[bucket.Period] = true
			if i > 0 {
				assert.Less(t, series[i-1].Period, bucket.Period)
			}
		}
		assert.Equal(t, len(apps), sum, "period %s", period)
	}
}

func TestSuccessRateOverTime(t *testing.T) {
	owner := uuid.New()
	march := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	apps := []types.Application{
		app(owner, types.StatusOffer, march),
		app(owner, types.StatusRejected, march),
		app(owner, types.StatusApplied, march),
		app(owner, types.StatusAccepted, april),
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: apps})

	trend, err := svc.SuccessRateOverTime(context.Background(), owner)
	require.NoError(t, err)

	require.Len(t, trend, 2)
	assert.Equal(t, "2025-03", trend[0].Period)
	assert.Equal(t, 3, trend[0].Total)
	assert.Equal(t, 1, trend[0].Success)
	assert.Equal(t, 33.33, trend[0].SuccessRate)
	assert.Equal(t, "2025-04", trend[1].Period)
	assert.Equal(t, 100.0, trend[1].SuccessRate)
}

func TestSkillsDemand_CountsOccurrences(t *testing.T) {
	owner := uuid.New()
	created := testNow.AddDate(0, -1, 0)
	first := app(owner, types.StatusApplied, created)
	first.Requirements.SkillsRequired = []string{"Python", "Python", "Go"}
	second := app(owner, types.StatusApplied, created)
	second.Requirements.SkillsRequired = []string{"Go"}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: {first, second}})

	skills, err := svc.SkillsDemand(context.Background(), owner)
	require.NoError(t, err)

	require.Len(t, skills, 2)
	counts := map[string]int{}
	total := 0
	for _, sc := range skills {
		counts[sc.Skill] = sc.Count
		total += sc.Count
	}
	assert.Equal(t, 2, counts["Python"])
	assert.Equal(t, 2, counts["Go"])
	// Sum of counts equals total occurrences, not total records.
	assert.Equal(t, 4, total)
}

func TestSkillsDemand_TopTwenty(t *testing.T) {
	owner := uuid.New()
	a := app(owner, types.StatusApplied, testNow.AddDate(0, -1, 0))
	for i := range 25 {
		a.Requirements.SkillsRequired = append(a.Requirements.SkillsRequired, string(rune('a'+i)))
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: {a}})

	skills, err := svc.SkillsDemand(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, skills, 20)
}

func TestTimelineAnalysis(t *testing.T) {
	owner := uuid.New()
	created := testNow.AddDate(0, -1, 0)
	first := app(owner, types.StatusInterview, created)
	first.Timeline = []types.TimelineEvent{
		{Date: created, EventType: "phone_screen"},
		{Date: created.AddDate(0, 0, 3), EventType: "interview"},
		{Date: created.AddDate(0, 0, 9), EventType: "interview"},
	}
	second := app(owner, types.StatusApplied, created)
	second.Timeline = []types.TimelineEvent{
		{Date: created, EventType: "phone_screen"},
	}
	svc := newTestService(map[uuid.UUID][]types.Application{owner: {first, second}})

	events, err := svc.TimelineAnalysis(context.Background(), owner)
	require.NoError(t, err)

	require.Len(t, events, 2)
	// Equal counts keep first-seen order under the stable sort.
	assert.Equal(t, EventTypeCount{EventType: "phone_screen", Count: 2}, events[0])
	assert.Equal(t, EventTypeCount{EventType: "interview", Count: 2}, events[1])

	total := 0
	for _, e := range events {
		total += e.Count
	}
	assert.Equal(t, 4, total)
}

func intPtr(v int) *int { return &v }

func TestSalaryStats(t *testing.T) {
	owner := uuid.New()
	created := testNow.AddDate(0, -1, 0)

	withRange := app(owner, types.StatusApplied, created)
	withRange.Job.SalaryMin = intPtr(100000)
	withRange.Job.SalaryMax = intPtr(140000)

	minOnly := app(owner, types.StatusApplied, created)
	minOnly.Job.SalaryMin = intPtr(90000)

	undisclosed := app(owner, types.StatusApplied, created)

	svc := newTestService(map[uuid.UUID][]types.Application{owner: {withRange, minOnly, undisclosed}})

	insights, err := svc.SalaryStats(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, 2, insights.TotalWithSalary)
	assert.Equal(t, 95000, insights.AverageMin)
	assert.Equal(t, 140000, insights.AverageMax)
	assert.Equal(t, 90000, insights.Lowest)
	assert.Equal(t, 140000, insights.Highest)
}

func TestSalaryStats_NoQualifyingRecords(t *testing.T) {
	owner := uuid.New()
	svc := newTestService(map[uuid.UUID][]types.Application{
		owner: {app(owner, types.StatusApplied, testNow.AddDate(0, -1, 0))},
	})

	insights, err := svc.SalaryStats(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, &SalaryInsights{}, insights)
}

func TestResponseTimeAnalysis(t *testing.T) {
	owner := uuid.New()
	applied := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	// Timeline stored out of order; the earliest event after applied wins.
	fast := app(owner, types.StatusInterview, applied)
	fast.Application.AppliedDate = &applied
	fast.Timeline = []types.TimelineEvent{
		{Date: applied.AddDate(0, 0, 10), EventType: "interview"},
		{Date: applied.AddDate(0, 0, 2), EventType: "phone_screen"},
	}

	slow := app(owner, types.StatusRejected, applied)
	slow.Application.AppliedDate = &applied
	slow.Timeline = []types.TimelineEvent{
		{Date: applied.AddDate(0, 0, 21), EventType: "rejection"},
	}

	// Event before applied date only: contributes nothing.
	noResponse := app(owner, types.StatusApplied, applied)
	noResponse.Application.AppliedDate = &applied
	noResponse.Timeline = []types.TimelineEvent{
		{Date: applied.AddDate(0, 0, -1), EventType: "note"},
	}

	// No applied date: excluded even with events.
	noApplied := app(owner, types.StatusApplied, applied)
	noApplied.Timeline = []types.TimelineEvent{
		{Date: applied.AddDate(0, 0, 5), EventType: "interview"},
	}

	svc := newTestService(map[uuid.UUID][]types.Application{
		owner: {fast, slow, noResponse, noApplied},
	})

	stats, err := svc.ResponseTimeAnalysis(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalResponses)
	assert.Equal(t, 2, stats.Fastest)
	assert.Equal(t, 21, stats.Slowest)
	assert.Equal(t, 11.5, stats.AverageDays)
	assert.LessOrEqual(t, float64(stats.Fastest), stats.AverageDays)
	assert.LessOrEqual(t, stats.AverageDays, float64(stats.Slowest))
}

func TestResponseTimeAnalysis_Empty(t *testing.T) {
	svc := newTestService(nil)

	stats, err := svc.ResponseTimeAnalysis(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, &ResponseTimeStats{}, stats)
}
