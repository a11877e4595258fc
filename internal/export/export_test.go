package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobtrackr/internal/analytics"
	"github.com/jonathan/jobtrackr/internal/db"
	"github.com/jonathan/jobtrackr/internal/types"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	apps      map[uuid.UUID][]types.Application
	companies []types.Company
	err       error
}

func (f *fakeStore) ApplicationsByOwner(_ context.Context, ownerID uuid.UUID) ([]types.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.apps[ownerID], nil
}

func (f *fakeStore) ListCompanies(_ context.Context, _ uuid.UUID, _ db.CompanyFilters) ([]types.Company, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.companies, len(f.companies), nil
}

func newTestService(store *fakeStore) *Service {
	svc := analytics.NewWithClock(store, func() time.Time { return testNow })
	return New(store, svc)
}

func intPtr(v int) *int { return &v }

func sampleApp(owner uuid.UUID, company, title, status string) types.Application {
	applied := testNow.AddDate(0, 0, -14)
	return types.Application{
		ID:      uuid.New(),
		OwnerID: owner,
		Company: types.CompanyInfo{Name: company, Location: "Berlin"},
		Job: types.JobInfo{
			Title:     title,
			WorkMode:  "remote",
			SalaryMin: intPtr(90000),
			SalaryMax: intPtr(120000),
			Currency:  "EUR",
		},
		Application: types.ApplicationInfo{
			AppliedDate: &applied,
			Source:      "LinkedIn",
			Status:      status,
		},
		Requirements: types.Requirements{SkillsRequired: []string{"Go", "SQL"}},
		CreatedAt:    testNow.AddDate(0, 0, -14),
		UpdatedAt:    testNow,
	}
}

func TestWriteApplicationsCSV(t *testing.T) {
	owner := uuid.New()
	store := &fakeStore{apps: map[uuid.UUID][]types.Application{
		owner: {
			sampleApp(owner, "Acme", "Backend Engineer", types.StatusApplied),
			sampleApp(owner, "Initech", "SRE", types.StatusRejected),
		},
	}}
	svc := newTestService(store)

	var buf bytes.Buffer
	err := svc.WriteApplicationsCSV(context.Background(), &buf, owner, ApplicationFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, applicationHeader, records[0])
	assert.Equal(t, "Acme", records[1][0])
	assert.Equal(t, "Backend Engineer", records[1][1])
	assert.Equal(t, "applied", records[1][2])
	assert.Equal(t, "90000", records[1][7])
	assert.Equal(t, "Go; SQL", records[1][10])
}

func TestWriteApplicationsCSV_StatusFilter(t *testing.T) {
	owner := uuid.New()
	store := &fakeStore{apps: map[uuid.UUID][]types.Application{
		owner: {
			sampleApp(owner, "Acme", "Backend Engineer", types.StatusApplied),
			sampleApp(owner, "Initech", "SRE", types.StatusRejected),
		},
	}}
	svc := newTestService(store)

	var buf bytes.Buffer
	err := svc.WriteApplicationsCSV(context.Background(), &buf, owner, ApplicationFilter{Status: types.StatusRejected})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Initech", records[1][0])
}

func TestWriteApplicationsCSV_CompanyFilterIgnoresCase(t *testing.T) {
	owner := uuid.New()
	store := &fakeStore{apps: map[uuid.UUID][]types.Application{
		owner: {sampleApp(owner, "Acme", "Backend Engineer", types.StatusApplied)},
	}}
	svc := newTestService(store)

	var buf bytes.Buffer
	err := svc.WriteApplicationsCSV(context.Background(), &buf, owner, ApplicationFilter{Company: "acme"})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestWriteApplicationsCSV_EmptySet(t *testing.T) {
	svc := newTestService(&fakeStore{apps: map[uuid.UUID][]types.Application{}})

	var buf bytes.Buffer
	err := svc.WriteApplicationsCSV(context.Background(), &buf, uuid.New(), ApplicationFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1) // header only
}

func TestWriteApplicationsCSV_StoreError(t *testing.T) {
	svc := newTestService(&fakeStore{err: errors.New("connection refused")})

	var buf bytes.Buffer
	err := svc.WriteApplicationsCSV(context.Background(), &buf, uuid.New(), ApplicationFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load applications")
}

func TestWriteCompaniesCSV(t *testing.T) {
	rating := 4.2
	store := &fakeStore{companies: []types.Company{
		{
			Name:             "Acme",
			Industry:         "Technology",
			Location:         "Berlin",
			GlassdoorRating:  &rating,
			Tags:             []string{"dream", "remote"},
			ApplicationCount: 3,
			IsFavorite:       true,
		},
	}}
	svc := newTestService(store)

	var buf bytes.Buffer
	err := svc.WriteCompaniesCSV(context.Background(), &buf, uuid.New())
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, companyHeader, records[0])
	assert.Equal(t, "Acme", records[1][0])
	assert.Equal(t, "4.2", records[1][5])
	assert.Equal(t, "dream; remote", records[1][6])
	assert.Equal(t, "3", records[1][7])
	assert.Equal(t, "true", records[1][8])
}

func TestWriteAnalyticsCSV(t *testing.T) {
	owner := uuid.New()
	apps := []types.Application{
		sampleApp(owner, "Acme", "Backend Engineer", types.StatusOffer),
		sampleApp(owner, "Initech", "SRE", types.StatusRejected),
	}
	apps[0].Timeline = []types.TimelineEvent{
		{Date: testNow.AddDate(0, 0, -10), EventType: "phone_screen"},
	}
	store := &fakeStore{apps: map[uuid.UUID][]types.Application{owner: apps}}
	svc := newTestService(store)

	var buf bytes.Buffer
	err := svc.WriteAnalyticsCSV(context.Background(), &buf, owner)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"section", "metric", "value"}, records[0])

	byMetric := make(map[string]string)
	for _, rec := range records[1:] {
		byMetric[rec[0]+"/"+rec[1]] = rec[2]
	}
	assert.Equal(t, "2", byMetric["overview/total_applications"])
	assert.Equal(t, "50", byMetric["overview/success_rate"])
	assert.Equal(t, "1", byMetric["status_breakdown/offer"])
	assert.Equal(t, "1", byMetric["timeline_events/phone_screen"])
	assert.Equal(t, "2", byMetric["skills/Go"])
	assert.Equal(t, "2", byMetric["skills/SQL"])
	assert.Equal(t, "2", byMetric["sources/LinkedIn"])
	assert.Equal(t, "90000", byMetric["salary/average_min"])
	assert.Equal(t, "2", byMetric["salary/total_with_salary"])
}

func TestWriteAnalyticsCSV_StoreError(t *testing.T) {
	svc := newTestService(&fakeStore{err: errors.New("boom")})

	var buf bytes.Buffer
	err := svc.WriteAnalyticsCSV(context.Background(), &buf, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compute analytics")
}
