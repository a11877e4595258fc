package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobtrackr/internal/types"
)

const applicationColumns = `id, owner_id, status, company, job, application,
	requirements, timeline, attachments, notes, is_favorite, created_at, updated_at`

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanApplication decodes one application row, unmarshaling the JSONB
// document sections. The status column is authoritative and overwrites
// whatever the application section carries.
func scanApplication(row rowScanner) (*types.Application, error) {
	var app types.Application
	var company, job, appInfo, requirements, timeline, attachments []byte

	err := row.Scan(
		&app.ID, &app.OwnerID, &app.Application.Status,
		&company, &job, &appInfo, &requirements, &timeline, &attachments,
		&app.Notes, &app.IsFavorite, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	status := app.Application.Status
	for _, section := range []struct {
		data []byte
		dest any
	}{
		{company, &app.Company},
		{job, &app.Job},
		{appInfo, &app.Application},
		{requirements, &app.Requirements},
		{timeline, &app.Timeline},
		{attachments, &app.Attachments},
	} {
		if len(section.data) == 0 {
			continue
		}
		if err := json.Unmarshal(section.data, section.dest); err != nil {
			return nil, fmt.Errorf("failed to decode application document: %w", err)
		}
	}
	app.Application.Status = status

	return &app, nil
}

// marshalSections encodes the document sections for writing.
func marshalSections(app *types.Application) ([][]byte, error) {
	sections := []any{app.Company, app.Job, app.Application, app.Requirements, app.Timeline, app.Attachments}
	encoded := make([][]byte, len(sections))
	for i, section := range sections {
		data, err := json.Marshal(section)
		if err != nil {
			return nil, fmt.Errorf("failed to encode application document: %w", err)
		}
		encoded[i] = data
	}
	return encoded, nil
}

// CreateApplication inserts a new application document and fills in its
// generated ID and timestamps.
func (db *DB) CreateApplication(ctx context.Context, app *types.Application) error {
	sections, err := marshalSections(app)
	if err != nil {
		return err
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO applications (owner_id, status, company, job, application, requirements, timeline, attachments, notes, is_favorite)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		app.OwnerID, app.Application.Status, sections[0], sections[1], sections[2], sections[3], sections[4], sections[5], app.Notes, app.IsFavorite,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication retrieves one application scoped to its owner, or nil if
// not found.
func (db *DB) GetApplication(ctx context.Context, id, ownerID uuid.UUID) (*types.Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ApplicationFilters holds optional filters for listing applications.
type ApplicationFilters struct {
	Status     string
	Company    string
	JobTitle   string
	IsFavorite *bool
	Skip       int
	Limit      int
}

// ListApplications retrieves a page of the owner's applications, newest
// first, along with the total count matching the filters.
func (db *DB) ListApplications(ctx context.Context, ownerID uuid.UUID, filters ApplicationFilters) ([]types.Application, int, error) {
	if filters.Limit <= 0 {
		filters.Limit = 20
	}

	where := ` WHERE owner_id = $1`
	args := []any{ownerID}
	argNum := 2

	if filters.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}
	if filters.Company != "" {
		where += fmt.Sprintf(" AND company->>'name' ILIKE $%d", argNum)
		args = append(args, "%"+filters.Company+"%")
		argNum++
	}
	if filters.JobTitle != "" {
		where += fmt.Sprintf(" AND job->>'title' ILIKE $%d", argNum)
		args = append(args, "%"+filters.JobTitle+"%")
		argNum++
	}
	if filters.IsFavorite != nil {
		where += fmt.Sprintf(" AND is_favorite = $%d", argNum)
		args = append(args, *filters.IsFavorite)
		argNum++
	}

	var total int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	query := `SELECT ` + applicationColumns + ` FROM applications` + where +
		fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, filters.Skip, filters.Limit)

	apps, err := db.queryApplications(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// SearchApplications does a free-text search over company name, job title,
// and notes.
func (db *DB) SearchApplications(ctx context.Context, ownerID uuid.UUID, q string, skip, limit int) ([]types.Application, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + q + "%"
	return db.queryApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE owner_id = $1
		   AND (company->>'name' ILIKE $2 OR job->>'title' ILIKE $2 OR notes ILIKE $2)
		 ORDER BY created_at DESC OFFSET $3 LIMIT $4`,
		ownerID, pattern, skip, limit,
	)
}

// ApplicationsByOwner materializes the owner's full record set. This is the
// read path the analytics aggregator folds over.
func (db *DB) ApplicationsByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Application, error) {
	return db.queryApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE owner_id = $1 ORDER BY created_at`,
		ownerID,
	)
}

// RecentApplications retrieves the owner's newest applications.
func (db *DB) RecentApplications(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.Application, error) {
	return db.queryApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2`,
		ownerID, limit,
	)
}

func (db *DB) queryApplications(ctx context.Context, query string, args ...any) ([]types.Application, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applications: %w", err)
	}
	return apps, nil
}

// UpdateApplication applies a partial update to an application document and
// returns the updated record, or nil if not found.
func (db *DB) UpdateApplication(ctx context.Context, id, ownerID uuid.UUID, req *types.UpdateApplicationRequest) (*types.Application, error) {
	app, err := db.GetApplication(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, nil
	}

	if req.Company != nil {
		app.Company = *req.Company
	}
	if req.Job != nil {
		app.Job = *req.Job
	}
	if req.Application != nil {
		app.Application = *req.Application
	}
	if req.Requirements != nil {
		app.Requirements = *req.Requirements
	}
	if req.Notes != nil {
		app.Notes = *req.Notes
	}
	if req.IsFavorite != nil {
		app.IsFavorite = *req.IsFavorite
	}

	return db.writeApplication(ctx, app)
}

// writeApplication persists the full document state of app.
func (db *DB) writeApplication(ctx context.Context, app *types.Application) (*types.Application, error) {
	sections, err := marshalSections(app)
	if err != nil {
		return nil, err
	}

	err = db.pool.QueryRow(ctx,
		`UPDATE applications
		 SET status = $3, company = $4, job = $5, application = $6,
		     requirements = $7, timeline = $8, attachments = $9,
		     notes = $10, is_favorite = $11, updated_at = NOW()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING updated_at`,
		app.ID, app.OwnerID, app.Application.Status, sections[0], sections[1], sections[2],
		sections[3], sections[4], sections[5], app.Notes, app.IsFavorite,
	).Scan(&app.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return app, nil
}

// DeleteApplication removes an application. Returns false if it did not
// exist for this owner.
func (db *DB) DeleteApplication(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM applications WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// AddTimelineEvent appends an event to an application's timeline. Returns
// false if the application does not exist for this owner.
func (db *DB) AddTimelineEvent(ctx context.Context, id, ownerID uuid.UUID, event types.TimelineEvent) (bool, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return false, fmt.Errorf("failed to encode timeline event: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE applications
		 SET timeline = timeline || $3::jsonb, updated_at = NOW()
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID, payload,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add timeline event: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// UpdateStatus transitions an application to a new status and records a
// status_change timeline event. Returns nil if the application was not found.
func (db *DB) UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, newStatus, notes string) (*types.Application, error) {
	app, err := db.GetApplication(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, nil
	}

	oldStatus := app.Application.Status
	app.Application.Status = newStatus
	app.Timeline = append(app.Timeline, types.TimelineEvent{
		Date:      time.Now().UTC(),
		EventType: "status_change",
		Title:     fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus),
		Notes:     notes,
	})

	return db.writeApplication(ctx, app)
}

// StatusCounts groups the owner's applications by status.
func (db *DB) StatusCounts(ctx context.Context, ownerID uuid.UUID) (map[string]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM applications WHERE owner_id = $1 GROUP BY status`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status counts: %w", err)
	}
	return counts, nil
}

// CountFavorites counts the owner's favorited applications.
func (db *DB) CountFavorites(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications WHERE owner_id = $1 AND is_favorite`,
		ownerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}
