package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobtrackr/internal/types"
)

const companyColumns = `c.id, c.owner_id, c.name, c.website, c.industry, c.size,
	c.location, c.logo_url, c.description, c.glassdoor_rating, c.notes,
	c.is_favorite, c.tags, c.contact_info, c.created_at, c.updated_at`

func scanCompany(row rowScanner) (*types.Company, error) {
	var c types.Company
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Website, &c.Industry, &c.Size,
		&c.Location, &c.LogoURL, &c.Description, &c.GlassdoorRating, &c.Notes,
		&c.IsFavorite, &c.Tags, &c.ContactInfo, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCompany inserts a new owner-scoped company record.
func (db *DB) CreateCompany(ctx context.Context, c *types.Company) error {
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.ContactInfo == nil {
		c.ContactInfo = map[string]string{}
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO companies (owner_id, name, website, industry, size, location, logo_url, description, glassdoor_rating, notes, is_favorite, tags, contact_info)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		c.OwnerID, c.Name, c.Website, c.Industry, c.Size, c.Location, c.LogoURL,
		c.Description, c.GlassdoorRating, c.Notes, c.IsFavorite, c.Tags, c.ContactInfo,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

// GetCompany retrieves a company scoped to its owner, or nil if not found.
func (db *DB) GetCompany(ctx context.Context, id, ownerID uuid.UUID) (*types.Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies c WHERE c.id = $1 AND c.owner_id = $2`,
		id, ownerID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// GetCompanyByName retrieves a company by exact name, case-insensitively.
func (db *DB) GetCompanyByName(ctx context.Context, ownerID uuid.UUID, name string) (*types.Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies c WHERE c.owner_id = $1 AND c.name ILIKE $2 LIMIT 1`,
		ownerID, name,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company by name: %w", err)
	}
	return c, nil
}

// CompanyFilters holds optional filters for listing companies.
type CompanyFilters struct {
	Industry   string
	Location   string
	IsFavorite *bool
	Tags       []string
	Skip       int
	Limit      int
}

// ListCompanies retrieves a page of the owner's companies sorted by name,
// with each record's application count, plus the total matching the filters.
func (db *DB) ListCompanies(ctx context.Context, ownerID uuid.UUID, filters CompanyFilters) ([]types.Company, int, error) {
	if filters.Limit <= 0 {
		filters.Limit = 20
	}

	where := ` WHERE c.owner_id = $1`
	args := []any{ownerID}
	argNum := 2

	if filters.Industry != "" {
		where += fmt.Sprintf(" AND c.industry ILIKE $%d", argNum)
		args = append(args, "%"+filters.Industry+"%")
		argNum++
	}
	if filters.Location != "" {
		where += fmt.Sprintf(" AND c.location ILIKE $%d", argNum)
		args = append(args, "%"+filters.Location+"%")
		argNum++
	}
	if filters.IsFavorite != nil {
		where += fmt.Sprintf(" AND c.is_favorite = $%d", argNum)
		args = append(args, *filters.IsFavorite)
		argNum++
	}
	if len(filters.Tags) > 0 {
		where += fmt.Sprintf(" AND c.tags && $%d", argNum)
		args = append(args, filters.Tags)
		argNum++
	}

	var total int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies c`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	// application_count joins against the owner's application documents by
	// company name, mirroring how applications embed company info.
	query := `SELECT ` + companyColumns + `,
		(SELECT COUNT(*) FROM applications a
		 WHERE a.owner_id = c.owner_id AND a.company->>'name' = c.name) AS application_count
		FROM companies c` + where +
		fmt.Sprintf(" ORDER BY c.name ASC OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, filters.Skip, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []types.Company
	for rows.Next() {
		var c types.Company
		err := rows.Scan(
			&c.ID, &c.OwnerID, &c.Name, &c.Website, &c.Industry, &c.Size,
			&c.Location, &c.LogoURL, &c.Description, &c.GlassdoorRating, &c.Notes,
			&c.IsFavorite, &c.Tags, &c.ContactInfo, &c.CreatedAt, &c.UpdatedAt,
			&c.ApplicationCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read companies: %w", err)
	}
	return companies, total, nil
}

// UpdateCompany replaces the mutable fields of a company record and returns
// the updated record, or nil if not found.
func (db *DB) UpdateCompany(ctx context.Context, id, ownerID uuid.UUID, c *types.Company) (*types.Company, error) {
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.ContactInfo == nil {
		c.ContactInfo = map[string]string{}
	}
	updated, err := scanCompany(db.pool.QueryRow(ctx,
		`UPDATE companies c
		 SET name = $3, website = $4, industry = $5, size = $6, location = $7,
		     logo_url = $8, description = $9, glassdoor_rating = $10, notes = $11,
		     is_favorite = $12, tags = $13, contact_info = $14, updated_at = NOW()
		 WHERE c.id = $1 AND c.owner_id = $2
		 RETURNING `+companyColumns,
		id, ownerID, c.Name, c.Website, c.Industry, c.Size, c.Location,
		c.LogoURL, c.Description, c.GlassdoorRating, c.Notes, c.IsFavorite, c.Tags, c.ContactInfo,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return updated, nil
}

// DeleteCompany removes a company record. Returns false if it did not exist
// for this owner.
func (db *DB) DeleteCompany(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM companies WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete company: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
