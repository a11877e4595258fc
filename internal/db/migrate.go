package db

import (
	"context"
	"fmt"
)

// schema is the full DDL for the jobtrackr database. Statements are
// idempotent so Migrate can run on every startup.
const schema = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS companies (
	id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	owner_id         UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name             TEXT NOT NULL,
	website          TEXT NOT NULL DEFAULT '',
	industry         TEXT NOT NULL DEFAULT '',
	size             TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	logo_url         TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	glassdoor_rating DOUBLE PRECISION,
	notes            TEXT NOT NULL DEFAULT '',
	is_favorite      BOOLEAN NOT NULL DEFAULT FALSE,
	tags             TEXT[] NOT NULL DEFAULT '{}',
	contact_info     JSONB NOT NULL DEFAULT '{}',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_companies_owner ON companies(owner_id);

CREATE TABLE IF NOT EXISTS applications (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	owner_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	status       TEXT NOT NULL DEFAULT 'applied',
	company      JSONB NOT NULL DEFAULT '{}',
	job          JSONB NOT NULL DEFAULT '{}',
	application  JSONB NOT NULL DEFAULT '{}',
	requirements JSONB NOT NULL DEFAULT '{}',
	timeline     JSONB NOT NULL DEFAULT '[]',
	attachments  JSONB NOT NULL DEFAULT '[]',
	notes        TEXT NOT NULL DEFAULT '',
	is_favorite  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_applications_owner ON applications(owner_id);
CREATE INDEX IF NOT EXISTS idx_applications_owner_status ON applications(owner_id, status);
CREATE INDEX IF NOT EXISTS idx_applications_owner_created ON applications(owner_id, created_at);
`

// Migrate applies the schema DDL.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
