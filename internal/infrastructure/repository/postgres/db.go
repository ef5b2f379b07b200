package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const schemaLockID int64 = 2026101501

func OpenDB(dsn string) (*sql.DB, error) {
	return openDB("pgx", dsn)
}

func openDB(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS verification_batches (
	id TEXT PRIMARY KEY,
	agency_id TEXT NOT NULL DEFAULT '',
	agency_name TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	documents JSONB NOT NULL DEFAULT '[]'::jsonb,
	result JSONB,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_verification_batches_status ON verification_batches(status);
CREATE INDEX IF NOT EXISTS idx_verification_batches_agency ON verification_batches(agency_id, created_at DESC);

CREATE TABLE IF NOT EXISTS onboarding_documents (
	id TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL,
	filename TEXT NOT NULL DEFAULT '',
	mime_type TEXT NOT NULL,
	document_type TEXT NOT NULL,
	classification JSONB NOT NULL,
	extraction JSONB NOT NULL,
	decision JSONB NOT NULL,
	status TEXT NOT NULL,
	points INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_onboarding_documents_candidate ON onboarding_documents(candidate_id, created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
