package leads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS quote_requests (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    location TEXT NOT NULL,
    measurement_date TEXT NOT NULL,
    source TEXT NOT NULL DEFAULT 'web',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_quote_requests_created_at ON quote_requests(created_at);
`

// SQLRepository stores leads through database/sql. It backs the local
// single-file SQLite deployment.
type SQLRepository struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) a SQLite database file and its schema.
func OpenSQLite(ctx context.Context, path string) (*SQLRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("leads: open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	repo := NewSQLRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLRepository wraps an open database handle.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	if db == nil {
		panic("leads: sql db required")
	}
	return &SQLRepository{db: db, now: time.Now}
}

// EnsureSchema creates the table when missing. Safe to call repeatedly.
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("leads: create schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// Create inserts a row, or refreshes the one already stored under req.ID.
func (r *SQLRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quote_requests (id, name, phone, location, measurement_date, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			location = excluded.location,
			measurement_date = excluded.measurement_date,
			source = excluded.source`,
		req.ID, req.Name, req.Phone, req.Location, req.MeasurementDate, req.Source, r.now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}
	return r.GetByID(ctx, req.ID)
}

// GetByID fetches a single lead.
func (r *SQLRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, location, measurement_date, source, created_at
		FROM quote_requests
		WHERE id = ?`, id)

	var lead Lead
	if err := row.Scan(&lead.ID, &lead.Name, &lead.Phone, &lead.Location, &lead.MeasurementDate, &lead.Source, &lead.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return &lead, nil
}

// List returns leads newest first.
func (r *SQLRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	filter = filter.normalized()
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, location, measurement_date, source, created_at
		FROM quote_requests
		WHERE (? = '' OR source = ?)
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`,
		filter.Source, filter.Source, filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Lead{}
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Phone, &lead.Location, &lead.MeasurementDate, &lead.Source, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, &lead)
	}
	return out, rows.Err()
}
