package siteconfig

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores the configuration document. Merge sets the given
// top-level fields, leaving other stored fields in place, and creates the
// document on first write.
type Repository interface {
	Get(ctx context.Context) (Document, error)
	Merge(ctx context.Context, fields map[string]any, at time.Time) (Document, error)
}

// PostgresRepository keeps the document in a single JSONB row.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed configuration repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the stored document, or an empty one.
func (r *PostgresRepository) Get(ctx context.Context) (Document, error) {
	var doc Document
	err := r.db.QueryRow(ctx, `SELECT data, updated_at FROM site_config WHERE id = 1`).Scan(&doc.Fields, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{Fields: map[string]any{}}, nil
	}
	if err != nil {
		return Document{}, err
	}
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	return doc, nil
}

// Merge upserts the row, merging fields into the existing JSON object.
func (r *PostgresRepository) Merge(ctx context.Context, fields map[string]any, at time.Time) (Document, error) {
	var doc Document
	err := r.db.QueryRow(ctx, `INSERT INTO site_config (id, data, updated_at) VALUES (1, $1, $2)
        ON CONFLICT (id) DO UPDATE SET data = site_config.data || EXCLUDED.data, updated_at = EXCLUDED.updated_at
        RETURNING data, updated_at`, fields, at.UTC()).Scan(&doc.Fields, &doc.UpdatedAt)
	if err != nil {
		return Document{}, err
	}
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	return doc, nil
}
