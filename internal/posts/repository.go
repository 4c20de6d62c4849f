package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

// Repository persists posts. Missing records yield common.ErrNotFound and a
// duplicate slug yields common.ErrConflict.
type Repository interface {
	Create(ctx context.Context, post Post) (Post, error)
	Get(ctx context.Context, id string) (Post, error)
	GetBySlug(ctx context.Context, slug string) (Post, error)
	List(ctx context.Context, filter Filter) ([]Post, error)
	Update(ctx context.Context, post Post) (Post, error)
	Delete(ctx context.Context, id string) error
}

const postColumns = `id, title, slug, excerpt, content, image_url, author, published, created_at, updated_at`

// PostgresRepository stores posts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a post record.
func (r *PostgresRepository) Create(ctx context.Context, post Post) (Post, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, `INSERT INTO posts (`+postColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, post.Title, post.Slug, post.Excerpt, post.Content, post.ImageURL, post.Author, post.Published,
		post.CreatedAt.UTC(), post.UpdatedAt.UTC())
	if err := translatePgError(err); err != nil {
		return Post{}, err
	}
	post.ID = id.String()
	return post, nil
}

// Get fetches a post by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Post, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return Post{}, common.ErrNotFound
	}
	return scanPost(r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, postID))
}

// GetBySlug fetches a post by slug.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (Post, error) {
	return scanPost(r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug))
}

// List returns posts newest first.
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]Post, error) {
	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM posts
        WHERE ($1::boolean = false OR published = true)
        ORDER BY created_at DESC`, filter.PublishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of an existing post.
func (r *PostgresRepository) Update(ctx context.Context, post Post) (Post, error) {
	postID, err := uuid.Parse(post.ID)
	if err != nil {
		return Post{}, common.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE posts SET title = $2, slug = $3, excerpt = $4, content = $5,
        image_url = $6, published = $7, updated_at = $8 WHERE id = $1`,
		postID, post.Title, post.Slug, post.Excerpt, post.Content, post.ImageURL, post.Published, post.UpdatedAt.UTC())
	if err := translatePgError(err); err != nil {
		return Post{}, err
	}
	if cmd.RowsAffected() == 0 {
		return Post{}, common.ErrNotFound
	}
	return post, nil
}

// Delete removes a post.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	postID, err := uuid.Parse(id)
	if err != nil {
		return common.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (Post, error) {
	var (
		p                    Post
		id                   uuid.UUID
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.ImageURL, &p.Author, &p.Published, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, common.ErrNotFound
	}
	if err != nil {
		return Post{}, err
	}
	p.ID = id.String()
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: slug already in use", common.ErrConflict)
	}
	return err
}
