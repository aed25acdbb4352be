package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store"
)

const postColumns = `post_id, title, slug, description, content, author_id, org_id, created_at, updated_at`

// PostStore implements store.PostStore using PostgreSQL.
// Title and slug uniqueness is enforced by the posts_title_key and posts_slug_key constraints.
type PostStore struct {
	pool *pgxpool.Pool
}

// NewPostStore creates a new PostgreSQL-backed post store.
func NewPostStore(pool *pgxpool.Pool) *PostStore {
	return &PostStore{
		pool: pool,
	}
}

// Create inserts a new post.
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (
			post_id, title, slug, description, content,
			author_id, org_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := s.pool.Exec(ctx, query,
		post.PostID,
		post.Title,
		post.Slug,
		post.Description,
		post.Content,
		post.AuthorID,
		post.OrgID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return store.ErrPostAlreadyExists
		case isForeignKeyViolation(err, "posts_org_id_fkey"):
			return store.ErrOrganizationNotFound
		case isForeignKeyViolation(err, "posts_author_id_fkey"):
			return store.ErrUserNotFound
		}
		return fmt.Errorf("failed to create post: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("post_id", post.PostID.String()).
		Str("slug", post.Slug).
		Msg("Created post")

	return nil
}

// Get retrieves a post by ID.
func (s *PostStore) Get(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = $1`
	return scanPost(s.pool.QueryRow(ctx, query, postID))
}

// GetBySlug retrieves a post by slug.
func (s *PostStore) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`
	return scanPost(s.pool.QueryRow(ctx, query, slug))
}

// SlugTaken reports whether a post other than excludeID uses slug.
func (s *PostStore) SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1 AND post_id <> $2)`

	var taken bool
	if err := s.pool.QueryRow(ctx, query, slug, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", mapPostgresError(err))
	}

	return taken, nil
}

// Update replaces the mutable fields of an existing post.
func (s *PostStore) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			title = $2,
			slug = $3,
			description = $4,
			content = $5,
			updated_at = $6
		WHERE post_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		post.PostID,
		post.Title,
		post.Slug,
		post.Description,
		post.Content,
		post.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrPostAlreadyExists
		}
		return fmt.Errorf("failed to update post: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrPostNotFound
	}

	log.Debug().
		Str("post_id", post.PostID.String()).
		Str("slug", post.Slug).
		Msg("Updated post")

	return nil
}

// Delete removes a post permanently.
func (s *PostStore) Delete(ctx context.Context, postID uuid.UUID) error {
	query := `DELETE FROM posts WHERE post_id = $1`

	result, err := s.pool.Exec(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrPostNotFound
	}

	log.Debug().
		Str("post_id", postID.String()).
		Msg("Deleted post")

	return nil
}

// List returns every post, newest first.
func (s *PostStore) List(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, post_id DESC`
	return s.list(ctx, query)
}

// ListByOrganization returns the posts of an organization, newest first.
func (s *PostStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE org_id = $1 ORDER BY created_at DESC, post_id DESC`
	return s.list(ctx, query, orgID)
}

// ListByAuthor returns the posts written by a user, newest first.
func (s *PostStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE author_id = $1 ORDER BY created_at DESC, post_id DESC`
	return s.list(ctx, query, authorID)
}

func (s *PostStore) list(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.PostID,
		&post.Title,
		&post.Slug,
		&post.Description,
		&post.Content,
		&post.AuthorID,
		&post.OrgID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", mapPostgresError(err))
	}

	return &post, nil
}
