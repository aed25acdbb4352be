package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantpress/internal/models"
)

// Sentinel errors for post store operations
var (
	ErrPostNotFound = errors.New("post not found")

	// ErrPostAlreadyExists is returned when a write would violate title or slug uniqueness.
	ErrPostAlreadyExists = errors.New("post already exists")
)

// PostStore defines the interface for post storage operations.
// Implementations must enforce global uniqueness of both title and slug at write time,
// independently of any pre-check done by callers.
type PostStore interface {
	// Create inserts a new post.
	// Returns ErrPostAlreadyExists on title or slug collision and ErrOrganizationNotFound
	// if the organization does not exist.
	Create(ctx context.Context, post *models.Post) error

	// Get retrieves a post by ID.
	// Returns ErrPostNotFound if the post doesn't exist.
	Get(ctx context.Context, postID uuid.UUID) (*models.Post, error)

	// GetBySlug retrieves a post by slug.
	// Returns ErrPostNotFound if the post doesn't exist.
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)

	// SlugTaken reports whether a post other than excludeID already uses slug.
	// Pass uuid.Nil to check against every post.
	SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	// Update replaces title, slug, description, content and updated_at of an existing post.
	// AuthorID, OrgID and CreatedAt are never changed.
	// Returns ErrPostNotFound if the post doesn't exist and ErrPostAlreadyExists on collision.
	Update(ctx context.Context, post *models.Post) error

	// Delete removes a post permanently.
	// Returns ErrPostNotFound if the post doesn't exist.
	Delete(ctx context.Context, postID uuid.UUID) error

	// List returns every post, newest first.
	List(ctx context.Context) ([]*models.Post, error)

	// ListByOrganization returns the posts of an organization, newest first.
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Post, error)

	// ListByAuthor returns the posts written by a user, newest first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error)
}
