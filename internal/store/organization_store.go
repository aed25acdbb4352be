package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantpress/internal/models"
)

// Sentinel errors for organization store operations
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
)

// OrganizationStore defines the interface for organization storage operations.
// Organizations represent tenants in the system, each reachable on its own subdomain.
type OrganizationStore interface {
	// Create creates a new organization in the store.
	// Returns ErrOrganizationAlreadyExists if an organization with the same ID or slug already exists.
	Create(ctx context.Context, org *models.Organization) error

	// CreateWithOwner creates an organization and its owner membership atomically.
	// Returns ErrOrganizationAlreadyExists if the ID or slug is taken; nothing is written then.
	CreateWithOwner(ctx context.Context, org *models.Organization, owner *models.Membership) error

	// Get retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)

	// GetBySlug retrieves an organization by its routing slug.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)

	// ListByMember returns all organizations the user holds a membership in, newest first.
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*models.Organization, error)
}
