package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantpress/internal/models"
)

// Sentinel errors for membership store operations
var (
	ErrMembershipNotFound      = errors.New("membership not found")
	ErrMembershipAlreadyExists = errors.New("membership already exists")
)

// MembershipStore links users to organizations.
type MembershipStore interface {
	// Create adds a membership.
	// Returns ErrMembershipAlreadyExists if the user is already a member of the organization.
	Create(ctx context.Context, membership *models.Membership) error

	// Get returns the membership of a user in an organization.
	// Returns ErrMembershipNotFound if the user is not a member.
	Get(ctx context.Context, orgID, userID uuid.UUID) (*models.Membership, error)
}
