package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents an organization (tenant) in the system.
// The slug is the routing identifier for the tenant's subdomain and never changes after creation.
type Organization struct {
	OrgID     uuid.UUID `json:"id"` // UUIDv7
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Membership roles.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership links a user to an organization with a role.
type Membership struct {
	MembershipID uuid.UUID // UUIDv7
	UserID       uuid.UUID // FK to users
	OrgID        uuid.UUID // FK to organizations
	Role         string
	CreatedAt    time.Time
}
