package bootstrap

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/wolfeidau/tenantpress/internal/store"
)

// Config holds configuration for seeding a development tenant.
type Config struct {
	Users         store.UserStore
	Organizations store.OrganizationStore
	Sessions      store.SessionStore

	// Environment names the seeded tenant and derives stable IDs, e.g. "dev"
	Environment string

	// SessionTTL is the lifetime of the issued development session
	SessionTTL time.Duration

	Clock clock.Clock
}

// Resources holds identifiers of the seeded records.
type Resources struct {
	UserID    uuid.UUID
	OrgID     uuid.UUID
	OrgSlug   string
	SessionID uuid.UUID
}
