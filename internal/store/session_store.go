package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantpress/internal/models"
)

// Sentinel errors for session store operations
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionStore defines the interface for session storage.
// Sessions are issued and destroyed by the identity service; the application reads them and
// may switch the active organization.
type SessionStore interface {
	// Create creates a new session.
	Create(ctx context.Context, session *models.Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if the session doesn't exist, ErrSessionExpired if it has expired.
	Get(ctx context.Context, sessionID uuid.UUID) (*models.Session, error)

	// SetActiveOrganization changes the active organization for a session.
	// Returns ErrSessionNotFound if the session doesn't exist.
	SetActiveOrganization(ctx context.Context, sessionID, orgID uuid.UUID) error

	// Delete deletes a session by ID (logout).
	// Returns ErrSessionNotFound if the session doesn't exist.
	Delete(ctx context.Context, sessionID uuid.UUID) error
}
