package models

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a user's authenticated session.
// Sessions are issued by the external identity service; the session ID is the only value
// stored in the cookie and all session data lives server-side.
type Session struct {
	SessionID            uuid.UUID  // UUIDv7 - this is the only value stored in the cookie
	UserID               uuid.UUID  // Who is logged in
	ActiveOrganizationID *uuid.UUID // Default authoring context, nil when none selected

	CreatedAt time.Time
	ExpiresAt time.Time

	// Optional audit metadata
	UserAgent string
	IPAddress string
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ActiveOrganization returns the active organization ID and whether one is set.
func (s *Session) ActiveOrganization() (uuid.UUID, bool) {
	if s.ActiveOrganizationID == nil {
		return uuid.Nil, false
	}
	return *s.ActiveOrganizationID, true
}
