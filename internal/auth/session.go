package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store"
)

// DefaultSessionCookie is the name of the cookie carrying the session ID.
const DefaultSessionCookie = "session_token"

// ErrUnauthenticated is returned when no valid session is attached to a request.
var ErrUnauthenticated = errors.New("unauthenticated")

// HasSessionCookie reports whether a non-empty session cookie is attached to the request.
// It is a presence signal only and says nothing about whether the session is valid.
func HasSessionCookie(r *http.Request, name string) bool {
	cookie, err := r.Cookie(name)
	return err == nil && cookie.Value != ""
}

// SessionProvider loads the full session for a request.
type SessionProvider interface {
	// Session returns the request's session, or ErrUnauthenticated.
	Session(r *http.Request) (*models.Session, error)
}

// StoreSessionProvider resolves the session cookie against the session store.
type StoreSessionProvider struct {
	cookieName string
	sessions   store.SessionStore
}

// NewStoreSessionProvider creates a session provider reading cookieName.
func NewStoreSessionProvider(cookieName string, sessions store.SessionStore) *StoreSessionProvider {
	return &StoreSessionProvider{
		cookieName: cookieName,
		sessions:   sessions,
	}
}

// Session returns the request's session. Missing, malformed, unknown and expired sessions
// all yield ErrUnauthenticated, store failures are returned wrapped.
func (p *StoreSessionProvider) Session(r *http.Request) (*models.Session, error) {
	cookie, err := r.Cookie(p.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrUnauthenticated
	}

	sessionID, err := uuid.Parse(cookie.Value)
	if err != nil {
		log.Debug().Msg("Malformed session cookie")
		return nil, ErrUnauthenticated
	}

	return p.load(r.Context(), sessionID)
}

func (p *StoreSessionProvider) load(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	session, err := p.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) || errors.Is(err, store.ErrSessionExpired) {
			log.Debug().Err(err).Str("session_id", sessionID.String()).Msg("Session rejected")
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return session, nil
}
