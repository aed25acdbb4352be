package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store/memory"
)

func TestHasSessionCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.False(t, HasSessionCookie(r, DefaultSessionCookie))

	r.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: ""})
	require.False(t, HasSessionCookie(r, DefaultSessionCookie))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "anything"})
	require.True(t, HasSessionCookie(r, DefaultSessionCookie))
	require.False(t, HasSessionCookie(r, "other"))
}

func TestStoreSessionProvider_Session(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionStore()
	provider := NewStoreSessionProvider(DefaultSessionCookie, sessions)

	now := time.Now()
	valid := &models.Session{
		SessionID: uuid.Must(uuid.NewV7()),
		UserID:    uuid.Must(uuid.NewV7()),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, sessions.Create(ctx, valid))

	expired := &models.Session{
		SessionID: uuid.Must(uuid.NewV7()),
		UserID:    uuid.Must(uuid.NewV7()),
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, sessions.Create(ctx, expired))

	request := func(value string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if value != "" {
			r.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: value})
		}
		return r
	}

	t.Run("valid session", func(t *testing.T) {
		session, err := provider.Session(request(valid.SessionID.String()))
		require.NoError(t, err)
		require.Equal(t, valid.UserID, session.UserID)
	})

	t.Run("no cookie", func(t *testing.T) {
		_, err := provider.Session(request(""))
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("malformed cookie", func(t *testing.T) {
		_, err := provider.Session(request("not-a-uuid"))
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := provider.Session(request(uuid.Must(uuid.NewV7()).String()))
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired session", func(t *testing.T) {
		_, err := provider.Session(request(expired.SessionID.String()))
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}
