package orgs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/tenantpress/internal/auth"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store"
	"github.com/wolfeidau/tenantpress/internal/store/memory"
)

type fixture struct {
	svc         *Service
	clock       *clock.Mock
	orgs        *memory.OrganizationStore
	memberships *memory.MembershipStore
	sessions    *memory.SessionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	memberships := memory.NewMembershipStore()
	orgs := memory.NewOrganizationStore(memberships)
	sessions := memory.NewSessionStore()

	mock := clock.NewMock()
	mock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	svc, err := NewService(Stores{
		Organizations: orgs,
		Memberships:   memberships,
		Sessions:      sessions,
	}, WithClock(mock))
	require.NoError(t, err)

	return &fixture{svc: svc, clock: mock, orgs: orgs, memberships: memberships, sessions: sessions}
}

func (f *fixture) session(t *testing.T) *models.Session {
	t.Helper()
	session := &models.Session{
		SessionID: newID(),
		UserID:    newID(),
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, f.sessions.Create(context.Background(), session))
	return session
}

func TestCreateOrganization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.session(t)

	org, err := f.svc.CreateOrganization(ctx, session, "  Acme Widgets  ")
	require.NoError(t, err)
	require.Equal(t, "Acme Widgets", org.Name)
	require.Equal(t, "acme-widgets", org.Slug)
	require.Equal(t, f.clock.Now(), org.CreatedAt)

	membership, err := f.memberships.Get(ctx, org.OrgID, session.UserID)
	require.NoError(t, err)
	require.Equal(t, models.RoleOwner, membership.Role)

	active, ok := session.ActiveOrganization()
	require.True(t, ok)
	require.Equal(t, org.OrgID, active)

	stored, err := f.sessions.Get(ctx, session.SessionID)
	require.NoError(t, err)
	require.Equal(t, org.OrgID, *stored.ActiveOrganizationID)
}

func TestCreateOrganization_SlugIsSubdomainLabel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		expected string
	}{
		{name: "- Leading Hyphen", expected: "leading-hyphen"},
		{name: "Trailing Hyphen -", expected: "trailing-hyphen"},
		{name: "under_score_co", expected: "under-score-co"},
		{name: "Spaced - Out", expected: "spaced-out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org, err := f.svc.CreateOrganization(ctx, f.session(t), tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.expected, org.Slug)
		})
	}
}

func TestCreateOrganization_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.session(t)

	_, err := f.svc.CreateOrganization(ctx, nil, "Acme")
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
	require.Equal(t, "unauthenticated", Code(err))

	for _, name := range []string{"", " a ", "!!", "_ _", strings.Repeat("x", MaxNameLength+1)} {
		_, err = f.svc.CreateOrganization(ctx, session, name)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "name %q", name)
		require.Equal(t, "name", verr.Field)
		require.Equal(t, "validation", Code(err))
	}

	_, err = f.svc.CreateOrganization(ctx, session, "Acme")
	require.NoError(t, err)

	_, err = f.svc.CreateOrganization(ctx, f.session(t), "ACME")
	require.ErrorIs(t, err, store.ErrOrganizationAlreadyExists)
	require.Equal(t, "conflict", Code(err))
}

func TestListOrganizations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.session(t)

	first, err := f.svc.CreateOrganization(ctx, session, "First Org")
	require.NoError(t, err)
	f.clock.Add(time.Minute)
	second, err := f.svc.CreateOrganization(ctx, session, "Second Org")
	require.NoError(t, err)

	// another user's organization is not listed
	_, err = f.svc.CreateOrganization(ctx, f.session(t), "Other Org")
	require.NoError(t, err)

	views, err := f.svc.ListOrganizations(ctx, session)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, second.OrgID, views[0].OrgID)
	require.True(t, views[0].Active)
	require.Equal(t, first.OrgID, views[1].OrgID)
	require.False(t, views[1].Active)

	_, err = f.svc.ListOrganizations(ctx, nil)
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestSetActiveOrganization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.session(t)

	first, err := f.svc.CreateOrganization(ctx, session, "First Org")
	require.NoError(t, err)
	_, err = f.svc.CreateOrganization(ctx, session, "Second Org")
	require.NoError(t, err)

	require.NoError(t, f.svc.SetActiveOrganization(ctx, session, first.OrgID))
	require.Equal(t, first.OrgID, *session.ActiveOrganizationID)

	stored, err := f.sessions.Get(ctx, session.SessionID)
	require.NoError(t, err)
	require.Equal(t, first.OrgID, *stored.ActiveOrganizationID)

	err = f.svc.SetActiveOrganization(ctx, session, uuid.Must(uuid.NewV7()))
	require.ErrorIs(t, err, auth.ErrForbidden)
	require.Equal(t, first.OrgID, *session.ActiveOrganizationID)
}
