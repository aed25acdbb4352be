// Package orgs manages organizations (tenants): creating them, listing the caller's
// memberships and switching the session's active organization.
package orgs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/tenantpress/internal/auth"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/slug"
	"github.com/wolfeidau/tenantpress/internal/store"
	"github.com/wolfeidau/tenantpress/internal/telemetry"
)

// Organization name limits, in characters.
const (
	MinNameLength = 2
	MaxNameLength = 255
)

// ValidationError describes invalid organization input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Stores groups the stores used by the organization service.
type Stores struct {
	Organizations store.OrganizationStore
	Memberships   store.MembershipStore
	Sessions      store.SessionStore
}

// OrganizationView is an organization as seen by one of its members.
type OrganizationView struct {
	models.Organization
	Active bool `json:"active"`
}

// Service implements the organization workflow.
type Service struct {
	stores  Stores
	clock   clock.Clock
	metrics *telemetry.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// NewService creates an organization service.
func NewService(stores Stores, opts ...Option) (*Service, error) {
	if stores.Organizations == nil || stores.Memberships == nil || stores.Sessions == nil {
		return nil, errors.New("all stores (organizations, memberships, sessions) are required")
	}

	s := &Service{
		stores:  stores,
		clock:   clock.New(),
		metrics: telemetry.GetMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// CreateOrganization creates a tenant named name, makes the caller its owner and switches
// the session to it.
//
// Returns auth.ErrUnauthenticated without a session, *ValidationError for a bad name and
// store.ErrOrganizationAlreadyExists when the derived slug is taken.
func (s *Service) CreateOrganization(ctx context.Context, session *models.Session, name string) (org *models.Organization, err error) {
	defer func() { s.record(ctx, "create", err) }()

	if session == nil {
		return nil, auth.ErrUnauthenticated
	}

	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return nil, &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name must be between %d and %d characters", MinNameLength, MaxNameLength),
		}
	}

	// The slug becomes the tenant subdomain, so it must be a DNS label.
	orgSlug := slug.Label(name)
	if orgSlug == "" {
		return nil, &ValidationError{Field: "name", Message: "name must contain at least one letter or digit"}
	}

	if _, err := s.stores.Organizations.GetBySlug(ctx, orgSlug); err == nil {
		return nil, store.ErrOrganizationAlreadyExists
	} else if !errors.Is(err, store.ErrOrganizationNotFound) {
		return nil, fmt.Errorf("failed to check organization slug: %w", err)
	}

	now := s.clock.Now()
	org = &models.Organization{
		OrgID:     newID(),
		Name:      name,
		Slug:      orgSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := &models.Membership{
		MembershipID: newID(),
		UserID:       session.UserID,
		OrgID:        org.OrgID,
		Role:         models.RoleOwner,
		CreatedAt:    now,
	}

	if err := s.stores.Organizations.CreateWithOwner(ctx, org, owner); err != nil {
		if errors.Is(err, store.ErrOrganizationAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	if err := s.activate(ctx, session, org.OrgID); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("org_id", org.OrgID.String()).
		Str("slug", org.Slug).
		Str("owner_id", session.UserID.String()).
		Msg("Organization created")

	return org, nil
}

// ListOrganizations returns the organizations the caller belongs to, newest first.
func (s *Service) ListOrganizations(ctx context.Context, session *models.Session) ([]OrganizationView, error) {
	if session == nil {
		return nil, auth.ErrUnauthenticated
	}

	orgs, err := s.stores.Organizations.ListByMember(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	active, _ := session.ActiveOrganization()

	views := make([]OrganizationView, 0, len(orgs))
	for _, org := range orgs {
		views = append(views, OrganizationView{
			Organization: *org,
			Active:       org.OrgID == active,
		})
	}

	return views, nil
}

// SetActiveOrganization switches the session to orgID.
// Returns auth.ErrForbidden if the caller is not a member of the organization.
func (s *Service) SetActiveOrganization(ctx context.Context, session *models.Session, orgID uuid.UUID) (err error) {
	defer func() { s.record(ctx, "set_active", err) }()

	if session == nil {
		return auth.ErrUnauthenticated
	}

	if _, err := s.stores.Memberships.Get(ctx, orgID, session.UserID); err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return auth.ErrForbidden
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}

	return s.activate(ctx, session, orgID)
}

func (s *Service) activate(ctx context.Context, session *models.Session, orgID uuid.UUID) error {
	if err := s.stores.Sessions.SetActiveOrganization(ctx, session.SessionID, orgID); err != nil {
		return fmt.Errorf("failed to set active organization: %w", err)
	}
	session.ActiveOrganizationID = &orgID
	return nil
}

func (s *Service) record(ctx context.Context, op string, err error) {
	s.metrics.RecordOrganizationMutation(ctx, op, Code(err))
}

// Code classifies an error returned by the service for metrics and HTTP responses.
func Code(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, auth.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, auth.ErrForbidden):
		return "forbidden"
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, store.ErrOrganizationAlreadyExists):
		return "conflict"
	default:
		return "unexpected"
	}
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}
