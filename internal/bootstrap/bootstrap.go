// Package bootstrap seeds a development user, tenant and session so the server can be
// exercised locally without the external identity service.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store"
)

var namespace = uuid.MustParse("6f1c1e5a-4b7e-4c1b-9a55-1d3f1b8f3c01")

// Bootstrap creates the development user and tenant if they don't exist yet and issues a
// fresh session for the user. IDs are derived from the environment name so repeated runs
// against a persistent store reuse the same records.
func Bootstrap(ctx context.Context, cfg Config) (*Resources, error) {
	if cfg.Users == nil || cfg.Organizations == nil || cfg.Sessions == nil {
		return nil, fmt.Errorf("users, organizations and sessions stores are required")
	}
	if cfg.Environment == "" {
		cfg.Environment = "dev" // Default environment
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	now := cfg.Clock.Now()
	res := &Resources{
		UserID:    uuid.NewSHA1(namespace, []byte(cfg.Environment+"/user")),
		OrgID:     uuid.NewSHA1(namespace, []byte(cfg.Environment+"/organization")),
		OrgSlug:   cfg.Environment,
		SessionID: uuid.Must(uuid.NewV7()),
	}

	user := &models.User{
		UserID:    res.UserID,
		Name:      "Developer",
		Email:     cfg.Environment + "@tenantpress.localhost",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := cfg.Users.Create(ctx, user); err != nil && !errors.Is(err, store.ErrUserAlreadyExists) {
		return nil, fmt.Errorf("failed to create development user: %w", err)
	}

	org := &models.Organization{
		OrgID:     res.OrgID,
		Name:      "Development",
		Slug:      res.OrgSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := &models.Membership{
		MembershipID: uuid.NewSHA1(namespace, []byte(cfg.Environment+"/membership")),
		UserID:       res.UserID,
		OrgID:        res.OrgID,
		Role:         models.RoleOwner,
		CreatedAt:    now,
	}
	if err := cfg.Organizations.CreateWithOwner(ctx, org, owner); err != nil && !errors.Is(err, store.ErrOrganizationAlreadyExists) {
		return nil, fmt.Errorf("failed to create development organization: %w", err)
	}

	session := &models.Session{
		SessionID:            res.SessionID,
		UserID:               res.UserID,
		ActiveOrganizationID: &res.OrgID,
		CreatedAt:            now,
		ExpiresAt:            now.Add(cfg.SessionTTL),
		UserAgent:            "bootstrap",
	}
	if err := cfg.Sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create development session: %w", err)
	}

	log.Debug().
		Str("user_id", res.UserID.String()).
		Str("org_slug", res.OrgSlug).
		Msg("Seeded development tenant")

	return res, nil
}
