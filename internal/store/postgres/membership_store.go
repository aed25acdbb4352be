package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store"
)

// MembershipStore implements store.MembershipStore using PostgreSQL.
type MembershipStore struct {
	pool *pgxpool.Pool
}

// NewMembershipStore creates a new PostgreSQL-backed membership store.
func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{
		pool: pool,
	}
}

// Create adds a membership.
func (s *MembershipStore) Create(ctx context.Context, membership *models.Membership) error {
	if err := insertMembership(ctx, s.pool, membership); err != nil {
		return err
	}

	log.Debug().
		Str("org_id", membership.OrgID.String()).
		Str("user_id", membership.UserID.String()).
		Str("role", membership.Role).
		Msg("Created membership")

	return nil
}

// Get returns the membership of a user in an organization.
func (s *MembershipStore) Get(ctx context.Context, orgID, userID uuid.UUID) (*models.Membership, error) {
	query := `
		SELECT member_id, user_id, org_id, role, created_at
		FROM members
		WHERE org_id = $1 AND user_id = $2
	`

	var m models.Membership
	err := s.pool.QueryRow(ctx, query, orgID, userID).Scan(
		&m.MembershipID,
		&m.UserID,
		&m.OrgID,
		&m.Role,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", mapPostgresError(err))
	}

	return &m, nil
}

func insertMembership(ctx context.Context, db querier, m *models.Membership) error {
	query := `
		INSERT INTO members (
			member_id, user_id, org_id, role, created_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := db.Exec(ctx, query,
		m.MembershipID,
		m.UserID,
		m.OrgID,
		m.Role,
		m.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return store.ErrMembershipAlreadyExists
		case isForeignKeyViolation(err, "members_org_id_fkey"):
			return store.ErrOrganizationNotFound
		case isForeignKeyViolation(err, "members_user_id_fkey"):
			return store.ErrUserNotFound
		}
		return fmt.Errorf("failed to create membership: %w", mapPostgresError(err))
	}

	return nil
}
