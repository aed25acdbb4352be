package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store"
)

type membershipKey struct {
	orgID  uuid.UUID
	userID uuid.UUID
}

// MembershipStore implements store.MembershipStore using in-memory storage.
type MembershipStore struct {
	mu sync.RWMutex

	memberships map[membershipKey]*models.Membership
}

// NewMembershipStore creates a new in-memory membership store.
func NewMembershipStore() *MembershipStore {
	return &MembershipStore{
		memberships: make(map[membershipKey]*models.Membership),
	}
}

// Create adds a membership.
func (s *MembershipStore) Create(ctx context.Context, membership *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{orgID: membership.OrgID, userID: membership.UserID}
	if _, exists := s.memberships[key]; exists {
		return store.ErrMembershipAlreadyExists
	}

	clone := *membership
	s.memberships[key] = &clone

	return nil
}

// Get returns the membership of a user in an organization.
func (s *MembershipStore) Get(ctx context.Context, orgID, userID uuid.UUID) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	membership, exists := s.memberships[membershipKey{orgID: orgID, userID: userID}]
	if !exists {
		return nil, store.ErrMembershipNotFound
	}

	clone := *membership
	return &clone, nil
}

func (s *MembershipStore) orgsForUser(userID uuid.UUID) []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orgIDs []uuid.UUID
	for key := range s.memberships {
		if key.userID == userID {
			orgIDs = append(orgIDs, key.orgID)
		}
	}
	return orgIDs
}
