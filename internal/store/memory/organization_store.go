package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store"
)

// OrganizationStore implements store.OrganizationStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type OrganizationStore struct {
	mu sync.RWMutex

	organizations map[uuid.UUID]*models.Organization // org_id -> Organization
	bySlug        map[string]uuid.UUID               // slug -> org_id

	memberships *MembershipStore
}

// NewOrganizationStore creates a new in-memory organization store.
// Membership lookups for ListByMember are served from memberships.
func NewOrganizationStore(memberships *MembershipStore) *OrganizationStore {
	return &OrganizationStore{
		organizations: make(map[uuid.UUID]*models.Organization),
		bySlug:        make(map[string]uuid.UUID),
		memberships:   memberships,
	}
}

// Create creates a new organization in memory.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.organizations[org.OrgID]; exists {
		return store.ErrOrganizationAlreadyExists
	}
	if _, exists := s.bySlug[org.Slug]; exists {
		return store.ErrOrganizationAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *org
	s.organizations[org.OrgID] = &clone
	s.bySlug[org.Slug] = org.OrgID

	return nil
}

// CreateWithOwner creates an organization and its owner membership.
func (s *OrganizationStore) CreateWithOwner(ctx context.Context, org *models.Organization, owner *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.organizations[org.OrgID]; exists {
		return store.ErrOrganizationAlreadyExists
	}
	if _, exists := s.bySlug[org.Slug]; exists {
		return store.ErrOrganizationAlreadyExists
	}

	if err := s.memberships.Create(ctx, owner); err != nil {
		return err
	}

	clone := *org
	s.organizations[org.OrgID] = &clone
	s.bySlug[org.Slug] = org.OrgID

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}

// GetBySlug retrieves an organization by slug.
func (s *OrganizationStore) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orgID, exists := s.bySlug[slug]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *s.organizations[orgID]
	return &clone, nil
}

// ListByMember returns all organizations the user belongs to, newest first.
func (s *OrganizationStore) ListByMember(ctx context.Context, userID uuid.UUID) ([]*models.Organization, error) {
	orgIDs := s.memberships.orgsForUser(userID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Organization
	for _, orgID := range orgIDs {
		if org, ok := s.organizations[orgID]; ok {
			clone := *org
			result = append(result, &clone)
		}
	}

	sortNewestFirst(result, func(o *models.Organization) (int64, uuid.UUID) {
		return o.CreatedAt.UnixNano(), o.OrgID
	})

	return result, nil
}
