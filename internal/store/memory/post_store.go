package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store"
)

// PostStore implements store.PostStore using in-memory storage.
// Title and slug uniqueness are enforced under the write lock, mirroring the unique
// constraints of the PostgreSQL schema. Foreign keys are not enforced.
type PostStore struct {
	mu sync.RWMutex

	posts   map[uuid.UUID]*models.Post // post_id -> Post
	bySlug  map[string]uuid.UUID       // slug -> post_id
	byTitle map[string]uuid.UUID       // title -> post_id
}

// NewPostStore creates a new in-memory post store.
func NewPostStore() *PostStore {
	return &PostStore{
		posts:   make(map[uuid.UUID]*models.Post),
		bySlug:  make(map[string]uuid.UUID),
		byTitle: make(map[string]uuid.UUID),
	}
}

// Create inserts a new post.
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[post.PostID]; exists {
		return store.ErrPostAlreadyExists
	}
	if s.claimedByOther(post) {
		return store.ErrPostAlreadyExists
	}

	clone := *post
	s.posts[post.PostID] = &clone
	s.bySlug[post.Slug] = post.PostID
	s.byTitle[post.Title] = post.PostID

	return nil
}

// Get retrieves a post by ID.
func (s *PostStore) Get(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.posts[postID]
	if !exists {
		return nil, store.ErrPostNotFound
	}

	clone := *post
	return &clone, nil
}

// GetBySlug retrieves a post by slug.
func (s *PostStore) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	postID, exists := s.bySlug[slug]
	if !exists {
		return nil, store.ErrPostNotFound
	}

	clone := *s.posts[postID]
	return &clone, nil
}

// SlugTaken reports whether a post other than excludeID uses slug.
func (s *PostStore) SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	postID, exists := s.bySlug[slug]
	return exists && postID != excludeID, nil
}

// Update replaces the mutable fields of an existing post.
func (s *PostStore) Update(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.posts[post.PostID]
	if !exists {
		return store.ErrPostNotFound
	}
	if s.claimedByOther(post) {
		return store.ErrPostAlreadyExists
	}

	delete(s.bySlug, existing.Slug)
	delete(s.byTitle, existing.Title)

	existing.Title = post.Title
	existing.Slug = post.Slug
	existing.Description = post.Description
	existing.Content = post.Content
	existing.UpdatedAt = post.UpdatedAt

	s.bySlug[existing.Slug] = existing.PostID
	s.byTitle[existing.Title] = existing.PostID

	return nil
}

// Delete removes a post permanently.
func (s *PostStore) Delete(ctx context.Context, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return store.ErrPostNotFound
	}

	delete(s.bySlug, post.Slug)
	delete(s.byTitle, post.Title)
	delete(s.posts, postID)

	return nil
}

// List returns every post, newest first.
func (s *PostStore) List(ctx context.Context) ([]*models.Post, error) {
	return s.filter(func(*models.Post) bool { return true }), nil
}

// ListByOrganization returns the posts of an organization, newest first.
func (s *PostStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Post, error) {
	return s.filter(func(p *models.Post) bool { return p.OrgID == orgID }), nil
}

// ListByAuthor returns the posts written by a user, newest first.
func (s *PostStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error) {
	return s.filter(func(p *models.Post) bool { return p.AuthorID == authorID }), nil
}

func (s *PostStore) filter(match func(*models.Post) bool) []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Post
	for _, post := range s.posts {
		if match(post) {
			clone := *post
			result = append(result, &clone)
		}
	}

	sortNewestFirst(result, func(p *models.Post) (int64, uuid.UUID) {
		return p.CreatedAt.UnixNano(), p.PostID
	})

	return result
}

// claimedByOther reports whether the post's slug or title belongs to a different post.
// Caller must hold the lock.
func (s *PostStore) claimedByOther(post *models.Post) bool {
	if id, ok := s.bySlug[post.Slug]; ok && id != post.PostID {
		return true
	}
	if id, ok := s.byTitle[post.Title]; ok && id != post.PostID {
		return true
	}
	return false
}
