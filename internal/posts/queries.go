package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store"
)

// ListPosts returns every post with its author, newest first.
func (s *Service) ListPosts(ctx context.Context) ([]*models.PostWithAuthor, error) {
	posts, err := s.stores.Posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return s.withAuthors(ctx, posts)
}

// ListPostsByAuthor returns the posts written by a user, newest first.
func (s *Service) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.PostWithAuthor, error) {
	posts, err := s.stores.Posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	return s.withAuthors(ctx, posts)
}

// GetPostBySlug returns a single post with its author.
// Returns store.ErrPostNotFound if no post uses the slug.
func (s *Service) GetPostBySlug(ctx context.Context, postSlug string) (*models.PostWithAuthor, error) {
	post, err := s.stores.Posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	result, err := s.withAuthors(ctx, []*models.Post{post})
	if err != nil {
		return nil, err
	}
	return result[0], nil
}

// GetOrganizationBySlug returns an organization and its posts, newest first.
// Returns store.ErrOrganizationNotFound if no organization uses the slug.
func (s *Service) GetOrganizationBySlug(ctx context.Context, orgSlug string) (*models.OrganizationWithPosts, error) {
	org, err := s.stores.Organizations.GetBySlug(ctx, orgSlug)
	if err != nil {
		return nil, err
	}

	posts, err := s.stores.Posts.ListByOrganization(ctx, org.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization posts: %w", err)
	}

	withAuthors, err := s.withAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &models.OrganizationWithPosts{Organization: *org, Posts: withAuthors}, nil
}

// withAuthors joins each post with its author. Authors missing from the user store are
// rendered with an empty profile rather than failing the whole query.
func (s *Service) withAuthors(ctx context.Context, posts []*models.Post) ([]*models.PostWithAuthor, error) {
	authors := make(map[uuid.UUID]models.User)
	result := make([]*models.PostWithAuthor, 0, len(posts))

	for _, post := range posts {
		author, seen := authors[post.AuthorID]
		if !seen {
			user, err := s.stores.Users.Get(ctx, post.AuthorID)
			switch {
			case err == nil:
				author = *user
			case errors.Is(err, store.ErrUserNotFound):
				zerolog.Ctx(ctx).Warn().Str("author_id", post.AuthorID.String()).Msg("Post author not found")
				author = models.User{UserID: post.AuthorID}
			default:
				return nil, fmt.Errorf("failed to load author: %w", err)
			}
			authors[post.AuthorID] = author
		}

		result = append(result, &models.PostWithAuthor{Post: *post, Author: author})
	}

	return result, nil
}
