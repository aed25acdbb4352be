package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is an article authored by a user within an organization.
// Slug is always derived from Title and AuthorID never changes after creation.
type Post struct {
	PostID      uuid.UUID `json:"id"` // UUIDv7
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	AuthorID    uuid.UUID `json:"author_id"`       // FK to users
	OrgID       uuid.UUID `json:"organization_id"` // FK to organizations
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostWithAuthor is a post joined with its author for read views.
type PostWithAuthor struct {
	Post
	Author User `json:"author"`
}

// OrganizationWithPosts is a tenant landing view: the organization and its posts,
// newest first, each joined with its author.
type OrganizationWithPosts struct {
	Organization
	Posts []*PostWithAuthor `json:"posts"`
}
