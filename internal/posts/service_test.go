package posts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store"
	"github.com/wolfeidau/tenantpress/internal/store/memory"
)

type fixture struct {
	svc     *Service
	clock   *clock.Mock
	posts   store.PostStore
	org     *models.Organization
	alice   *models.Session
	bob     *models.Session
	visitor *models.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithPosts(t, memory.NewPostStore())
}

func newFixtureWithPosts(t *testing.T, posts store.PostStore) *fixture {
	t.Helper()
	ctx := context.Background()

	memberships := memory.NewMembershipStore()
	orgs := memory.NewOrganizationStore(memberships)
	users := memory.NewUserStore()

	mock := clock.NewMock()
	mock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	org := &models.Organization{OrgID: newID(), Name: "Acme", Slug: "acme", CreatedAt: mock.Now(), UpdatedAt: mock.Now()}
	require.NoError(t, orgs.Create(ctx, org))

	session := func(name string, member bool) *models.Session {
		user := &models.User{UserID: newID(), Name: name, Email: name + "@example.com"}
		require.NoError(t, users.Create(ctx, user))
		if member {
			require.NoError(t, memberships.Create(ctx, &models.Membership{
				MembershipID: newID(),
				UserID:       user.UserID,
				OrgID:        org.OrgID,
				Role:         models.RoleMember,
			}))
		}
		active := org.OrgID
		return &models.Session{
			SessionID:            newID(),
			UserID:               user.UserID,
			ActiveOrganizationID: &active,
			CreatedAt:            mock.Now(),
			ExpiresAt:            mock.Now().Add(time.Hour),
		}
	}

	svc, err := NewService(Stores{
		Posts:         posts,
		Organizations: orgs,
		Memberships:   memberships,
		Users:         users,
	}, WithClock(mock))
	require.NoError(t, err)

	return &fixture{
		svc:     svc,
		clock:   mock,
		posts:   posts,
		org:     org,
		alice:   session("alice", true),
		bob:     session("bob", true),
		visitor: session("visitor", false),
	}
}

func validInput(title string) Input {
	return Input{
		Title:       title,
		Description: "A short description",
		Content:     "Some content that is long enough",
	}
}

func (f *fixture) create(t *testing.T, session *models.Session, title string) *models.Post {
	t.Helper()
	res := f.svc.Create(context.Background(), session, uuid.Nil, validInput(title))
	require.True(t, res.Success, res.Message)
	post, err := f.posts.GetBySlug(context.Background(), res.Slug)
	require.NoError(t, err)
	return post
}

func TestNewService_RequiresStores(t *testing.T) {
	_, err := NewService(Stores{Posts: memory.NewPostStore()})
	require.Error(t, err)
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.svc.Create(ctx, f.alice, uuid.Nil, validInput("Hello, World!"))
	require.True(t, res.Success)
	require.Equal(t, CodeOK, res.Code)
	require.Equal(t, "hello-world", res.Slug)
	require.Equal(t, "Post created successfully", res.Message)

	post, err := f.posts.GetBySlug(ctx, "hello-world")
	require.NoError(t, err)
	require.Equal(t, "Hello, World!", post.Title)
	require.Equal(t, f.alice.UserID, post.AuthorID)
	require.Equal(t, f.org.OrgID, post.OrgID)
	require.Equal(t, f.clock.Now(), post.CreatedAt)
	require.Equal(t, post.CreatedAt, post.UpdatedAt)
}

func TestCreate_Unauthenticated(t *testing.T) {
	f := newFixture(t)

	res := f.svc.Create(context.Background(), nil, uuid.Nil, validInput("Hello"))
	require.False(t, res.Success)
	require.Equal(t, CodeUnauthenticated, res.Code)

	posts, err := f.posts.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		field string
	}{
		{"title too short", Input{Title: "a", Description: "valid desc", Content: "valid content"}, "title"},
		{"title without identifier", Input{Title: "!!", Description: "valid desc", Content: "valid content"}, "title"},
		{"description too short", Input{Title: "Hello", Description: "abc", Content: "valid content"}, "description"},
		{"content too short", Input{Title: "Hello", Description: "valid desc", Content: "short"}, "content"},
		{"title too long", Input{Title: string(make([]rune, 256)), Description: "valid desc", Content: "valid content"}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			res := f.svc.Create(context.Background(), f.alice, uuid.Nil, tt.input)
			require.False(t, res.Success)
			require.Equal(t, CodeValidation, res.Code)
			require.Equal(t, tt.field, res.Field)

			posts, err := f.posts.List(context.Background())
			require.NoError(t, err)
			require.Empty(t, posts)
		})
	}
}

func TestCreate_DuplicateTitleConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.create(t, f.alice, "Hello World")

	res := f.svc.Create(ctx, f.bob, uuid.Nil, validInput("Hello World"))
	require.False(t, res.Success)
	require.Equal(t, CodeConflict, res.Code)
	require.Equal(t, "A post with same title already exists! Please try with a different title", res.Message)

	posts, err := f.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestCreate_EquivalentTitleConflicts(t *testing.T) {
	f := newFixture(t)

	f.create(t, f.alice, "Hello World")

	// different title, same slug
	res := f.svc.Create(context.Background(), f.bob, uuid.Nil, validInput("hello   world!"))
	require.Equal(t, CodeConflict, res.Code)
}

func TestCreate_RequiresMembership(t *testing.T) {
	f := newFixture(t)

	res := f.svc.Create(context.Background(), f.visitor, uuid.Nil, validInput("Hello"))
	require.False(t, res.Success)
	require.Equal(t, CodeForbidden, res.Code)
}

func TestCreate_UnknownOrganization(t *testing.T) {
	f := newFixture(t)

	res := f.svc.Create(context.Background(), f.alice, newID(), validInput("Hello"))
	require.False(t, res.Success)
	require.Equal(t, CodeNotFound, res.Code)
}

func TestCreate_NoActiveOrganization(t *testing.T) {
	f := newFixture(t)
	f.alice.ActiveOrganizationID = nil

	res := f.svc.Create(context.Background(), f.alice, uuid.Nil, validInput("Hello"))
	require.Equal(t, CodeValidation, res.Code)
	require.Equal(t, "organization_id", res.Field)

	res = f.svc.Create(context.Background(), f.alice, f.org.OrgID, validInput("Hello"))
	require.True(t, res.Success)
}

// racingPostStore hides existing slugs from the pre-check so the write-time constraint decides.
type racingPostStore struct {
	*memory.PostStore
}

func (s racingPostStore) SlugTaken(context.Context, string, uuid.UUID) (bool, error) {
	return false, nil
}

func TestCreate_WriteTimeConstraintConflicts(t *testing.T) {
	posts := racingPostStore{PostStore: memory.NewPostStore()}
	f := newFixtureWithPosts(t, posts)
	ctx := context.Background()

	f.create(t, f.alice, "Hello World")

	res := f.svc.Create(ctx, f.bob, uuid.Nil, validInput("Hello World"))
	require.False(t, res.Success)
	require.Equal(t, CodeConflict, res.Code)

	all, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

type failingPostStore struct {
	*memory.PostStore
}

func (s failingPostStore) SlugTaken(context.Context, string, uuid.UUID) (bool, error) {
	return false, errors.New("connection reset")
}

func TestCreate_UnexpectedStoreError(t *testing.T) {
	f := newFixtureWithPosts(t, failingPostStore{PostStore: memory.NewPostStore()})

	res := f.svc.Create(context.Background(), f.alice, uuid.Nil, validInput("Hello"))
	require.False(t, res.Success)
	require.Equal(t, CodeUnexpected, res.Code)
	require.NotContains(t, res.Message, "connection reset")
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := f.create(t, f.alice, "First Title")
	f.clock.Add(time.Minute)

	res := f.svc.Update(ctx, f.alice, post.PostID, Input{
		Title:       "Second Title",
		Description: "New description",
		Content:     "Brand new content here",
	})
	require.True(t, res.Success, res.Message)
	require.Equal(t, "second-title", res.Slug)
	require.Equal(t, "Post edited successfully", res.Message)

	updated, err := f.posts.Get(ctx, post.PostID)
	require.NoError(t, err)
	require.Equal(t, "Second Title", updated.Title)
	require.Equal(t, "second-title", updated.Slug)
	require.Equal(t, "New description", updated.Description)
	require.Equal(t, post.CreatedAt, updated.CreatedAt)
	require.Equal(t, f.clock.Now(), updated.UpdatedAt)
	require.Equal(t, post.AuthorID, updated.AuthorID)
	require.Equal(t, post.OrgID, updated.OrgID)

	_, err = f.posts.GetBySlug(ctx, "first-title")
	require.ErrorIs(t, err, store.ErrPostNotFound)
}

func TestUpdate_UnchangedTitleSucceeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := f.create(t, f.alice, "Stable Title")

	in := validInput("Stable Title")
	in.Content = "Edited content only"
	res := f.svc.Update(ctx, f.alice, post.PostID, in)
	require.True(t, res.Success, res.Message)
	require.Equal(t, "stable-title", res.Slug)

	updated, err := f.posts.Get(ctx, post.PostID)
	require.NoError(t, err)
	require.Equal(t, "Edited content only", updated.Content)
}

func TestUpdate_SlugCollisionConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, f.alice, "Post P")
	f.create(t, f.alice, "Post Q")

	res := f.svc.Update(ctx, f.alice, p.PostID, validInput("Post Q"))
	require.False(t, res.Success)
	require.Equal(t, CodeConflict, res.Code)

	unchanged, err := f.posts.Get(ctx, p.PostID)
	require.NoError(t, err)
	require.Equal(t, p, unchanged)
}

func TestUpdate_WriteTimeConstraintConflicts(t *testing.T) {
	posts := racingPostStore{PostStore: memory.NewPostStore()}
	f := newFixtureWithPosts(t, posts)
	ctx := context.Background()

	p := f.create(t, f.alice, "Post P")
	f.create(t, f.alice, "Post Q")
	f.clock.Add(time.Minute)

	res := f.svc.Update(ctx, f.alice, p.PostID, validInput("Post Q"))
	require.False(t, res.Success)
	require.Equal(t, CodeConflict, res.Code)
	require.Equal(t, "A post with this title already exists!", res.Message)

	unchanged, err := posts.Get(ctx, p.PostID)
	require.NoError(t, err)
	require.Equal(t, p, unchanged)
}

func TestUpdate_ForbiddenForNonAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := f.create(t, f.alice, "Alice Post")

	res := f.svc.Update(ctx, f.bob, post.PostID, validInput("Bob Was Here"))
	require.False(t, res.Success)
	require.Equal(t, CodeForbidden, res.Code)
	require.Equal(t, "You can only edit your own post!", res.Message)

	unchanged, err := f.posts.Get(ctx, post.PostID)
	require.NoError(t, err)
	require.Equal(t, post, unchanged)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(t)

	res := f.svc.Update(context.Background(), f.alice, newID(), validInput("Missing"))
	require.False(t, res.Success)
	require.Equal(t, CodeNotFound, res.Code)
}

func TestUpdate_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	post := f.create(t, f.alice, "Alice Post")

	res := f.svc.Update(context.Background(), nil, post.PostID, validInput("Changed"))
	require.Equal(t, CodeUnauthenticated, res.Code)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := f.create(t, f.alice, "Doomed Post")

	res := f.svc.Delete(ctx, f.alice, post.PostID)
	require.True(t, res.Success)
	require.Equal(t, "Post deleted successfully", res.Message)

	_, err := f.posts.Get(ctx, post.PostID)
	require.ErrorIs(t, err, store.ErrPostNotFound)

	// the slug is free again
	f.create(t, f.bob, "Doomed Post")
}

func TestDelete_ForbiddenForNonAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := f.create(t, f.alice, "Alice Post")

	res := f.svc.Delete(ctx, f.bob, post.PostID)
	require.False(t, res.Success)
	require.Equal(t, CodeForbidden, res.Code)

	still, err := f.posts.Get(ctx, post.PostID)
	require.NoError(t, err)
	require.Equal(t, post, still)
}

func TestDelete_NotFoundAndUnauthenticated(t *testing.T) {
	f := newFixture(t)

	res := f.svc.Delete(context.Background(), f.alice, newID())
	require.Equal(t, CodeNotFound, res.Code)

	res = f.svc.Delete(context.Background(), nil, newID())
	require.Equal(t, CodeUnauthenticated, res.Code)
}
