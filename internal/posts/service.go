// Package posts implements post authoring: creation, editing and deletion with slug
// derivation, uniqueness enforcement and ownership checks, plus the read queries behind
// the public views.
package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/tenantpress/internal/auth"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/slug"
	"github.com/wolfeidau/tenantpress/internal/store"
	"github.com/wolfeidau/tenantpress/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/wolfeidau/tenantpress/internal/posts"

// Stores groups the stores the post service reads and writes.
type Stores struct {
	Posts         store.PostStore
	Organizations store.OrganizationStore
	Memberships   store.MembershipStore
	Users         store.UserStore
}

func (s Stores) validate() error {
	if s.Posts == nil || s.Organizations == nil || s.Memberships == nil || s.Users == nil {
		return errors.New("all stores (posts, organizations, memberships, users) are required")
	}
	return nil
}

// Service runs post mutations and queries.
//
// Every mutation is a single sequential attempt: session check, validation, uniqueness
// pre-check, optional load and ownership check, then the write. The uniqueness pre-check is
// advisory, the store's unique constraints decide races and are reported as conflicts.
type Service struct {
	stores  Stores
	clock   clock.Clock
	tracer  trace.Tracer
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

// NewService creates a post service.
func NewService(stores Stores, opts ...Option) (*Service, error) {
	if err := stores.validate(); err != nil {
		return nil, err
	}

	s := &Service{
		stores:  stores,
		clock:   clock.New(),
		tracer:  otel.Tracer(tracerName),
		metrics: telemetry.GetMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Create publishes a new post. orgID selects the organization; uuid.Nil uses the session's
// active organization. The actor must be a member of the organization.
func (s *Service) Create(ctx context.Context, session *models.Session, orgID uuid.UUID, in Input) (res Result) {
	ctx, span := s.tracer.Start(ctx, "posts.Create")
	defer s.finish(ctx, span, "create", &res)

	if session == nil {
		return fail(CodeUnauthenticated, "You must be logged in to create a post")
	}

	if ferr := validateInput(in); ferr != nil {
		return invalid(ferr)
	}

	postSlug := slug.Normalize(in.Title)

	taken, err := s.stores.Posts.SlugTaken(ctx, postSlug, uuid.Nil)
	if err != nil {
		return s.unexpected(ctx, "create", err, "Failed to create new post")
	}
	if taken {
		return fail(CodeConflict, "A post with same title already exists! Please try with a different title")
	}

	if orgID == uuid.Nil {
		active, ok := session.ActiveOrganization()
		if !ok {
			return Result{Code: CodeValidation, Field: "organization_id", Message: "Select an organization before creating a post"}
		}
		orgID = active
	}

	if res, allowed := s.checkMembership(ctx, session.UserID, orgID); !allowed {
		return res
	}

	now := s.clock.Now()
	post := &models.Post{
		PostID:      newID(),
		Title:       in.Title,
		Slug:        postSlug,
		Description: in.Description,
		Content:     in.Content,
		AuthorID:    session.UserID,
		OrgID:       orgID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.stores.Posts.Create(ctx, post); err != nil {
		switch {
		case errors.Is(err, store.ErrPostAlreadyExists):
			return fail(CodeConflict, "A post with same title already exists! Please try with a different title")
		case errors.Is(err, store.ErrOrganizationNotFound):
			return fail(CodeNotFound, "Organization not found")
		default:
			return s.unexpected(ctx, "create", err, "Failed to create new post")
		}
	}

	zerolog.Ctx(ctx).Info().
		Str("post_id", post.PostID.String()).
		Str("slug", post.Slug).
		Str("org_id", orgID.String()).
		Msg("Post created")

	return ok("Post created successfully", postSlug)
}

// Update replaces the title, description and content of a post owned by the actor and
// recomputes its slug.
func (s *Service) Update(ctx context.Context, session *models.Session, postID uuid.UUID, in Input) (res Result) {
	ctx, span := s.tracer.Start(ctx, "posts.Update", trace.WithAttributes(attribute.String("post_id", postID.String())))
	defer s.finish(ctx, span, "update", &res)

	if session == nil {
		return fail(CodeUnauthenticated, "You must be logged in to edit a post!")
	}

	if ferr := validateInput(in); ferr != nil {
		return invalid(ferr)
	}

	postSlug := slug.Normalize(in.Title)

	taken, err := s.stores.Posts.SlugTaken(ctx, postSlug, postID)
	if err != nil {
		return s.unexpected(ctx, "update", err, "Failed to edit the post")
	}
	if taken {
		return fail(CodeConflict, "A post with this title already exists!")
	}

	post, err := s.stores.Posts.Get(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			return fail(CodeNotFound, "Post not found")
		}
		return s.unexpected(ctx, "update", err, "Failed to edit the post")
	}

	if err := auth.AuthorizePostMutation(session.UserID, post); err != nil {
		return fail(CodeForbidden, "You can only edit your own post!")
	}

	post.Title = in.Title
	post.Slug = postSlug
	post.Description = in.Description
	post.Content = in.Content
	post.UpdatedAt = s.clock.Now()

	if err := s.stores.Posts.Update(ctx, post); err != nil {
		switch {
		case errors.Is(err, store.ErrPostAlreadyExists):
			return fail(CodeConflict, "A post with this title already exists!")
		case errors.Is(err, store.ErrPostNotFound):
			return fail(CodeNotFound, "Post not found")
		default:
			return s.unexpected(ctx, "update", err, "Failed to edit the post")
		}
	}

	return ok("Post edited successfully", postSlug)
}

// Delete permanently removes a post owned by the actor.
func (s *Service) Delete(ctx context.Context, session *models.Session, postID uuid.UUID) (res Result) {
	ctx, span := s.tracer.Start(ctx, "posts.Delete", trace.WithAttributes(attribute.String("post_id", postID.String())))
	defer s.finish(ctx, span, "delete", &res)

	if session == nil {
		return fail(CodeUnauthenticated, "You must be logged in to delete the post")
	}

	post, err := s.stores.Posts.Get(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			return fail(CodeNotFound, "Post not found")
		}
		return s.unexpected(ctx, "delete", err, "Failed to delete the post")
	}

	if err := auth.AuthorizePostMutation(session.UserID, post); err != nil {
		return fail(CodeForbidden, "You can only delete your own posts!")
	}

	if err := s.stores.Posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			return fail(CodeNotFound, "Post not found")
		}
		return s.unexpected(ctx, "delete", err, "Failed to delete the post")
	}

	zerolog.Ctx(ctx).Info().Str("post_id", postID.String()).Msg("Post deleted")

	return ok("Post deleted successfully", "")
}

// checkMembership verifies the organization exists and the user belongs to it.
func (s *Service) checkMembership(ctx context.Context, userID, orgID uuid.UUID) (Result, bool) {
	if _, err := s.stores.Organizations.Get(ctx, orgID); err != nil {
		if errors.Is(err, store.ErrOrganizationNotFound) {
			return fail(CodeNotFound, "Organization not found"), false
		}
		return s.unexpected(ctx, "create", err, "Failed to create new post"), false
	}

	if _, err := s.stores.Memberships.Get(ctx, orgID, userID); err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return fail(CodeForbidden, "You can only post to organizations you belong to"), false
		}
		return s.unexpected(ctx, "create", err, "Failed to create new post"), false
	}

	return Result{}, true
}

// unexpected logs the internal error and returns a generic failure.
func (s *Service) unexpected(ctx context.Context, op string, err error, message string) Result {
	zerolog.Ctx(ctx).Error().Err(err).Str("op", op).Msg("Post mutation failed")
	trace.SpanFromContext(ctx).RecordError(err)
	return fail(CodeUnexpected, message)
}

func (s *Service) finish(ctx context.Context, span trace.Span, op string, res *Result) {
	span.SetAttributes(attribute.String("code", string(res.Code)))
	span.End()
	s.metrics.RecordPostMutation(ctx, op, string(res.Code))
}

func invalid(ferr *FieldError) Result {
	return Result{Code: CodeValidation, Field: ferr.Field, Message: fmt.Sprintf("Invalid input: %s", ferr.Message)}
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}
