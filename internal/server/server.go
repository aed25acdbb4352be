// Package server exposes the post and organization services over HTTP as JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/tenantpress/internal/auth"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/orgs"
	"github.com/wolfeidau/tenantpress/internal/posts"
)

// PostService is the post surface used by the HTTP handlers.
type PostService interface {
	Create(ctx context.Context, session *models.Session, orgID uuid.UUID, in posts.Input) posts.Result
	Update(ctx context.Context, session *models.Session, postID uuid.UUID, in posts.Input) posts.Result
	Delete(ctx context.Context, session *models.Session, postID uuid.UUID) posts.Result

	ListPosts(ctx context.Context) ([]*models.PostWithAuthor, error)
	ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.PostWithAuthor, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.PostWithAuthor, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (*models.OrganizationWithPosts, error)
}

// OrganizationService is the organization surface used by the HTTP handlers.
type OrganizationService interface {
	CreateOrganization(ctx context.Context, session *models.Session, name string) (*models.Organization, error)
	ListOrganizations(ctx context.Context, session *models.Session) ([]orgs.OrganizationView, error)
	SetActiveOrganization(ctx context.Context, session *models.Session, orgID uuid.UUID) error
}

// Server holds the HTTP handlers.
type Server struct {
	posts     PostService
	orgs      OrganizationService
	sessions  auth.SessionProvider
	loginPath string
}

// NewServer creates the HTTP handlers. Pages that need a valid session redirect to loginPath.
func NewServer(posts PostService, orgs OrganizationService, sessions auth.SessionProvider, loginPath string) *Server {
	return &Server{
		posts:     posts,
		orgs:      orgs,
		sessions:  sessions,
		loginPath: loginPath,
	}
}

// Handler returns the route table. Tenant subdomain requests arrive here already rewritten
// to /s/{tenant}/... by the routing middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.health)

	mux.HandleFunc("GET /{$}", s.listPosts)
	mux.HandleFunc("GET /post/{slug}", s.getPost)
	mux.HandleFunc("GET /profile", s.profile)
	mux.HandleFunc("GET /s/{tenant}", s.tenantLanding)
	mux.HandleFunc("GET /s/{tenant}/{$}", s.tenantLanding)
	mux.HandleFunc("GET /s/{tenant}/post/{slug}", s.tenantPost)

	mux.HandleFunc("POST /api/posts", s.createPost)
	mux.HandleFunc("PUT /api/posts/{id}", s.updatePost)
	mux.HandleFunc("DELETE /api/posts/{id}", s.deletePost)

	mux.HandleFunc("GET /api/organizations", s.listOrganizations)
	mux.HandleFunc("POST /api/organizations", s.createOrganization)
	mux.HandleFunc("POST /api/organizations/active", s.setActiveOrganization)

	return mux
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// session loads the request session. A nil session with a nil error means the caller is
// anonymous; store failures are answered with 500 and ok is false.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (session *models.Session, ok bool) {
	session, err := s.sessions.Session(r)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			return nil, true
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to load session")
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return nil, false
	}
	return session, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
