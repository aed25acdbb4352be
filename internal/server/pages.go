package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/tenantpress/internal/models"
	"github.com/wolfeidau/tenantpress/internal/store"
)

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	list, err := s.posts.ListPosts(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to list posts")
		list = []*models.PostWithAuthor{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.GetPostBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.notFoundOrError(w, r, err, "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if session == nil {
		http.Redirect(w, r, s.loginPath, http.StatusTemporaryRedirect)
		return
	}

	list, err := s.posts.ListPostsByAuthor(r.Context(), session.UserID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to list profile posts")
		list = []*models.PostWithAuthor{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) tenantLanding(w http.ResponseWriter, r *http.Request) {
	org, err := s.posts.GetOrganizationBySlug(r.Context(), r.PathValue("tenant"))
	if err != nil {
		s.notFoundOrError(w, r, err, "Organization not found")
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// tenantPost serves a post on its tenant's subdomain. Posts of other tenants are not found.
func (s *Server) tenantPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	org, err := s.posts.GetOrganizationBySlug(ctx, r.PathValue("tenant"))
	if err != nil {
		s.notFoundOrError(w, r, err, "Organization not found")
		return
	}

	post, err := s.posts.GetPostBySlug(ctx, r.PathValue("slug"))
	if err != nil {
		s.notFoundOrError(w, r, err, "Post not found")
		return
	}

	if post.OrgID != org.OrgID {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (s *Server) notFoundOrError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, store.ErrPostNotFound) || errors.Is(err, store.ErrOrganizationNotFound) {
		writeError(w, http.StatusNotFound, message)
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to load page")
	writeError(w, http.StatusInternalServerError, "Something went wrong")
}
