package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/tenantpress/internal/orgs"
	"github.com/wolfeidau/tenantpress/internal/posts"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type createPostRequest struct {
	posts.Input
	OrganizationID string `json:"organization_id,omitempty"`
}

type createOrganizationRequest struct {
	Name string `json:"name"`
}

type setActiveOrganizationRequest struct {
	OrganizationID string `json:"organization_id"`
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var req createPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	orgID := uuid.Nil
	if req.OrganizationID != "" {
		id, err := uuid.Parse(req.OrganizationID)
		if err != nil {
			writeResult(w, posts.Result{Code: posts.CodeValidation, Field: "organization_id", Message: "Invalid organization id"}, http.StatusCreated)
			return
		}
		orgID = id
	}

	writeResult(w, s.posts.Create(r.Context(), session, orgID, req.Input), http.StatusCreated)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	postID, ok := postIDFromPath(w, r)
	if !ok {
		return
	}

	var in posts.Input
	if !decodeJSON(w, r, &in) {
		return
	}

	writeResult(w, s.posts.Update(r.Context(), session, postID, in), http.StatusOK)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	postID, ok := postIDFromPath(w, r)
	if !ok {
		return
	}

	writeResult(w, s.posts.Delete(r.Context(), session, postID), http.StatusOK)
}

func (s *Server) listOrganizations(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	views, err := s.orgs.ListOrganizations(r.Context(), session)
	if err != nil {
		writeOrgError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) createOrganization(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var req createOrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	org, err := s.orgs.CreateOrganization(r.Context(), session, req.Name)
	if err != nil {
		writeOrgError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, org)
}

func (s *Server) setActiveOrganization(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var req setActiveOrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid organization id")
		return
	}

	if err := s.orgs.SetActiveOrganization(r.Context(), session, orgID); err != nil {
		writeOrgError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"organization_id": orgID.String()})
}

// writeResult answers a post mutation with its Result. Successful results use okStatus,
// failures the status matching their code.
func writeResult(w http.ResponseWriter, res posts.Result, okStatus int) {
	status := resultStatus(res.Code)
	if res.Success {
		status = okStatus
	}
	writeJSON(w, status, res)
}

func resultStatus(code posts.Code) int {
	switch code {
	case posts.CodeOK:
		return http.StatusOK
	case posts.CodeUnauthenticated:
		return http.StatusUnauthorized
	case posts.CodeValidation:
		return http.StatusBadRequest
	case posts.CodeConflict:
		return http.StatusConflict
	case posts.CodeForbidden:
		return http.StatusForbidden
	case posts.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeOrgError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *orgs.ValidationError
	switch orgs.Code(err) {
	case "unauthenticated":
		writeError(w, http.StatusUnauthorized, "You must be logged in")
	case "forbidden":
		writeError(w, http.StatusForbidden, "You are not a member of this organization")
	case "validation":
		errors.As(err, &verr)
		writeError(w, http.StatusBadRequest, verr.Message)
	case "conflict":
		writeError(w, http.StatusConflict, "An organization with this name already exists")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Organization request failed")
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

func postIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeResult(w, posts.Result{Code: posts.CodeNotFound, Message: "Post not found"}, http.StatusOK)
		return uuid.Nil, false
	}
	return postID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
