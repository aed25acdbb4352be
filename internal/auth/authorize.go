package auth

import (
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantpress/internal/models"
)

// ErrForbidden is returned when an actor may not mutate a resource.
var ErrForbidden = errors.New("forbidden")

// AuthorizePostMutation checks that actorID authored post.
// It must be called before any write; on ErrForbidden nothing may be written.
func AuthorizePostMutation(actorID uuid.UUID, post *models.Post) error {
	if post == nil || actorID == uuid.Nil || post.AuthorID != actorID {
		return ErrForbidden
	}
	return nil
}
