package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an author account. Users are provisioned by the external identity service.
type User struct {
	UserID    uuid.UUID `json:"id"` // UUIDv7
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
