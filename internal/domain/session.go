package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session maps an opaque bearer token to the user that owns it.
type Session struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Token     string    `json:"-" db:"token"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ExpiresAt returns the moment the session stops resolving for the given ttl.
func (s Session) ExpiresAt(ttl time.Duration) time.Time {
	return s.CreatedAt.Add(ttl)
}
