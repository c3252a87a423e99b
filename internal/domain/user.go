package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account, matching the users table.
// Username keeps the casing it was registered with; lookups ignore case.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
