package usecase

import (
	"context"
	"time"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

// PasswordHasher turns passwords into self-describing hash strings and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports a mismatch as false; an error means the stored hash is unreadable.
	Verify(password, encoded string) (bool, error)
}

// AuthUseCase covers registration, sign-in and the session lifecycle.
type AuthUseCase interface {
	// SignUp creates the account and its first session.
	SignUp(ctx context.Context, username, password string) (*domain.User, *domain.Session, error)

	// SignIn checks the credentials and opens a new session.
	// Unknown usernames and wrong passwords both yield domain.ErrInvalidCredentials.
	SignIn(ctx context.Context, username, password string) (*domain.User, *domain.Session, error)

	// ResolveSession returns the owner of a live token or domain.ErrNotFound.
	ResolveSession(ctx context.Context, token string) (*domain.User, error)

	// SignOut revokes the token server-side. Unknown tokens are ignored.
	SignOut(ctx context.Context, token string) error

	// PurgeExpiredSessions deletes sessions older than the TTL.
	PurgeExpiredSessions(ctx context.Context) (int64, error)

	SessionTTL() time.Duration
}
