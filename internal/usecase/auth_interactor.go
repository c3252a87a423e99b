package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/trezm/brutalist-twitter/internal/core/ports"
	"github.com/trezm/brutalist-twitter/internal/domain"
)

const (
	maxUsernameLength = 32
	maxPasswordBytes  = 1024
)

// authUseCase implements AuthUseCase
type authUseCase struct {
	users    ports.UserStorage
	sessions ports.SessionStorage
	hasher   PasswordHasher
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewAuthUseCase(
	users ports.UserStorage,
	sessions ports.SessionStorage,
	hasher PasswordHasher,
	ttl time.Duration,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func (uc *authUseCase) SignUp(ctx context.Context, username, password string) (*domain.User, *domain.Session, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, nil, err
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("usecase: hash password: %w", err)
	}

	user, err := uc.users.CreateUser(ctx, username, hash)
	if err != nil {
		return nil, nil, fmt.Errorf("usecase: sign up %q: %w", username, err)
	}

	session, err := uc.sessions.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("usecase: open session for %s: %w", user.ID, err)
	}

	uc.logger.Info("user signed up", "user_id", user.ID)
	return user, session, nil
}

func (uc *authUseCase) SignIn(ctx context.Context, username, password string) (*domain.User, *domain.Session, error) {
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := uc.users.GetUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		uc.logger.Warn("sign in for unknown username", "username", username)
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("usecase: look up %q: %w", username, err)
	}

	ok, err := uc.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("usecase: verify password for %s: %w", user.ID, err)
	}
	if !ok {
		uc.logger.Warn("sign in with wrong password", "user_id", user.ID)
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := uc.sessions.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("usecase: open session for %s: %w", user.ID, err)
	}

	uc.logger.Info("user signed in", "user_id", user.ID)
	return user, session, nil
}

func (uc *authUseCase) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}

	session, err := uc.sessions.GetSessionByToken(ctx, token, uc.now().Add(-uc.ttl))
	if err != nil {
		return nil, err
	}

	user, err := uc.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *authUseCase) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := uc.sessions.DeleteSession(ctx, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("usecase: revoke session: %w", err)
	}
	return nil
}

func (uc *authUseCase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := uc.sessions.DeleteSessionsBefore(ctx, uc.now().Add(-uc.ttl))
	if err != nil {
		return 0, fmt.Errorf("usecase: purge sessions: %w", err)
	}
	return n, nil
}

func (uc *authUseCase) SessionTTL() time.Duration {
	return uc.ttl
}

func validateCredentials(username, password string) error {
	n := utf8.RuneCountInString(username)
	if n == 0 || n > maxUsernameLength {
		return fmt.Errorf("username must be 1 to %d characters: %w", maxUsernameLength, domain.ErrInvalidInput)
	}
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return fmt.Errorf("username must not contain spaces: %w", domain.ErrInvalidInput)
	}
	if password == "" || len(password) > maxPasswordBytes {
		return fmt.Errorf("password must be 1 to %d bytes: %w", maxPasswordBytes, domain.ErrInvalidInput)
	}
	return nil
}
