package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

const userColumns = `id, username, password, created_at`

// UserStorage implements ports.UserStorage on sqlx.
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger, now: now}
}

// CreateUser inserts a new account. A username taken in any casing yields domain.ErrConflict.
func (s *UserStorage) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	start := time.Now()

	user := domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}

	n, err := execOne(ctx, s.db,
		`INSERT INTO users (id, username, password, created_at) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to insert user", "username", username, "error", err)
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if n == 0 {
		s.logger.Warn("username already taken", "username", username)
		return nil, fmt.Errorf("insert user %q: %w", username, domain.ErrConflict)
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetUserByUsername matches case-insensitively.
func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER(?)`, username)
}

func (s *UserStorage) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	if err := s.db.GetContext(ctx, &user, s.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %v: %w", arg, domain.ErrNotFound)
		}
		s.logger.Error("failed to select user", "key", arg, "error", err)
		return nil, fmt.Errorf("select user: %w", err)
	}

	s.logger.Debug("user retrieved",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}
