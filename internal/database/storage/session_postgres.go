package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

// maxTokenAttempts bounds regeneration after a token collision.
const maxTokenAttempts = 3

// SessionStorage implements ports.SessionStorage on sqlx.
type SessionStorage struct {
	db       *sqlx.DB
	logger   *slog.Logger
	now      func() time.Time
	newToken func() string
}

func NewSessionStorage(db *sqlx.DB, logger *slog.Logger) *SessionStorage {
	return &SessionStorage{db: db, logger: logger, now: now, newToken: newSessionToken}
}

// newSessionToken is the hex sha256 digest of 128 random bits.
func newSessionToken() string {
	id := uuid.New()
	sum := sha256.Sum256(id[:])
	return hex.EncodeToString(sum[:])
}

// CreateSession stores a fresh token for userID. The token column is unique;
// a collision is retried with a new token before giving up with domain.ErrConflict.
func (s *SessionStorage) CreateSession(ctx context.Context, userID uuid.UUID) (*domain.Session, error) {
	start := time.Now()

	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		session := domain.Session{
			ID:        uuid.New(),
			Token:     s.newToken(),
			UserID:    userID,
			CreatedAt: s.now(),
		}

		n, err := execOne(ctx, s.db,
			`INSERT INTO sessions (id, token, user_id, created_at) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			session.ID, session.Token, session.UserID, session.CreatedAt,
		)
		if err != nil {
			s.logger.Error("failed to insert session", "user_id", userID, "error", err)
			return nil, fmt.Errorf("insert session: %w", err)
		}
		if n == 1 {
			s.logger.Info("session created",
				"user_id", userID,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return &session, nil
		}

		s.logger.Warn("session token collision", "user_id", userID, "attempt", attempt)
	}

	return nil, fmt.Errorf("insert session after %d attempts: %w", maxTokenAttempts, domain.ErrConflict)
}

// GetSessionByToken returns the session for token if it was created after notBefore.
func (s *SessionStorage) GetSessionByToken(ctx context.Context, token string, notBefore time.Time) (*domain.Session, error) {
	var session domain.Session
	err := s.db.GetContext(ctx, &session, s.db.Rebind(
		`SELECT id, token, user_id, created_at FROM sessions WHERE token = ? AND created_at > ?`),
		token, notBefore,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", domain.ErrNotFound)
		}
		s.logger.Error("failed to select session", "error", err)
		return nil, fmt.Errorf("select session: %w", err)
	}
	return &session, nil
}

// DeleteSession revokes a token server-side.
func (s *SessionStorage) DeleteSession(ctx context.Context, token string) error {
	n, err := execOne(ctx, s.db, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		s.logger.Error("failed to delete session", "error", err)
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session: %w", domain.ErrNotFound)
	}
	return nil
}

// DeleteSessionsBefore purges sessions created at or before cutoff.
func (s *SessionStorage) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()

	n, err := execOne(ctx, s.db, `DELETE FROM sessions WHERE created_at <= ?`, cutoff)
	if err != nil {
		s.logger.Error("failed to purge sessions", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("purge sessions: %w", err)
	}

	s.logger.Info("expired sessions purged",
		"deleted", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return n, nil
}
