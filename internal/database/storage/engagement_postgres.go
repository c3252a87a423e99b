package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

// engagementStore is shared by likes and retweets: a join table keyed by
// (tweet_id, user_id) plus the counter column on tweets that mirrors it.
type engagementStore struct {
	table   string
	counter string
	tx      *Transactor
	logger  *slog.Logger
	now     func() time.Time
}

// create bumps the counter and inserts the join row in one transaction.
// The counter update runs first so that an unknown tweet is reported as
// domain.ErrNotFound; a duplicate row rolls the bump back with domain.ErrConflict.
func (e *engagementStore) create(ctx context.Context, tweetID, userID uuid.UUID) (time.Time, error) {
	start := time.Now()
	createdAt := e.now()

	err := e.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		n, err := execOne(ctx, tx,
			`UPDATE tweets SET `+e.counter+` = `+e.counter+` + 1 WHERE id = ?`, tweetID)
		if err != nil {
			return fmt.Errorf("increment %s: %w", e.counter, err)
		}
		if n == 0 {
			return fmt.Errorf("tweet %s: %w", tweetID, domain.ErrNotFound)
		}

		n, err = execOne(ctx, tx,
			`INSERT INTO `+e.table+` (tweet_id, user_id, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
			tweetID, userID, createdAt)
		if err != nil {
			return fmt.Errorf("insert %s: %w", e.table, err)
		}
		if n == 0 {
			return fmt.Errorf("%s for tweet %s: %w", e.table, tweetID, domain.ErrConflict)
		}
		return nil
	})
	if err != nil {
		e.logger.Warn("engagement not created", "table", e.table, "tweet_id", tweetID, "user_id", userID, "error", err)
		return time.Time{}, err
	}

	e.logger.Info("engagement created",
		"table", e.table,
		"tweet_id", tweetID,
		"user_id", userID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return createdAt, nil
}

// delete removes the join row and decrements the counter; both commit or neither does.
func (e *engagementStore) delete(ctx context.Context, tweetID, userID uuid.UUID) error {
	start := time.Now()

	err := e.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		n, err := execOne(ctx, tx,
			`DELETE FROM `+e.table+` WHERE tweet_id = ? AND user_id = ?`, tweetID, userID)
		if err != nil {
			return fmt.Errorf("delete %s: %w", e.table, err)
		}
		if n == 0 {
			return fmt.Errorf("%s for tweet %s: %w", e.table, tweetID, domain.ErrNotFound)
		}

		if _, err := execOne(ctx, tx,
			`UPDATE tweets SET `+e.counter+` = `+e.counter+` - 1 WHERE id = ?`, tweetID); err != nil {
			return fmt.Errorf("decrement %s: %w", e.counter, err)
		}
		return nil
	})
	if err != nil {
		e.logger.Warn("engagement not deleted", "table", e.table, "tweet_id", tweetID, "user_id", userID, "error", err)
		return err
	}

	e.logger.Info("engagement deleted",
		"table", e.table,
		"tweet_id", tweetID,
		"user_id", userID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// LikeStorage implements ports.LikeStorage.
type LikeStorage struct {
	store engagementStore
}

func NewLikeStorage(tx *Transactor, logger *slog.Logger) *LikeStorage {
	return &LikeStorage{store: engagementStore{table: "likes", counter: "like_count", tx: tx, logger: logger, now: now}}
}

func (s *LikeStorage) CreateLike(ctx context.Context, tweetID, userID uuid.UUID) (*domain.Like, error) {
	createdAt, err := s.store.create(ctx, tweetID, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Like{TweetID: tweetID, UserID: userID, CreatedAt: createdAt}, nil
}

func (s *LikeStorage) DeleteLike(ctx context.Context, tweetID, userID uuid.UUID) error {
	return s.store.delete(ctx, tweetID, userID)
}

// RetweetStorage implements ports.RetweetStorage.
type RetweetStorage struct {
	store engagementStore
}

func NewRetweetStorage(tx *Transactor, logger *slog.Logger) *RetweetStorage {
	return &RetweetStorage{store: engagementStore{table: "retweets", counter: "retweet_count", tx: tx, logger: logger, now: now}}
}

func (s *RetweetStorage) CreateRetweet(ctx context.Context, tweetID, userID uuid.UUID) (*domain.Retweet, error) {
	createdAt, err := s.store.create(ctx, tweetID, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Retweet{TweetID: tweetID, UserID: userID, CreatedAt: createdAt}, nil
}

func (s *RetweetStorage) DeleteRetweet(ctx context.Context, tweetID, userID uuid.UUID) error {
	return s.store.delete(ctx, tweetID, userID)
}
