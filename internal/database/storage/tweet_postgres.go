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

// defaultBeforeWindow is added to the current time when no cursor is given.
const defaultBeforeWindow = 24 * time.Hour

const tweetColumns = `t.id, t.user_id, t.responding_to, t.content, t.like_count, t.retweet_count, t.reply_count, t.created_at, t.updated_at`

// selectWithViewer takes the viewer id twice; a NULL viewer matches nothing.
const selectWithViewer = `
SELECT ` + tweetColumns + `, u.username,
	EXISTS (SELECT 1 FROM likes l WHERE l.tweet_id = t.id AND l.user_id = ?) AS user_has_liked,
	EXISTS (SELECT 1 FROM retweets r WHERE r.tweet_id = t.id AND r.user_id = ?) AS user_has_retweeted
FROM tweets t
JOIN users u ON u.id = t.user_id
`

// TweetStorage implements ports.TweetStorage on sqlx.
type TweetStorage struct {
	db     *sqlx.DB
	tx     *Transactor
	logger *slog.Logger
	now    func() time.Time
}

func NewTweetStorage(db *sqlx.DB, tx *Transactor, logger *slog.Logger) *TweetStorage {
	return &TweetStorage{db: db, tx: tx, logger: logger, now: now}
}

// CreateTweet inserts a tweet with zeroed counters. For a reply the parent's
// reply_count is bumped in the same transaction; an unknown parent yields
// domain.ErrNotFound and nothing is written.
func (s *TweetStorage) CreateTweet(ctx context.Context, authorID uuid.UUID, parentID *uuid.UUID, content string) (*domain.Tweet, error) {
	start := time.Now()

	ts := s.now()
	tweet := domain.Tweet{
		ID:           uuid.New(),
		UserID:       authorID,
		RespondingTo: parentID,
		Content:      content,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	err := s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if parentID != nil {
			n, err := execOne(ctx, tx, `UPDATE tweets SET reply_count = reply_count + 1 WHERE id = ?`, *parentID)
			if err != nil {
				return fmt.Errorf("increment reply_count: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("parent tweet %s: %w", *parentID, domain.ErrNotFound)
			}
		}

		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO tweets (id, user_id, responding_to, content, like_count, retweet_count, reply_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, 0, 0, 0, ?, ?)`),
			tweet.ID, tweet.UserID, tweet.RespondingTo, tweet.Content, tweet.CreatedAt, tweet.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert tweet: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to create tweet", "user_id", authorID, "responding_to", parentID, "error", err)
		}
		return nil, err
	}

	s.logger.Info("tweet created",
		"tweet_id", tweet.ID,
		"user_id", authorID,
		"reply", tweet.IsReply(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &tweet, nil
}

func (s *TweetStorage) GetTweetByID(ctx context.Context, id uuid.UUID) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := s.db.GetContext(ctx, &tweet, s.db.Rebind(`SELECT `+tweetColumns+` FROM tweets t WHERE t.id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tweet %s: %w", id, domain.ErrNotFound)
		}
		s.logger.Error("failed to select tweet", "tweet_id", id, "error", err)
		return nil, fmt.Errorf("select tweet: %w", err)
	}
	return &tweet, nil
}

// GetTweetWithViewerInfo loads one tweet with its author and the viewer's flags.
func (s *TweetStorage) GetTweetWithViewerInfo(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*domain.TweetWithUserInfo, error) {
	start := time.Now()
	viewer := viewerArg(viewerID)

	var tweet domain.TweetWithUserInfo
	err := s.db.GetContext(ctx, &tweet, s.db.Rebind(selectWithViewer+`WHERE t.id = ?`), viewer, viewer, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tweet %s: %w", id, domain.ErrNotFound)
		}
		s.logger.Error("failed to select tweet with viewer info", "tweet_id", id, "error", err)
		return nil, fmt.Errorf("select tweet with viewer info: %w", err)
	}

	s.logger.Debug("tweet retrieved",
		"tweet_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &tweet, nil
}

// ListRecentWithViewerInfo pages through top-level tweets, newest first.
// Pass the created_at of the last item seen as before to get the next page.
func (s *TweetStorage) ListRecentWithViewerInfo(ctx context.Context, viewerID *uuid.UUID, before *time.Time) ([]domain.TweetWithUserInfo, error) {
	viewer := viewerArg(viewerID)
	return s.list(ctx, "feed",
		selectWithViewer+`WHERE t.responding_to IS NULL AND t.created_at < ?
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ?`,
		viewer, viewer, s.cursor(before), domain.FeedPageSize,
	)
}

// ListRepliesWithViewerInfo pages through the direct replies of parentID, newest first.
func (s *TweetStorage) ListRepliesWithViewerInfo(ctx context.Context, parentID uuid.UUID, viewerID *uuid.UUID, before *time.Time) ([]domain.TweetWithUserInfo, error) {
	viewer := viewerArg(viewerID)
	return s.list(ctx, "replies",
		selectWithViewer+`WHERE t.responding_to = ? AND t.created_at < ?
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ?`,
		viewer, viewer, parentID, s.cursor(before), domain.FeedPageSize,
	)
}

func (s *TweetStorage) list(ctx context.Context, name, query string, args ...any) ([]domain.TweetWithUserInfo, error) {
	start := time.Now()

	tweets := []domain.TweetWithUserInfo{}
	if err := s.db.SelectContext(ctx, &tweets, s.db.Rebind(query), args...); err != nil {
		s.logger.Error("failed to list tweets", "list", name, "error", err)
		return nil, fmt.Errorf("list %s: %w", name, err)
	}

	s.logger.Debug("tweets listed",
		"list", name,
		"count", len(tweets),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tweets, nil
}

func (s *TweetStorage) cursor(before *time.Time) time.Time {
	if before == nil {
		return s.now().Add(defaultBeforeWindow)
	}
	return before.UTC()
}

func viewerArg(viewerID *uuid.UUID) any {
	if viewerID == nil {
		return nil
	}
	return *viewerID
}
