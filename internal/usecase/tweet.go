package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

// TweetUseCase covers posting, engagement and the read paths of the timeline.
// A nil viewerID is an anonymous reader.
type TweetUseCase interface {
	Post(ctx context.Context, authorID uuid.UUID, content string) (*domain.Tweet, error)
	// Reply fails with domain.ErrNotFound when parentID does not exist.
	Reply(ctx context.Context, authorID, parentID uuid.UUID, content string) (*domain.Tweet, error)

	Like(ctx context.Context, tweetID, userID uuid.UUID) error
	Unlike(ctx context.Context, tweetID, userID uuid.UUID) error
	Retweet(ctx context.Context, tweetID, userID uuid.UUID) error
	Unretweet(ctx context.Context, tweetID, userID uuid.UUID) error

	// Feed returns one page of top-level tweets older than before.
	Feed(ctx context.Context, viewerID *uuid.UUID, before *time.Time) ([]domain.TweetWithUserInfo, error)
	Get(ctx context.Context, tweetID uuid.UUID, viewerID *uuid.UUID) (*domain.TweetWithUserInfo, error)
	// Thread returns a tweet and one page of its direct replies.
	Thread(ctx context.Context, tweetID uuid.UUID, viewerID *uuid.UUID, before *time.Time) (*domain.TweetWithUserInfo, []domain.TweetWithUserInfo, error)
}
