package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

// UserStorage persists accounts. Usernames are unique ignoring case.
type UserStorage interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// SessionStorage maps bearer tokens to users.
type SessionStorage interface {
	CreateSession(ctx context.Context, userID uuid.UUID) (*domain.Session, error)
	// GetSessionByToken only returns sessions created after notBefore.
	GetSessionByToken(ctx context.Context, token string, notBefore time.Time) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TweetStorage persists tweets and serves the viewer-aware read queries.
// A nil viewerID means an anonymous viewer; a nil before means "now".
type TweetStorage interface {
	CreateTweet(ctx context.Context, authorID uuid.UUID, parentID *uuid.UUID, content string) (*domain.Tweet, error)
	GetTweetByID(ctx context.Context, id uuid.UUID) (*domain.Tweet, error)
	GetTweetWithViewerInfo(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*domain.TweetWithUserInfo, error)
	ListRecentWithViewerInfo(ctx context.Context, viewerID *uuid.UUID, before *time.Time) ([]domain.TweetWithUserInfo, error)
	ListRepliesWithViewerInfo(ctx context.Context, parentID uuid.UUID, viewerID *uuid.UUID, before *time.Time) ([]domain.TweetWithUserInfo, error)
}

// LikeStorage keeps likes and tweets.like_count in step.
type LikeStorage interface {
	CreateLike(ctx context.Context, tweetID, userID uuid.UUID) (*domain.Like, error)
	DeleteLike(ctx context.Context, tweetID, userID uuid.UUID) error
}

// RetweetStorage keeps retweets and tweets.retweet_count in step.
type RetweetStorage interface {
	CreateRetweet(ctx context.Context, tweetID, userID uuid.UUID) (*domain.Retweet, error)
	DeleteRetweet(ctx context.Context, tweetID, userID uuid.UUID) error
}

// FollowStorage persists the social graph.
type FollowStorage interface {
	CreateFollow(ctx context.Context, followerID, followingID uuid.UUID) (*domain.Follow, error)
	DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
}

// CounterAuditor counts the child rows behind a tweet's denormalised counters.
type CounterAuditor interface {
	CountEngagements(ctx context.Context, tweetID uuid.UUID) (*domain.EngagementCounts, error)
}
