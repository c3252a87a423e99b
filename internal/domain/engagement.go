package domain

import (
	"time"

	"github.com/google/uuid"
)

// Like records that a user liked a tweet. One per (tweet, user).
type Like struct {
	TweetID   uuid.UUID `json:"tweet_id" db:"tweet_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Retweet records that a user retweeted a tweet. One per (tweet, user).
type Retweet struct {
	TweetID   uuid.UUID `json:"tweet_id" db:"tweet_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EngagementKind names a change to one of a tweet's counters.
type EngagementKind string

const (
	EngagementLike      EngagementKind = "like"
	EngagementUnlike    EngagementKind = "unlike"
	EngagementRetweet   EngagementKind = "retweet"
	EngagementUnretweet EngagementKind = "unretweet"
	EngagementReply     EngagementKind = "reply"
)

// EngagementCounts holds the real number of child rows behind a tweet's counters.
type EngagementCounts struct {
	Likes    int64 `db:"likes"`
	Retweets int64 `db:"retweets"`
	Replies  int64 `db:"replies"`
}

// Matches reports whether the stored counters on t agree with c.
func (c EngagementCounts) Matches(t Tweet) bool {
	return c.Likes == t.LikeCount && c.Retweets == t.RetweetCount && c.Replies == t.ReplyCount
}
