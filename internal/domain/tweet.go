package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxTweetLength is the upper bound on tweet content, in characters.
	MaxTweetLength = 280
	// FeedPageSize caps every timeline and replies page.
	FeedPageSize = 20
)

// Tweet is a post, or a reply when RespondingTo is set.
// The counters always equal the number of likes, retweets and direct replies.
type Tweet struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	RespondingTo *uuid.UUID `json:"responding_to,omitempty" db:"responding_to"`
	Content      string     `json:"content" db:"content"`
	LikeCount    int64      `json:"like_count" db:"like_count"`
	RetweetCount int64      `json:"retweet_count" db:"retweet_count"`
	ReplyCount   int64      `json:"reply_count" db:"reply_count"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// IsReply reports whether the tweet answers another tweet.
func (t Tweet) IsReply() bool {
	return t.RespondingTo != nil
}

// TweetWithUserInfo is a tweet as seen by a particular viewer.
// Without a viewer both flags are false.
type TweetWithUserInfo struct {
	Tweet
	Username         string `json:"username" db:"username"`
	UserHasLiked     bool   `json:"user_has_liked" db:"user_has_liked"`
	UserHasRetweeted bool   `json:"user_has_retweeted" db:"user_has_retweeted"`
}
