package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

// EngagementPayload is the JSON body of a message on the engagement queue.
type EngagementPayload struct {
	Kind       domain.EngagementKind `json:"kind"`
	TweetID    uuid.UUID             `json:"tweet_id"`
	UserID     uuid.UUID             `json:"user_id"`
	OccurredAt time.Time             `json:"occurred_at"`
}
