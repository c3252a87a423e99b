package domain

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge in the social graph.
type Follow struct {
	FollowerID  uuid.UUID `json:"follower_id" gorm:"type:uuid;primaryKey;column:follower_id"`
	FollowingID uuid.UUID `json:"following_id" gorm:"type:uuid;primaryKey;column:following_id"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Follow) TableName() string {
	return "follows"
}

// FollowStats summarises a user's place in the graph.
type FollowStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
