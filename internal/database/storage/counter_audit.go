package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

// CounterAudit implements ports.CounterAuditor.
type CounterAudit struct {
	db *sqlx.DB
}

func NewCounterAudit(db *sqlx.DB) *CounterAudit {
	return &CounterAudit{db: db}
}

// CountEngagements counts the likes, retweets and direct replies of tweetID.
func (a *CounterAudit) CountEngagements(ctx context.Context, tweetID uuid.UUID) (*domain.EngagementCounts, error) {
	var c domain.EngagementCounts
	err := a.db.GetContext(ctx, &c, a.db.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM likes WHERE tweet_id = ?) AS likes,
			(SELECT COUNT(*) FROM retweets WHERE tweet_id = ?) AS retweets,
			(SELECT COUNT(*) FROM tweets WHERE responding_to = ?) AS replies`),
		tweetID, tweetID, tweetID,
	)
	if err != nil {
		return nil, fmt.Errorf("count engagements for %s: %w", tweetID, err)
	}
	return &c, nil
}
