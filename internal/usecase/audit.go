package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/trezm/brutalist-twitter/internal/core/ports"
	"github.com/trezm/brutalist-twitter/internal/domain"
)

// AuditReport compares a tweet's stored counters with its real child rows.
type AuditReport struct {
	TweetID uuid.UUID
	Stored  domain.EngagementCounts
	Actual  domain.EngagementCounts
}

func (r AuditReport) Drifted() bool {
	return r.Stored != r.Actual
}

// AuditUseCase checks counter consistency. It only reads and reports.
type AuditUseCase interface {
	AuditTweet(ctx context.Context, tweetID uuid.UUID) (*AuditReport, error)
}

type auditUseCase struct {
	tweets  ports.TweetStorage
	auditor ports.CounterAuditor
	logger  *slog.Logger
}

func NewAuditUseCase(tweets ports.TweetStorage, auditor ports.CounterAuditor, logger *slog.Logger) AuditUseCase {
	return &auditUseCase{tweets: tweets, auditor: auditor, logger: logger}
}

func (uc *auditUseCase) AuditTweet(ctx context.Context, tweetID uuid.UUID) (*AuditReport, error) {
	tweet, err := uc.tweets.GetTweetByID(ctx, tweetID)
	if err != nil {
		return nil, fmt.Errorf("usecase: audit %s: %w", tweetID, err)
	}

	actual, err := uc.auditor.CountEngagements(ctx, tweetID)
	if err != nil {
		return nil, fmt.Errorf("usecase: audit %s: %w", tweetID, err)
	}

	report := &AuditReport{
		TweetID: tweetID,
		Stored: domain.EngagementCounts{
			Likes:    tweet.LikeCount,
			Retweets: tweet.RetweetCount,
			Replies:  tweet.ReplyCount,
		},
		Actual: *actual,
	}

	if report.Drifted() {
		uc.logger.Error("counter drift detected",
			"tweet_id", tweetID,
			"stored", report.Stored,
			"actual", report.Actual,
		)
	} else {
		uc.logger.Debug("counters consistent", "tweet_id", tweetID)
	}
	return report, nil
}
