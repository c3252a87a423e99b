package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/trezm/brutalist-twitter/internal/core/ports"
	"github.com/trezm/brutalist-twitter/internal/domain"
	"github.com/trezm/brutalist-twitter/internal/messaging/payloads"
)

// tweetUseCase implements TweetUseCase
type tweetUseCase struct {
	tweets    ports.TweetStorage
	likes     ports.LikeStorage
	retweets  ports.RetweetStorage
	publisher ports.EngagementPublisher
	logger    *slog.Logger
}

func NewTweetUseCase(
	tweets ports.TweetStorage,
	likes ports.LikeStorage,
	retweets ports.RetweetStorage,
	publisher ports.EngagementPublisher,
	logger *slog.Logger,
) TweetUseCase {
	return &tweetUseCase{
		tweets:    tweets,
		likes:     likes,
		retweets:  retweets,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *tweetUseCase) Post(ctx context.Context, authorID uuid.UUID, content string) (*domain.Tweet, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	tweet, err := uc.tweets.CreateTweet(ctx, authorID, nil, content)
	if err != nil {
		return nil, fmt.Errorf("usecase: post tweet: %w", err)
	}
	return tweet, nil
}

func (uc *tweetUseCase) Reply(ctx context.Context, authorID, parentID uuid.UUID, content string) (*domain.Tweet, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	tweet, err := uc.tweets.CreateTweet(ctx, authorID, &parentID, content)
	if err != nil {
		return nil, fmt.Errorf("usecase: reply to %s: %w", parentID, err)
	}

	uc.publish(ctx, domain.EngagementReply, parentID, authorID)
	return tweet, nil
}

func (uc *tweetUseCase) Like(ctx context.Context, tweetID, userID uuid.UUID) error {
	if _, err := uc.likes.CreateLike(ctx, tweetID, userID); err != nil {
		return fmt.Errorf("usecase: like %s: %w", tweetID, err)
	}
	uc.publish(ctx, domain.EngagementLike, tweetID, userID)
	return nil
}

func (uc *tweetUseCase) Unlike(ctx context.Context, tweetID, userID uuid.UUID) error {
	if err := uc.likes.DeleteLike(ctx, tweetID, userID); err != nil {
		return fmt.Errorf("usecase: unlike %s: %w", tweetID, err)
	}
	uc.publish(ctx, domain.EngagementUnlike, tweetID, userID)
	return nil
}

func (uc *tweetUseCase) Retweet(ctx context.Context, tweetID, userID uuid.UUID) error {
	if _, err := uc.retweets.CreateRetweet(ctx, tweetID, userID); err != nil {
		return fmt.Errorf("usecase: retweet %s: %w", tweetID, err)
	}
	uc.publish(ctx, domain.EngagementRetweet, tweetID, userID)
	return nil
}

func (uc *tweetUseCase) Unretweet(ctx context.Context, tweetID, userID uuid.UUID) error {
	if err := uc.retweets.DeleteRetweet(ctx, tweetID, userID); err != nil {
		return fmt.Errorf("usecase: unretweet %s: %w", tweetID, err)
	}
	uc.publish(ctx, domain.EngagementUnretweet, tweetID, userID)
	return nil
}

func (uc *tweetUseCase) Feed(ctx context.Context, viewerID *uuid.UUID, before *time.Time) ([]domain.TweetWithUserInfo, error) {
	feed, err := uc.tweets.ListRecentWithViewerInfo(ctx, viewerID, before)
	if err != nil {
		return nil, fmt.Errorf("usecase: load feed: %w", err)
	}
	return feed, nil
}

func (uc *tweetUseCase) Get(ctx context.Context, tweetID uuid.UUID, viewerID *uuid.UUID) (*domain.TweetWithUserInfo, error) {
	tweet, err := uc.tweets.GetTweetWithViewerInfo(ctx, tweetID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("usecase: load tweet %s: %w", tweetID, err)
	}
	return tweet, nil
}

func (uc *tweetUseCase) Thread(ctx context.Context, tweetID uuid.UUID, viewerID *uuid.UUID, before *time.Time) (*domain.TweetWithUserInfo, []domain.TweetWithUserInfo, error) {
	tweet, err := uc.Get(ctx, tweetID, viewerID)
	if err != nil {
		return nil, nil, err
	}

	replies, err := uc.tweets.ListRepliesWithViewerInfo(ctx, tweetID, viewerID, before)
	if err != nil {
		return nil, nil, fmt.Errorf("usecase: load replies of %s: %w", tweetID, err)
	}
	return tweet, replies, nil
}

// publish announces a committed change. Failures are logged, never returned.
func (uc *tweetUseCase) publish(ctx context.Context, kind domain.EngagementKind, tweetID, userID uuid.UUID) {
	payload := payloads.EngagementPayload{
		Kind:       kind,
		TweetID:    tweetID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
	if err := uc.publisher.PublishEngagement(context.WithoutCancel(ctx), payload); err != nil {
		uc.logger.Warn("failed to publish engagement event", "kind", kind, "tweet_id", tweetID, "error", err)
	}
}

// normalizeContent trims surrounding whitespace and enforces 1..280 characters.
func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	n := utf8.RuneCountInString(content)
	if n == 0 || n > domain.MaxTweetLength {
		return "", fmt.Errorf("tweet must be 1 to %d characters: %w", domain.MaxTweetLength, domain.ErrInvalidInput)
	}
	return content, nil
}
