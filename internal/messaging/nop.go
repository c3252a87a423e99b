// Package messaging holds the queue payloads and a publisher for runs without a broker.
package messaging

import (
	"context"
	"log/slog"

	"github.com/trezm/brutalist-twitter/internal/messaging/payloads"
)

// NopPublisher drops events. Used when RABBITMQ_URL is not set.
type NopPublisher struct {
	logger *slog.Logger
}

func NewNopPublisher(logger *slog.Logger) *NopPublisher {
	return &NopPublisher{logger: logger}
}

func (p *NopPublisher) PublishEngagement(_ context.Context, payload payloads.EngagementPayload) error {
	p.logger.Debug("engagement event dropped, no broker configured",
		"kind", payload.Kind,
		"tweet_id", payload.TweetID,
	)
	return nil
}
