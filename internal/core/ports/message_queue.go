package ports

import (
	"context"

	"github.com/trezm/brutalist-twitter/internal/messaging/payloads"
)

// EngagementPublisher announces committed counter changes.
// Used by the tweet use case after a like, retweet or reply is stored.
type EngagementPublisher interface {
	PublishEngagement(ctx context.Context, payload payloads.EngagementPayload) error
}

// EngagementConsumer delivers engagement events to the worker.
type EngagementConsumer interface {
	// StartConsumingEngagements returns once the consumer is registered; handler
	// runs for every message until ctx is cancelled.
	StartConsumingEngagements(ctx context.Context, handler func(context.Context, payloads.EngagementPayload) error) error
}
