package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trezm/brutalist-twitter/internal/domain"
	"github.com/trezm/brutalist-twitter/internal/messaging/payloads"
	"github.com/trezm/brutalist-twitter/internal/usecase"
)

// runWorker audits tweets named by engagement events and purges expired
// sessions on a ticker until ctx is done.
func (a *App) runWorker(ctx context.Context) error {
	if a.consumer != nil {
		if err := a.consumer.StartConsumingEngagements(ctx, auditEngagement(a.useCases.Audit, a.logger)); err != nil {
			return fmt.Errorf("start engagement consumer: %w", err)
		}
	} else {
		a.logger.Warn("no broker configured, worker only purges sessions")
	}

	purgeSessions(ctx, a.useCases.Auth, a.cfg.SessionPurgeInterval, a.logger)

	a.logger.Info("worker stopped")
	return nil
}

// auditEngagement builds the queue handler. Events for tweets that no longer
// exist are acknowledged; any other failure is handed back for redelivery.
func auditEngagement(audit usecase.AuditUseCase, logger *slog.Logger) func(context.Context, payloads.EngagementPayload) error {
	return func(ctx context.Context, payload payloads.EngagementPayload) error {
		report, err := audit.AuditTweet(ctx, payload.TweetID)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("engagement for missing tweet", "kind", payload.Kind, "tweet_id", payload.TweetID)
			return nil
		}
		if err != nil {
			return err
		}

		logger.Debug("tweet audited",
			"kind", payload.Kind,
			"tweet_id", payload.TweetID,
			"drifted", report.Drifted(),
		)
		return nil
	}
}

// purgeSessions deletes expired sessions once immediately and then every
// interval. It returns when ctx is done.
func purgeSessions(ctx context.Context, auth usecase.AuthUseCase, interval time.Duration, logger *slog.Logger) {
	purge := func() {
		n, err := auth.PurgeExpiredSessions(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("session purge failed", "error", err)
			}
			return
		}
		if n > 0 {
			logger.Info("expired sessions purged", "count", n)
		}
	}

	purge()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purge()
		}
	}
}
