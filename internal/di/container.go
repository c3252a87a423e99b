package di

import (
	"context"
	"io"

	"github.com/trezm/brutalist-twitter/internal/app"
	"github.com/trezm/brutalist-twitter/internal/config"
	"github.com/trezm/brutalist-twitter/internal/core/ports"
	"github.com/trezm/brutalist-twitter/internal/credential"
	"github.com/trezm/brutalist-twitter/internal/database/client"
	"github.com/trezm/brutalist-twitter/internal/database/storage"
	"github.com/trezm/brutalist-twitter/internal/logger"
	"github.com/trezm/brutalist-twitter/internal/messaging"
	"github.com/trezm/brutalist-twitter/internal/rabbitmq"
	"github.com/trezm/brutalist-twitter/internal/usecase"
)

// BuildApp loads the configuration and wires every dependency into an App.
func BuildApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	dbClient, err := client.NewClient(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers := []io.Closer{dbClient}

	tx := storage.NewTransactor(dbClient.DB)
	userStorage := storage.NewUserStorage(dbClient.DB, slogger)
	sessionStorage := storage.NewSessionStorage(dbClient.DB, slogger)
	tweetStorage := storage.NewTweetStorage(dbClient.DB, tx, slogger)
	likeStorage := storage.NewLikeStorage(tx, slogger)
	retweetStorage := storage.NewRetweetStorage(tx, slogger)
	followStorage := storage.NewFollowStorage(dbClient.Gorm, slogger)
	counterAudit := storage.NewCounterAudit(dbClient.DB)

	var (
		publisher ports.EngagementPublisher = messaging.NewNopPublisher(slogger)
		consumer  ports.EngagementConsumer
	)
	if cfg.EventsEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			_ = dbClient.Close()
			return nil, err
		}
		publisher = rabbitMQClient
		consumer = rabbitMQClient
		closers = append(closers, rabbitMQClient)
	}

	useCases := app.UseCases{
		Auth: usecase.NewAuthUseCase(
			userStorage,
			sessionStorage,
			credential.NewHasher(credential.DefaultParams),
			cfg.SessionTTL,
			slogger,
		),
		Tweets: usecase.NewTweetUseCase(tweetStorage, likeStorage, retweetStorage, publisher, slogger),
		Graph:  usecase.NewGraphUseCase(userStorage, followStorage, slogger),
		Audit:  usecase.NewAuditUseCase(tweetStorage, counterAudit, slogger),
	}

	slogger.Info("dependencies initialized", "events_enabled", cfg.EventsEnabled())
	return app.NewApp(cfg, slogger, useCases, consumer, closers...), nil
}
