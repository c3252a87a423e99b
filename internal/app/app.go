package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/trezm/brutalist-twitter/internal/config"
	"github.com/trezm/brutalist-twitter/internal/core/ports"
	"github.com/trezm/brutalist-twitter/internal/usecase"
)

const (
	ModeServer = "server"
	ModeWorker = "worker"
)

// UseCases groups the business operations the app serves.
type UseCases struct {
	Auth   usecase.AuthUseCase
	Tweets usecase.TweetUseCase
	Graph  usecase.GraphUseCase
	Audit  usecase.AuditUseCase
}

type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	useCases UseCases
	// consumer is nil when no broker is configured.
	consumer ports.EngagementConsumer
	// closers are released in reverse order on shutdown.
	closers []io.Closer
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	useCases UseCases,
	consumer ports.EngagementConsumer,
	closers ...io.Closer,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		useCases: useCases,
		consumer: consumer,
		closers:  closers,
	}
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run serves the given mode until SIGINT or SIGTERM, then releases resources.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = a.runServer(ctx)
	case ModeWorker:
		err = a.runWorker(ctx)
	default:
		err = fmt.Errorf("unknown mode %q (use %q or %q)", mode, ModeServer, ModeWorker)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
		err = errors.Join(err, closeErr)
	}
	return err
}

// Shutdown closes every resource the app holds.
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
