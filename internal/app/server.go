package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/trezm/brutalist-twitter/internal/database/migrations"
	"github.com/trezm/brutalist-twitter/internal/handler"
)

// runServer migrates the schema and serves HTTP until ctx is done.
func (a *App) runServer(ctx context.Context) error {
	if err := migrations.Up(a.cfg.DatabaseURL, a.logger); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	h := handler.NewHandler(a.useCases.Auth, a.useCases.Tweets, a.useCases.Graph, a.cfg.SecureCookies, a.logger)
	router := handler.NewRouter(h, a.logger, handler.RouterOptions{
		RequestTimeout:     a.cfg.RequestTimeout,
		CORSAllowedOrigins: a.cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              a.cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: a.cfg.RequestTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down http server", "timeout", a.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("http server stopped")
	return nil
}
