// Package worker hosts background jobs that run alongside the HTTP server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"passport/config"
	"passport/internal/delivery"
	"passport/internal/usecase"

	"go.uber.org/fx"
)

type CleanupParams struct {
	fx.In
	fx.Lifecycle

	Config   *config.Config
	Logger   *slog.Logger
	Sessions usecase.SessionUsecase
}

// sessionCleanupWorker periodically purges refresh-token rows that have aged
// out of the retention window.
type sessionCleanupWorker struct {
	logger   *slog.Logger
	sessions usecase.SessionUsecase
	interval time.Duration
	done     chan struct{}
}

// NewSessionCleanupWorker creates the retention sweep worker.
func NewSessionCleanupWorker(params CleanupParams) (delivery.Delivery, error) {
	worker := &sessionCleanupWorker{
		logger:   params.Logger,
		sessions: params.Sessions,
		interval: params.Config.Auth.CleanupInterval,
		done:     make(chan struct{}),
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			close(worker.done)

			return nil
		},
	})

	return worker, nil
}

// Serve runs the sweep on a fixed interval until the worker is stopped.
func (w *sessionCleanupWorker) Serve(ctx context.Context) error {
	w.logger.Info("Starting session cleanup worker", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case <-ticker.C:
			if _, err := w.sessions.CleanupExpiredSessions(ctx); err != nil {
				w.logger.Error("Session cleanup sweep failed", slog.Any("error", err))
			}
		}
	}
}
