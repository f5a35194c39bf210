package main

import (
	"context"
	"log/slog"
	"os"

	"passport/config"
	"passport/internal/delivery"
	"passport/internal/delivery/http"
	"passport/internal/delivery/http/middleware"
	"passport/internal/delivery/http/router/handler"
	"passport/internal/delivery/worker"
	"passport/internal/domain/service"
	"passport/internal/infra/auth"
	"passport/internal/infra/auth/facebook"
	"passport/internal/infra/auth/google"
	logs "passport/internal/infra/log"
	"passport/internal/infra/persistence/postgres"
	"passport/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.NewLogger,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewAccountRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			newProviderVerifiers,
		),
	)
}

// newProviderVerifiers builds the external login verifiers. Providers without
// credentials in the config are left out rather than failing startup.
func newProviderVerifiers(cfg *config.Config, logger *slog.Logger) ([]service.ProviderVerifier, error) {
	var verifiers []service.ProviderVerifier

	if cfg.GoogleOAuth != nil && cfg.GoogleOAuth.ClientID != "" {
		verifier, err := google.NewVerifier(cfg)
		if err != nil {
			return nil, err
		}
		verifiers = append(verifiers, verifier)
	} else {
		logger.Warn("Google login disabled: no client ID configured")
	}

	if cfg.FacebookOAuth != nil && cfg.FacebookOAuth.AppID != "" {
		verifier, err := facebook.NewVerifier(cfg)
		if err != nil {
			return nil, err
		}
		verifiers = append(verifiers, verifier)
	} else {
		logger.Warn("Facebook login disabled: no app credentials configured")
	}

	return verifiers, nil
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewAccountService,
			impl.NewSessionService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewLoggerMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewAccountHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				worker.NewSessionCleanupWorker,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
