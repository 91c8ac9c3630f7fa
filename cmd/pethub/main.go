package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"pethub/config"
	"pethub/internal/delivery"
	"pethub/internal/delivery/http"
	"pethub/internal/delivery/http/middleware"
	"pethub/internal/delivery/http/router/handler"
	"pethub/internal/domain/service"
	"pethub/internal/infra/identity/firebase"
	logs "pethub/internal/infra/log"
	"pethub/internal/infra/persistence/postgres"
	"pethub/internal/infra/ratelimit"
	"pethub/internal/usecase/impl"

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
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewRoleRequestRepository,
			postgres.NewVetProfileRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newIdentityClient,
			newIdentityVerifier,
			newClaimsChannel,
			ratelimit.NewRedisLimiter,
		),
	)
}

// newIdentityClient creates the identity provider client shared by the
// verifier and the claims channel.
func newIdentityClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*firebase.Client, error) {
	client, err := firebase.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity client: %w", err)
	}

	return client, nil
}

func newIdentityVerifier(client *firebase.Client) service.IdentityVerifier {
	return client
}

func newClaimsChannel(client *firebase.Client) service.ClaimsChannel {
	return client
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewRoleService,
			impl.NewAccountService,
			impl.NewClaimsSyncService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
			middleware.NewRateLimitMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewAdminHandler,
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
