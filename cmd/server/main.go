package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ahamo-portal/portal/internal/api"
	v1 "github.com/ahamo-portal/portal/internal/api/v1"
	"github.com/ahamo-portal/portal/internal/cache"
	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/httpclient"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/postgres"
	"github.com/ahamo-portal/portal/internal/repository"
	"github.com/ahamo-portal/portal/internal/repository/backend"
	"github.com/ahamo-portal/portal/internal/rest/middleware"
	"github.com/ahamo-portal/portal/internal/sentry"
	"github.com/ahamo-portal/portal/internal/service"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/ahamo-portal/portal/internal/validator"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Initialize Fx application
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,
			cache.NewCache,

			// Postgres
			postgres.NewDB,

			// HTTP Client
			httpclient.NewClient,
			backend.NewClient,

			// Repositories
			repository.NewPlanRepository,
			repository.NewContractRepository,

			// Simulation
			service.NewPlanChangeSimulator,
			service.NewClock,

			middleware.NewRateLimiter,
		),
		sentry.Module(),
		fx.Invoke(postgres.RegisterHooks),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewCatalogService,
			service.NewContractService,
			service.NewPlanChangeService,
		),
	)

	// API layer
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(warmCatalog),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	catalogService service.CatalogService,
	contractService service.ContractService,
	planChangeService service.PlanChangeService,
) api.Handlers {
	return api.Handlers{
		Health:     v1.NewHealthHandler(catalogService, logger),
		Plan:       v1.NewPlanHandler(catalogService, logger),
		Contract:   v1.NewContractHandler(contractService, logger),
		PlanChange: v1.NewPlanChangeHandler(planChangeService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger, limiter *middleware.RateLimiter, clock types.Clock) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger, limiter, clock)
}

// warmCatalog loads the first catalog snapshot on start. A failure is logged
// and retried on the first request.
func warmCatalog(lc fx.Lifecycle, catalogService service.CatalogService, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := catalogService.Refresh(ctx); err != nil {
				log.Warnw("failed to warm plan catalog", "error", err)
			}
			return nil
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeAWSLambdaAPI:
		startAWSLambdaAPI(lc, r, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}

func startAWSLambdaAPI(lc fx.Lifecycle, r *gin.Engine, log *logger.Logger) {
	ginLambda := ginadapter.New(r)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting AWS Lambda API handler...")
			go lambda.Start(ginLambda.ProxyWithContext)
			return nil
		},
	})
}
