package api

import (
	v1 "github.com/ahamo-portal/portal/internal/api/v1"
	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/rest/middleware"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health     *v1.HealthHandler
	Plan       *v1.PlanHandler
	Contract   *v1.ContractHandler
	PlanChange *v1.PlanChangeHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, limiter *middleware.RateLimiter, clock types.Clock) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.ErrorHandler(clock),
	)

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers, limiter)

	logger.Infow("registered api routes", "routes", len(router.Routes()))

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers, limiter *middleware.RateLimiter) {
	plans := router.Group("/plans")
	{
		plans.GET("", handlers.Plan.ListPlans)
		plans.GET("/:id", handlers.Plan.GetPlan)
	}

	// raw simulations carry their own contract data and need no subscriber
	planChanges := router.Group("/plan-changes", middleware.SentryScopeMiddleware, limiter.Middleware())
	{
		planChanges.POST("/simulate/raw", handlers.PlanChange.SimulateRaw)
	}

	subscriber := router.Group("", middleware.SubscriberMiddleware, middleware.SentryScopeMiddleware)
	{
		subscriber.GET("/contracts/current", handlers.Contract.GetCurrentContract)

		limited := subscriber.Group("/plan-changes", limiter.Middleware())
		limited.POST("/simulate", handlers.PlanChange.Simulate)
		limited.GET("/options", handlers.PlanChange.ListOptions)
	}
}
