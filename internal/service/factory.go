package service

import (
	"github.com/ahamo-portal/portal/internal/cache"
	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/domain/contract"
	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/domain/planchange"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/sentry"
	"github.com/ahamo-portal/portal/internal/types"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache
	Sentry *sentry.Service

	// Repositories
	PlanRepo     plan.Repository
	ContractRepo contract.Repository

	Simulator *planchange.Simulator
	Clock     types.Clock
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	sentry *sentry.Service,
	planRepo plan.Repository,
	contractRepo contract.Repository,
	simulator *planchange.Simulator,
	clock types.Clock,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		Cache:        cache,
		Sentry:       sentry,
		PlanRepo:     planRepo,
		ContractRepo: contractRepo,
		Simulator:    simulator,
		Clock:        clock,
	}
}

// NewPlanChangeSimulator builds the simulator from the simulation config
func NewPlanChangeSimulator(cfg *config.Configuration) (*planchange.Simulator, error) {
	loc, err := cfg.Simulation.Location()
	if err != nil {
		return nil, err
	}

	return planchange.NewSimulator(planchange.Config{
		Location: loc,
		Policy: planchange.PolicyConfig{
			AllowMidCycleDowngradeBelowCarryOver: cfg.Simulation.AllowMidCycleDowngradeBelowCarryOver,
		},
	}), nil
}

// NewClock provides the wall clock
func NewClock() types.Clock {
	return types.SystemClock
}
