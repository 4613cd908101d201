package testutil

import (
	"context"
	"time"

	"github.com/ahamo-portal/portal/internal/cache"
	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/domain/planchange"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/ahamo-portal/portal/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds the in-memory repositories for testing
type Stores struct {
	PlanRepo     *InMemoryPlanStore
	ContractRepo *InMemoryContractStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	stores    Stores
	logger    *logger.Logger
	config    *config.Configuration
	cache     cache.Cache
	simulator *planchange.Simulator
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}

	loc, err := cfg.Simulation.Location()
	if err != nil {
		s.T().Fatalf("failed to load simulation time zone: %v", err)
	}
	s.simulator = planchange.NewSimulator(planchange.Config{Location: loc})
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
	s.now = Now
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		PlanRepo:     NewInMemoryPlanStore(),
		ContractRepo: NewInMemoryContractStore(),
	}
	s.stores.PlanRepo.Seed(AhamoPlan(), AhamoLargePlan())
	s.stores.ContractRepo.Seed(JuneContract())
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.PlanRepo.Clear()
	s.stores.ContractRepo.Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetCache returns a cache that is emptied before each test
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetSimulator returns a simulator evaluating dates in the configured zone
func (s *BaseServiceTestSuite) GetSimulator() *planchange.Simulator {
	return s.simulator
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// SetNow moves the test clock
func (s *BaseServiceTestSuite) SetNow(now time.Time) {
	s.now = now
}

// GetClock returns a clock that reads the test time, so SetNow takes effect
// on services already built
func (s *BaseServiceTestSuite) GetClock() types.Clock {
	return func() time.Time {
		return s.GetNow()
	}
}
