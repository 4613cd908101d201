package repository

import (
	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/domain/contract"
	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/postgres"
	backendRepo "github.com/ahamo-portal/portal/internal/repository/backend"
	postgresRepo "github.com/ahamo-portal/portal/internal/repository/postgres"
	"github.com/ahamo-portal/portal/internal/types"
	"go.uber.org/fx"
)

// RepositoryParams holds both data sources; the configured catalog source
// decides which one backs the repositories.
type RepositoryParams struct {
	fx.In

	Config  *config.Configuration
	Logger  *logger.Logger
	DB      *postgres.DB
	Backend *backendRepo.Client
}

func NewPlanRepository(p RepositoryParams) plan.Repository {
	if p.Config.Catalog.Source == types.CatalogSourceBackend {
		return backendRepo.NewPlanRepository(p.Backend, p.Logger)
	}
	return postgresRepo.NewPlanRepository(p.DB, p.Logger)
}

func NewContractRepository(p RepositoryParams) contract.Repository {
	if p.Config.Catalog.Source == types.CatalogSourceBackend {
		return backendRepo.NewContractRepository(p.Backend, p.Logger)
	}
	return postgresRepo.NewContractRepository(p.DB, p.Logger)
}
