package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ahamo-portal/portal/internal/api/dto"
	"github.com/ahamo-portal/portal/internal/cache"
	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/sentry"
)

// CatalogService serves immutable snapshots of the plan catalog
type CatalogService interface {
	// Snapshot returns the current catalog, loading it when the cached one expired
	Snapshot(ctx context.Context) (*plan.Catalog, error)
	// Refresh reloads the catalog from the plan repository
	Refresh(ctx context.Context) (*plan.Catalog, error)

	ListPlans(ctx context.Context) (*dto.ListPlansResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
}

type catalogService struct {
	ServiceParams

	mu       sync.Mutex
	lastGood atomic.Pointer[plan.Catalog]
	// retryAt holds the unix nanos before which a failed reload is not retried
	retryAt atomic.Int64
}

func NewCatalogService(params ServiceParams) CatalogService {
	return &catalogService{
		ServiceParams: params,
	}
}

func catalogCacheKey() string {
	return cache.GenerateKey(cache.PrefixCatalog, "snapshot")
}

func (s *catalogService) Snapshot(ctx context.Context) (*plan.Catalog, error) {
	if catalog, ok := s.cached(ctx); ok {
		return catalog, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another request may have reloaded while we waited
	if catalog, ok := s.cached(ctx); ok {
		return catalog, nil
	}

	return s.load(ctx)
}

func (s *catalogService) Refresh(ctx context.Context) (*plan.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *catalogService) cached(ctx context.Context) (*plan.Catalog, bool) {
	if value, found := s.Cache.Get(ctx, catalogCacheKey()); found {
		if catalog, ok := value.(*plan.Catalog); ok {
			return catalog, true
		}
	}

	// the cache may be disabled, so fall back to the age of the last snapshot
	if catalog := s.lastGood.Load(); catalog != nil {
		now := s.Clock()
		if now.Sub(catalog.LoadedAt()) < s.Config.Catalog.RefreshInterval {
			return catalog, true
		}
		if now.UnixNano() < s.retryAt.Load() {
			return catalog, true
		}
	}

	return nil, false
}

// load must be called with mu held
func (s *catalogService) load(ctx context.Context) (*plan.Catalog, error) {
	span, spanCtx := s.Sentry.StartRepositorySpan(ctx, "plan.list", nil)
	plans, err := s.PlanRepo.List(spanCtx)
	sentry.FinishSpan(span, err)
	if err != nil {
		return s.fallback(ctx, err, "failed to reload plan catalog, serving previous snapshot")
	}

	catalog, err := plan.NewCatalog(plans, s.Clock())
	if err != nil {
		return s.fallback(ctx, err, "reloaded plan catalog is invalid, serving previous snapshot")
	}

	s.lastGood.Store(catalog)
	s.retryAt.Store(0)
	s.Cache.Set(ctx, catalogCacheKey(), catalog, s.Config.Catalog.RefreshInterval)

	// simulations are keyed by snapshot, older entries can never be hit again
	s.Cache.DeleteByPrefix(ctx, cache.PrefixSimulation)

	s.Logger.Infow("loaded plan catalog",
		"plans", catalog.Len(),
		"loaded_at", catalog.LoadedAt(),
	)

	return catalog, nil
}

// fallback keeps serving the last good snapshot when a reload fails
func (s *catalogService) fallback(ctx context.Context, err error, msg string) (*plan.Catalog, error) {
	stale := s.lastGood.Load()
	if stale == nil {
		return nil, err
	}

	retryAt := s.Clock().Add(s.retryInterval())
	s.retryAt.Store(retryAt.UnixNano())

	s.Logger.Warnw(msg,
		"error", err,
		"loaded_at", stale.LoadedAt(),
		"retry_at", retryAt,
	)
	s.Sentry.CaptureException(ctx, err)
	s.Sentry.AddBreadcrumb("catalog", msg, map[string]interface{}{
		"loaded_at": stale.LoadedAt().String(),
	})
	return stale, nil
}

func (s *catalogService) retryInterval() time.Duration {
	if s.Config.Catalog.RetryInterval > 0 {
		return s.Config.Catalog.RetryInterval
	}
	return s.Config.Catalog.RefreshInterval
}

func (s *catalogService) ListPlans(ctx context.Context) (*dto.ListPlansResponse, error) {
	catalog, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewListPlansResponse(catalog), nil
}

func (s *catalogService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	catalog, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	p, err := catalog.Get(id)
	if err != nil {
		return nil, err
	}
	return dto.NewPlanResponse(p), nil
}
