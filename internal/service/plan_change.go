package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ahamo-portal/portal/internal/api/dto"
	"github.com/ahamo-portal/portal/internal/cache"
	"github.com/ahamo-portal/portal/internal/domain/contract"
	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/domain/planchange"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/sentry"
	"github.com/ahamo-portal/portal/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/iter"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type PlanChangeService interface {
	// SimulateForSubscriber previews a change from the subscriber's active contract
	SimulateForSubscriber(ctx context.Context, subscriberID string, req dto.SimulatePlanChangeRequest) (*dto.PlanChangeSimulationResponse, error)
	// Simulate previews a change from caller supplied plan and billing period
	Simulate(ctx context.Context, req dto.SimulateRawPlanChangeRequest) (*dto.PlanChangeSimulationResponse, error)
	// ListChangeOptions simulates a change to every other plan in the catalog
	ListChangeOptions(ctx context.Context, subscriberID string, req dto.ListChangeOptionsRequest) (*dto.ListChangeOptionsResponse, error)
}

type planChangeService struct {
	ServiceParams
	catalogService CatalogService
}

func NewPlanChangeService(params ServiceParams, catalogService CatalogService) PlanChangeService {
	return &planChangeService{
		ServiceParams:  params,
		catalogService: catalogService,
	}
}

func (s *planChangeService) SimulateForSubscriber(ctx context.Context, subscriberID string, req dto.SimulatePlanChangeRequest) (*dto.PlanChangeSimulationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	state, err := loadSubscriberState(ctx, s.ServiceParams, s.catalogService, subscriberID)
	if err != nil {
		return nil, err
	}

	sim, err := s.simulate(ctx, planchange.Request{
		CurrentPlan:   state.currentPlan,
		NewPlanID:     req.NewPlanID,
		EffectiveDate: req.EffectiveDate,
		Policy:        policyInputOf(state.contract),
	}, state.catalog, state.contract.BillingPeriod)
	if err != nil {
		return nil, err
	}

	return &dto.PlanChangeSimulationResponse{Simulation: sim}, nil
}

func (s *planChangeService) Simulate(ctx context.Context, req dto.SimulateRawPlanChangeRequest) (*dto.PlanChangeSimulationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	catalog, err := s.catalogService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	sim, err := s.simulate(ctx, req.ToRequest(), catalog, req.BillingPeriod)
	if err != nil {
		return nil, err
	}

	return &dto.PlanChangeSimulationResponse{Simulation: sim}, nil
}

func (s *planChangeService) ListChangeOptions(ctx context.Context, subscriberID string, req dto.ListChangeOptionsRequest) (*dto.ListChangeOptionsResponse, error) {
	state, err := loadSubscriberState(ctx, s.ServiceParams, s.catalogService, subscriberID)
	if err != nil {
		return nil, err
	}

	targets := lo.Filter(state.catalog.List(), func(p *plan.Plan, _ int) bool {
		return p.PlanID != state.currentPlan.PlanID
	})
	policy := policyInputOf(state.contract)

	mapper := iter.Mapper[*plan.Plan, dto.PlanChangeOption]{
		MaxGoroutines: s.Config.Simulation.OptionsConcurrency,
	}
	options := mapper.Map(targets, func(target **plan.Plan) dto.PlanChangeOption {
		planID := (*target).PlanID

		sim, err := s.simulate(ctx, planchange.Request{
			CurrentPlan:   state.currentPlan,
			NewPlanID:     planID,
			EffectiveDate: req.EffectiveDate,
			Policy:        policy,
		}, state.catalog, state.contract.BillingPeriod)
		if err != nil {
			return dto.PlanChangeOption{
				PlanID: planID,
				Error:  lo.ToPtr(ierr.NewErrorResponse(err, s.Clock())),
			}
		}

		return dto.PlanChangeOption{
			PlanID:     planID,
			Simulation: sim,
		}
	})

	return &dto.ListChangeOptionsResponse{
		CurrentPlanID: state.currentPlan.PlanID,
		Options:       options,
	}, nil
}

// simulate runs the simulator behind the result cache. Only successful
// simulations are cached and a cached one is served only while its
// effective date has not passed.
func (s *planChangeService) simulate(ctx context.Context, req planchange.Request, catalog *plan.Catalog, period contract.BillingPeriod) (*planchange.Simulation, error) {
	now := s.Clock()
	today := s.Simulator.Today(now)
	log := s.Logger.WithContext(ctx)

	key, keyErr := simulationCacheKey(req, catalog, period)
	if keyErr != nil {
		log.Warnw("failed to fingerprint simulation, skipping cache", "error", keyErr)
	} else if value, found := s.Cache.Get(ctx, key); found {
		if sim, ok := value.(*planchange.Simulation); ok && !sim.EffectiveDate.Before(today) {
			log.Debugw("serving cached plan change simulation",
				"new_plan_id", req.NewPlanID,
				"effective_date", sim.EffectiveDate,
			)
			return sim, nil
		}
	}

	currentPlanID := ""
	if req.CurrentPlan != nil {
		currentPlanID = req.CurrentPlan.PlanID
	}

	span, ctx := s.Sentry.StartSimulationSpan(ctx, currentPlanID, req.NewPlanID)
	sim, err := s.Simulator.Simulate(req, catalog, period, now)
	sentry.FinishSpan(span, err)
	if err != nil {
		log.Infow("plan change simulation rejected",
			"current_plan_id", currentPlanID,
			"new_plan_id", req.NewPlanID,
			"code", ierr.CodeFromErr(err),
			"error", err,
		)
		return nil, err
	}

	log.Infow("plan change simulated",
		"current_plan_id", currentPlanID,
		"new_plan_id", req.NewPlanID,
		"effective_date", sim.EffectiveDate,
		"timing", sim.Timing,
		"direction", sim.Direction,
		"price_difference", sim.PriceDifference,
		"first_month_billing", sim.FirstMonthBilling,
	)

	if keyErr == nil {
		s.Cache.Set(ctx, key, sim, s.Config.Cache.TTL)
	}

	return sim, nil
}

func policyInputOf(c *contract.Contract) planchange.PolicyInput {
	return planchange.PolicyInput{
		TenureLocked: c.TenureLockedUntil.IsPresent(),
		LockedUntil:  c.TenureLockedUntil,
		CarryOverGB:  c.Usage.CarryOverGB,
	}
}

type simulationFingerprint struct {
	CurrentPlan     *plan.Plan             `json:"currentPlan"`
	NewPlanID       string                 `json:"newPlanId"`
	EffectiveDate   types.OptionalDate     `json:"effectiveDate"`
	BillingPeriod   contract.BillingPeriod `json:"billingPeriod"`
	Policy          planchange.PolicyInput `json:"policy"`
	CatalogLoadedAt time.Time              `json:"catalogLoadedAt"`
}

func simulationCacheKey(req planchange.Request, catalog *plan.Catalog, period contract.BillingPeriod) (string, error) {
	fp := simulationFingerprint{
		CurrentPlan:   req.CurrentPlan,
		NewPlanID:     req.NewPlanID,
		EffectiveDate: req.EffectiveDate,
		BillingPeriod: period,
		Policy:        req.Policy,
	}
	if catalog != nil {
		fp.CatalogLoadedAt = catalog.LoadedAt()
	}

	raw, err := json.Marshal(fp)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(raw)
	return cache.GenerateKey(cache.PrefixSimulation, hex.EncodeToString(sum[:])), nil
}
