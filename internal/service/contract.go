package service

import (
	"context"

	"github.com/ahamo-portal/portal/internal/api/dto"
	"github.com/ahamo-portal/portal/internal/domain/contract"
	"github.com/ahamo-portal/portal/internal/domain/plan"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/sentry"
)

type ContractService interface {
	GetCurrentContract(ctx context.Context, subscriberID string) (*dto.ContractResponse, error)
}

type contractService struct {
	ServiceParams
	catalogService CatalogService
}

func NewContractService(params ServiceParams, catalogService CatalogService) ContractService {
	return &contractService{
		ServiceParams:  params,
		catalogService: catalogService,
	}
}

func (s *contractService) GetCurrentContract(ctx context.Context, subscriberID string) (*dto.ContractResponse, error) {
	state, err := loadSubscriberState(ctx, s.ServiceParams, s.catalogService, subscriberID)
	if err != nil {
		return nil, err
	}

	today := s.Simulator.Today(s.Clock())

	return &dto.ContractResponse{
		Contract:     state.contract,
		Plan:         state.currentPlan,
		UsageSummary: state.contract.Usage.Summarize(state.currentPlan.DataCapacity),
		TenureLocked: state.contract.IsTenureLocked(today),
	}, nil
}

// subscriberState is everything a subscriber-scoped request reads before
// simulating: the active contract, its plan and the catalog snapshot both
// were resolved against.
type subscriberState struct {
	contract    *contract.Contract
	catalog     *plan.Catalog
	currentPlan *plan.Plan
}

func loadSubscriberState(ctx context.Context, params ServiceParams, catalogService CatalogService, subscriberID string) (*subscriberState, error) {
	if subscriberID == "" {
		return nil, ierr.NewError("subscriber id is required").
			WithHint("Subscriber ID is required").
			Mark(ierr.ErrValidation)
	}

	span, spanCtx := params.Sentry.StartRepositorySpan(ctx, "contract.get_current", map[string]interface{}{
		"subscriber_id": subscriberID,
	})
	c, err := params.ContractRepo.GetCurrentBySubscriber(spanCtx, subscriberID)
	sentry.FinishSpan(span, err)
	if err != nil {
		return nil, err
	}

	catalog, err := catalogService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	currentPlan, err := catalog.Get(c.PlanID)
	if err != nil {
		return nil, ierr.NewErrorf("current plan %s of contract %s not found in catalog", c.PlanID, c.ContractID).
			WithHintf("Your current plan %s is no longer in the catalog", c.PlanID).
			WithReportableDetails(map[string]any{
				"subscriber_id": subscriberID,
				"contract_id":   c.ContractID,
				"plan_id":       c.PlanID,
			}).
			Mark(ierr.ErrPlanNotFound)
	}

	return &subscriberState{
		contract:    c,
		catalog:     catalog,
		currentPlan: currentPlan,
	}, nil
}
