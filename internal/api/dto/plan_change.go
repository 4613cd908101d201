package dto

import (
	"github.com/ahamo-portal/portal/internal/domain/contract"
	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/domain/planchange"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/ahamo-portal/portal/internal/validator"
)

// SimulatePlanChangeRequest previews a change from the subscriber's current
// contract. The current plan and billing period are read from the contract.
type SimulatePlanChangeRequest struct {
	NewPlanID     string             `json:"newPlanId" validate:"required,plan_id"`
	EffectiveDate types.OptionalDate `json:"effectiveDate"`
}

func (r *SimulatePlanChangeRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SimulateRawPlanChangeRequest carries the full simulation input for callers
// that already hold the contract data.
type SimulateRawPlanChangeRequest struct {
	CurrentPlan   *plan.Plan              `json:"currentPlan" validate:"required"`
	BillingPeriod contract.BillingPeriod  `json:"billingPeriod"`
	NewPlanID     string                  `json:"newPlanId" validate:"required,plan_id"`
	EffectiveDate types.OptionalDate      `json:"effectiveDate"`
	Policy        *planchange.PolicyInput `json:"policy,omitempty"`
}

func (r *SimulateRawPlanChangeRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.CurrentPlan.Validate(); err != nil {
		return err
	}

	return r.BillingPeriod.Validate()
}

// ToRequest converts the payload into a simulator request
func (r *SimulateRawPlanChangeRequest) ToRequest() planchange.Request {
	req := planchange.Request{
		CurrentPlan:   r.CurrentPlan,
		NewPlanID:     r.NewPlanID,
		EffectiveDate: r.EffectiveDate,
	}
	if r.Policy != nil {
		req.Policy = *r.Policy
	}
	return req
}

type PlanChangeSimulationResponse struct {
	*planchange.Simulation
}

// ListChangeOptionsRequest selects the effective date applied to every option
type ListChangeOptionsRequest struct {
	EffectiveDate types.OptionalDate `form:"effectiveDate"`
}

// PlanChangeOption is the outcome of simulating a change to one catalog plan.
// Exactly one of Simulation and Error is set.
type PlanChangeOption struct {
	PlanID     string                 `json:"planId"`
	Simulation *planchange.Simulation `json:"simulation,omitempty"`
	Error      *ierr.ErrorResponse    `json:"error,omitempty"`
}

type ListChangeOptionsResponse struct {
	CurrentPlanID string             `json:"currentPlanId"`
	Options       []PlanChangeOption `json:"options"`
}
