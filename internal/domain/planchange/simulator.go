// Package planchange simulates the financial and scheduling consequences of
// switching a subscriber from one plan to another. Everything here is pure:
// no I/O, no shared state, and the same input always yields the same result.
package planchange

import (
	"time"

	"github.com/ahamo-portal/portal/internal/domain/contract"
	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/domain/proration"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
)

// Config configures a Simulator.
type Config struct {
	// Location is the zone in which "today" is evaluated. Defaults to UTC.
	Location *time.Location
	Policy   PolicyConfig
	// Calculator defaults to the day-based calculator.
	Calculator proration.Calculator
}

// Simulator assembles plan change simulations.
type Simulator struct {
	location   *time.Location
	policy     PolicyConfig
	calculator proration.Calculator
}

func NewSimulator(cfg Config) *Simulator {
	s := &Simulator{
		location:   cfg.Location,
		policy:     cfg.Policy,
		calculator: cfg.Calculator,
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.calculator == nil {
		s.calculator = proration.NewCalculator()
	}
	return s
}

// Today reduces an instant to the calendar date the simulator compares against.
func (s *Simulator) Today(now time.Time) types.Date {
	return types.DateOf(now, s.location)
}

// Simulate previews switching req.CurrentPlan to req.NewPlanID within the
// given billing period. Errors are marked with ErrPlanNotFound, ErrNoOpChange,
// ErrInvalidDate, ErrPolicyViolation or ErrValidation and are never partial.
func (s *Simulator) Simulate(req Request, catalog *plan.Catalog, period contract.BillingPeriod, now time.Time) (*Simulation, error) {
	if req.CurrentPlan == nil {
		return nil, ierr.NewError("current plan is required").
			WithHint("Current plan is required").
			Mark(ierr.ErrValidation)
	}
	if catalog == nil {
		return nil, ierr.NewError("plan catalog is required").
			WithHint("Plan catalog is not available").
			Mark(ierr.ErrSystem)
	}

	newPlan, err := catalog.Get(req.NewPlanID)
	if err != nil {
		return nil, err
	}

	if newPlan.PlanID == req.CurrentPlan.PlanID {
		return nil, ierr.NewErrorf("plan %s is already the current plan", newPlan.PlanID).
			WithHintf("You are already subscribed to %s", newPlan.PlanID).
			WithReportableDetails(map[string]any{
				"plan_id": newPlan.PlanID,
			}).
			Mark(ierr.ErrNoOpChange)
	}

	if err := period.Validate(); err != nil {
		return nil, err
	}

	resolution, err := ResolveEffectiveDate(req.EffectiveDate, period, s.Today(now))
	if err != nil {
		return nil, err
	}

	direction := ClassifyChange(req.CurrentPlan, newPlan)

	notes, err := annotate(policyContext{
		current:    req.CurrentPlan,
		next:       newPlan,
		resolution: resolution,
		direction:  direction,
		input:      req.Policy,
		config:     s.policy,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.calculator.Calculate(proration.Params{
		CurrentFee:    req.CurrentPlan.MonthlyFee,
		NewFee:        newPlan.MonthlyFee,
		PeriodStart:   period.Start,
		PeriodEnd:     period.End,
		EffectiveDate: resolution.Date,
		Timing:        resolution.Timing,
	})
	if err != nil {
		return nil, err
	}

	return &Simulation{
		CurrentPlan:          req.CurrentPlan,
		NewPlan:              newPlan,
		CurrentMonthlyFee:    req.CurrentPlan.MonthlyFee,
		NewMonthlyFee:        newPlan.MonthlyFee,
		PriceDifference:      result.PriceDifference,
		MonthlyFeeDifference: newPlan.MonthlyFee - req.CurrentPlan.MonthlyFee,
		FirstMonthBilling:    result.FirstMonthBilling,
		EffectiveDate:        resolution.Date,
		Notes:                notes,
		Timing:               resolution.Timing,
		Direction:            direction,
	}, nil
}
