// Package proration computes the first-cycle billing impact of a plan change.
package proration

import (
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/shopspring/decimal"
)

// Params holds all necessary input for calculating proration.
type Params struct {
	CurrentFee    int64              // Monthly fee of the current plan
	NewFee        int64              // Monthly fee of the target plan
	PeriodStart   types.Date         // Start of the current billing period (inclusive)
	PeriodEnd     types.Date         // End of the current billing period (exclusive)
	EffectiveDate types.Date         // Date the new plan takes effect
	Timing        types.ChangeTiming // Whether the change lands inside the period
}

// Result holds the output of a proration calculation.
type Result struct {
	// PriceDifference is the prorated amount charged (positive) or refunded
	// (negative) for the remainder of the current period.
	PriceDifference int64
	// FirstMonthBilling is the total billed for the first affected cycle.
	FirstMonthBilling int64
	DaysTotal         int
	DaysRemaining     int
	// Coefficient is DaysRemaining / DaysTotal, zero for cycle-aligned changes.
	Coefficient decimal.Decimal
}

// Calculator performs proration calculations.
type Calculator interface {
	Calculate(params Params) (*Result, error)
}

// NewCalculator returns the day-based calculator.
func NewCalculator() Calculator {
	return &dayBasedCalculator{}
}

// dayBasedCalculator prorates by whole calendar days.
type dayBasedCalculator struct{}

func (c *dayBasedCalculator) Calculate(params Params) (*Result, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	delta := params.NewFee - params.CurrentFee

	if !params.Timing.IsMidCycle() {
		return &Result{
			PriceDifference:   delta,
			FirstMonthBilling: params.NewFee,
			Coefficient:       decimal.Zero,
		}, nil
	}

	// inclusive start, exclusive end
	totalDays := params.PeriodStart.DaysUntil(params.PeriodEnd)
	remainingDays := params.EffectiveDate.DaysUntil(params.PeriodEnd)

	priceDifference := RoundHalfUp(int64(remainingDays)*delta, int64(totalDays))

	return &Result{
		PriceDifference:   priceDifference,
		FirstMonthBilling: max(0, params.CurrentFee+priceDifference),
		DaysTotal:         totalDays,
		DaysRemaining:     remainingDays,
		Coefficient:       decimal.NewFromInt(int64(remainingDays)).Div(decimal.NewFromInt(int64(totalDays))),
	}, nil
}

func validateParams(params Params) error {
	if err := params.Timing.Validate(); err != nil {
		return err
	}

	if params.CurrentFee < 0 || params.NewFee < 0 {
		return ierr.NewError("fees must be non-negative").
			WithHint("Monthly fees cannot be negative").
			WithReportableDetails(map[string]any{
				"current_fee": params.CurrentFee,
				"new_fee":     params.NewFee,
			}).
			Mark(ierr.ErrValidation)
	}

	if !params.Timing.IsMidCycle() {
		return nil
	}

	if params.PeriodStart.IsZero() || params.PeriodEnd.IsZero() || params.EffectiveDate.IsZero() {
		return ierr.NewError("billing period and effective date are required").
			WithHint("Billing period and effective date are required for mid-cycle changes").
			Mark(ierr.ErrValidation)
	}

	if params.PeriodStart.DaysUntil(params.PeriodEnd) <= 0 {
		return ierr.NewError("invalid billing period").
			WithHintf("total days is zero or negative (%s to %s)", params.PeriodStart, params.PeriodEnd).
			Mark(ierr.ErrValidation)
	}

	if params.EffectiveDate.Before(params.PeriodStart) || !params.EffectiveDate.Before(params.PeriodEnd) {
		return ierr.NewError("effective date outside billing period").
			WithHintf("Mid-cycle effective date %s must fall within %s to %s", params.EffectiveDate, params.PeriodStart, params.PeriodEnd).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// RoundHalfUp returns n/d rounded half toward positive infinity, floor(n/d + 1/2).
// d must be positive. The computation is exact for all int64 inputs that do
// not overflow 2n+d.
func RoundHalfUp(n, d int64) int64 {
	return floorDiv(2*n+d, 2*d)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
