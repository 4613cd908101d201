package planchange

import (
	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/shopspring/decimal"
)

// PolicyInput carries the contract facts the hard policy rules depend on.
type PolicyInput struct {
	// TenureLocked is set while a minimum-term commitment is in force.
	TenureLocked bool `json:"tenureLocked"`
	// LockedUntil, when present, is the first date a change is allowed again.
	LockedUntil types.OptionalDate `json:"lockedUntil"`
	// CarryOverGB is unused data banked from the previous billing period.
	CarryOverGB decimal.Decimal `json:"carryOverGB"`
}

// Request asks what switching from CurrentPlan to NewPlanID would cost.
type Request struct {
	CurrentPlan   *plan.Plan
	NewPlanID     string
	EffectiveDate types.OptionalDate
	Policy        PolicyInput
}

// Simulation is the binding preview of a plan change.
type Simulation struct {
	CurrentPlan          *plan.Plan `json:"currentPlan"`
	NewPlan              *plan.Plan `json:"newPlan"`
	CurrentMonthlyFee    int64      `json:"currentMonthlyFee"`
	NewMonthlyFee        int64      `json:"newMonthlyFee"`
	PriceDifference      int64      `json:"priceDifference"`
	MonthlyFeeDifference int64      `json:"monthlyFeeDifference"`
	FirstMonthBilling    int64      `json:"firstMonthBilling"`
	EffectiveDate        types.Date `json:"effectiveDate"`
	Notes                []string   `json:"notes"`

	Timing    types.ChangeTiming    `json:"-"`
	Direction types.ChangeDirection `json:"-"`
}
