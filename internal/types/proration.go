package types

import (
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/samber/lo"
)

// ChangeTiming tells whether a plan change lands inside the current billing
// period or on a period boundary.
type ChangeTiming string

const (
	// ChangeTimingMidCycle changes take effect inside the current period and are prorated.
	ChangeTimingMidCycle ChangeTiming = "mid_cycle"
	// ChangeTimingCycleAligned changes take effect on or after the period end.
	ChangeTimingCycleAligned ChangeTiming = "cycle_aligned"
)

var ChangeTimingValues = []ChangeTiming{
	ChangeTimingMidCycle,
	ChangeTimingCycleAligned,
}

func (c ChangeTiming) String() string {
	return string(c)
}

func (c ChangeTiming) Validate() error {
	if !lo.Contains(ChangeTimingValues, c) {
		return ierr.NewError("invalid change timing").
			WithHint("Change timing must be mid_cycle or cycle_aligned").
			WithReportableDetails(map[string]any{
				"allowed_values": ChangeTimingValues,
				"provided_value": c,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (c ChangeTiming) IsMidCycle() bool {
	return c == ChangeTimingMidCycle
}

// ChangeDirection classifies a plan change by price and capacity.
type ChangeDirection string

const (
	ChangeDirectionUpgrade   ChangeDirection = "upgrade"
	ChangeDirectionDowngrade ChangeDirection = "downgrade"
	ChangeDirectionLateral   ChangeDirection = "lateral"
)

func (c ChangeDirection) String() string {
	return string(c)
}

// PolicyRule names a hard business rule that can block a plan change.
type PolicyRule string

const (
	PolicyRuleMinimumTenureLock          PolicyRule = "minimum_tenure_lock"
	PolicyRuleMidCycleDowngradeCarryOver PolicyRule = "mid_cycle_downgrade_carry_over"
)

func (r PolicyRule) String() string {
	return string(r)
}
