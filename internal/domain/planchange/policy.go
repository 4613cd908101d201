package planchange

import (
	"fmt"
	"strings"

	"github.com/ahamo-portal/portal/internal/domain/plan"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PolicyConfig holds the switches for configurable hard rules.
type PolicyConfig struct {
	// AllowMidCycleDowngradeBelowCarryOver permits an immediate downgrade to a
	// plan whose capacity is below the data banked from the previous period.
	AllowMidCycleDowngradeBelowCarryOver bool
}

// DefaultPolicyConfig blocks mid-cycle downgrades that would strand carry-over.
var DefaultPolicyConfig = PolicyConfig{}

// ClassifyChange decides the direction of a change by fee, then by capacity.
func ClassifyChange(current, next *plan.Plan) types.ChangeDirection {
	switch {
	case next.MonthlyFee < current.MonthlyFee:
		return types.ChangeDirectionDowngrade
	case next.MonthlyFee > current.MonthlyFee:
		return types.ChangeDirectionUpgrade
	case next.DataCapacity < current.DataCapacity:
		return types.ChangeDirectionDowngrade
	case next.DataCapacity > current.DataCapacity:
		return types.ChangeDirectionUpgrade
	default:
		return types.ChangeDirectionLateral
	}
}

// policyContext is everything a rule may look at.
type policyContext struct {
	current    *plan.Plan
	next       *plan.Plan
	resolution Resolution
	direction  types.ChangeDirection
	input      PolicyInput
	config     PolicyConfig
}

func (c policyContext) midCycle() bool {
	return c.resolution.Timing.IsMidCycle()
}

// hardRule blocks a change outright.
type hardRule struct {
	rule     types.PolicyRule
	violated func(c policyContext) bool
	hint     func(c policyContext) string
	details  func(c policyContext) map[string]any
}

// hardRules are checked in order; the first violation wins.
var hardRules = []hardRule{
	{
		rule: types.PolicyRuleMinimumTenureLock,
		violated: func(c policyContext) bool {
			if !c.input.TenureLocked {
				return false
			}
			until, ok := c.input.LockedUntil.Get()
			return !ok || c.resolution.Date.Before(until)
		},
		hint: func(c policyContext) string {
			if until, ok := c.input.LockedUntil.Get(); ok {
				return fmt.Sprintf("Your contract cannot change plans before %s because of the minimum tenure commitment", until)
			}
			return "Your contract cannot change plans during the minimum tenure commitment"
		},
		details: func(c policyContext) map[string]any {
			return map[string]any{
				"locked_until":   c.input.LockedUntil.String(),
				"effective_date": c.resolution.Date.String(),
			}
		},
	},
	{
		rule: types.PolicyRuleMidCycleDowngradeCarryOver,
		violated: func(c policyContext) bool {
			return !c.config.AllowMidCycleDowngradeBelowCarryOver &&
				c.midCycle() &&
				c.direction == types.ChangeDirectionDowngrade &&
				decimal.NewFromInt(int64(c.next.DataCapacity)).LessThan(c.input.CarryOverGB)
		},
		hint: func(c policyContext) string {
			return fmt.Sprintf("An immediate change to %s is not possible while %sGB of carried-over data exceeds its %dGB allowance; choose the next billing cycle instead",
				c.next.PlanID, c.input.CarryOverGB.String(), c.next.DataCapacity)
		},
		details: func(c policyContext) map[string]any {
			return map[string]any{
				"carry_over_gb":     c.input.CarryOverGB.String(),
				"new_data_capacity": c.next.DataCapacity,
			}
		},
	},
}

// noteRule adds advisory notes when it applies.
type noteRule struct {
	applies func(c policyContext) bool
	notes   func(c policyContext) []string
}

// noteRules run in this fixed order and every applicable rule contributes.
var noteRules = []noteRule{
	{
		applies: func(c policyContext) bool {
			return c.midCycle() && c.direction == types.ChangeDirectionDowngrade
		},
		notes: func(c policyContext) []string {
			return []string{fmt.Sprintf(
				"Unused data from your current %dGB allowance will be forfeited when the change takes effect on %s.",
				c.current.DataCapacity, c.resolution.Date)}
		},
	},
	{
		applies: func(c policyContext) bool {
			return c.midCycle() && c.direction == types.ChangeDirectionUpgrade
		},
		notes: func(c policyContext) []string {
			return []string{fmt.Sprintf(
				"The %dGB allowance of the new plan is available from %s and does not apply to usage before that date.",
				c.next.DataCapacity, c.resolution.Date)}
		},
	},
	{
		applies: func(c policyContext) bool {
			return c.current.PlanType != c.next.PlanType
		},
		notes: crossTypeNotes,
	},
}

// crossTypeNotes describes the type change with its feature delta, then
// lists exactly the capability flags whose value changes.
func crossTypeNotes(c policyContext) []string {
	notes := make([]string, 0, 3)
	notes = append(notes, typeChangeNote(c.current, c.next))
	if c.current.Is5GSupported != c.next.Is5GSupported {
		notes = append(notes, lo.Ternary(c.next.Is5GSupported,
			"5G service becomes available with the new plan.",
			"5G service is not included in the new plan."))
	}
	if c.current.IsInternationalRoamingSupported != c.next.IsInternationalRoamingSupported {
		notes = append(notes, lo.Ternary(c.next.IsInternationalRoamingSupported,
			"International roaming becomes available with the new plan.",
			"International roaming is not included in the new plan."))
	}
	return notes
}

func typeChangeNote(current, next *plan.Plan) string {
	removed, added := lo.Difference(lo.Uniq(current.Features), lo.Uniq(next.Features))

	var b strings.Builder
	fmt.Fprintf(&b, "Your plan type changes from %s to %s.", current.PlanType, next.PlanType)
	if len(added) > 0 {
		fmt.Fprintf(&b, " Features added: %s.", strings.Join(added, ", "))
	}
	if len(removed) > 0 {
		fmt.Fprintf(&b, " Features removed: %s.", strings.Join(removed, ", "))
	}
	if len(added) == 0 && len(removed) == 0 {
		b.WriteString(" The feature list is unchanged.")
	}
	return b.String()
}

// annotate runs the hard rules, then collects advisory notes. Notes are
// de-duplicated keeping the first occurrence; the result is never nil.
func annotate(c policyContext) ([]string, error) {
	for _, r := range hardRules {
		if !r.violated(c) {
			continue
		}
		details := r.details(c)
		details["rule"] = r.rule
		return nil, ierr.NewErrorf("plan change blocked by %s", r.rule).
			WithHintf("%s (rule: %s)", r.hint(c), r.rule).
			WithReportableDetails(details).
			Mark(ierr.ErrPolicyViolation)
	}

	notes := make([]string, 0)
	for _, r := range noteRules {
		if r.applies(c) {
			notes = append(notes, r.notes(c)...)
		}
	}
	return lo.Uniq(notes), nil
}
