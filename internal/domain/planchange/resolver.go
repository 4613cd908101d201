package planchange

import (
	"github.com/ahamo-portal/portal/internal/domain/contract"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
)

// Resolution is the concrete date a change takes effect and how it relates
// to the billing period.
type Resolution struct {
	Date   types.Date
	Timing types.ChangeTiming
}

// ResolveEffectiveDate picks the date a plan change takes effect.
//
// Without a requested date the change is deferred to the end of the billing
// period. A requested date is accepted verbatim when it is not before today;
// it is mid-cycle inside [start, end) and cycle-aligned anywhere else, which
// includes a date before start when the period has not begun yet.
func ResolveEffectiveDate(requested types.OptionalDate, period contract.BillingPeriod, today types.Date) (Resolution, error) {
	date, ok := requested.Get()
	if !ok {
		if period.End.Before(today) {
			return Resolution{}, ierr.NewError("billing period already ended").
				WithHintf("The billing period ended on %s; the contract data is out of date", period.End).
				WithReportableDetails(map[string]any{
					"period_end": period.End.String(),
					"today":      today.String(),
				}).
				Mark(ierr.ErrInvalidDate)
		}
		return Resolution{Date: period.End, Timing: types.ChangeTimingCycleAligned}, nil
	}

	if date.Before(today) {
		return Resolution{}, ierr.NewErrorf("effective date %s is in the past", date).
			WithHintf("Effective date %s is in the past; choose %s or later", date, today).
			WithReportableDetails(map[string]any{
				"effective_date": date.String(),
				"today":          today.String(),
			}).
			Mark(ierr.ErrInvalidDate)
	}

	if period.Contains(date) {
		return Resolution{Date: date, Timing: types.ChangeTimingMidCycle}, nil
	}
	return Resolution{Date: date, Timing: types.ChangeTimingCycleAligned}, nil
}
