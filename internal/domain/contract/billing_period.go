package contract

import (
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
)

// BillingPeriod is the half-open date range [Start, End) a monthly fee covers.
type BillingPeriod struct {
	Start types.Date `json:"start" db:"period_start"`
	End   types.Date `json:"end" db:"period_end"`
}

func (p BillingPeriod) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return ierr.NewError("billing period start and end are required").
			WithHint("Billing period start and end dates are required").
			Mark(ierr.ErrValidation)
	}
	if !p.End.After(p.Start) {
		return ierr.NewError("billing period end must be after start").
			WithHintf("Billing period end %s must be after start %s", p.End, p.Start).
			WithReportableDetails(map[string]any{
				"start": p.Start.String(),
				"end":   p.End.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Days is the number of calendar days in the period.
func (p BillingPeriod) Days() int {
	return p.Start.DaysUntil(p.End)
}

// Contains reports whether d falls inside [Start, End).
func (p BillingPeriod) Contains(d types.Date) bool {
	return !d.Before(p.Start) && d.Before(p.End)
}

func (p BillingPeriod) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + ")"
}
