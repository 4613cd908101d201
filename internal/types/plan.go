package types

import (
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/samber/lo"
)

// PlanType is the product family a plan belongs to.
type PlanType string

const (
	PlanTypeAhamo      PlanType = "ahamo"
	PlanTypeAhamoLarge PlanType = "ahamo_large"
)

var PlanTypeValues = []PlanType{
	PlanTypeAhamo,
	PlanTypeAhamoLarge,
}

func (p PlanType) String() string {
	return string(p)
}

func (p PlanType) Validate() error {
	if !lo.Contains(PlanTypeValues, p) {
		return ierr.NewError("invalid plan type").
			WithHint("Plan type must be either ahamo or ahamo_large").
			WithReportableDetails(map[string]any{
				"allowed_values": PlanTypeValues,
				"provided_value": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
