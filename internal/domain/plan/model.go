package plan

import (
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/samber/lo"
)

// Plan is a mobile plan offered in the catalog. Monetary amounts are in the
// smallest currency unit (JPY). Plans are immutable once loaded.
type Plan struct {
	PlanID                          string         `json:"planId"`
	PlanType                        types.PlanType `json:"planType"`
	MonthlyFee                      int64          `json:"monthlyFee"`
	DataCapacity                    int            `json:"dataCapacity"`
	Is5GSupported                   bool           `json:"is5GSupported"`
	IsInternationalRoamingSupported bool           `json:"isInternationalRoamingSupported"`
	Description                     string         `json:"description"`
	Features                        []string       `json:"features"`
}

func (p *Plan) Validate() error {
	if p.PlanID == "" {
		return ierr.NewError("plan id is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation)
	}

	if err := p.PlanType.Validate(); err != nil {
		return err
	}

	if p.MonthlyFee < 0 {
		return ierr.NewError("monthly fee must be non-negative").
			WithHint("Monthly fee cannot be negative").
			WithReportableDetails(map[string]any{
				"plan_id":     p.PlanID,
				"monthly_fee": p.MonthlyFee,
			}).
			Mark(ierr.ErrValidation)
	}

	if p.DataCapacity <= 0 {
		return ierr.NewError("data capacity must be positive").
			WithHint("Data capacity must be greater than zero").
			WithReportableDetails(map[string]any{
				"plan_id":       p.PlanID,
				"data_capacity": p.DataCapacity,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// Clone returns a deep copy of the plan.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	c := *p
	c.Features = append([]string{}, p.Features...)
	return &c
}

// Clones copies a list of plans, dropping nil entries.
func Clones(plans []*Plan) []*Plan {
	return lo.FilterMap(plans, func(p *Plan, _ int) (*Plan, bool) {
		return p.Clone(), p != nil
	})
}
