package contract

import (
	"time"

	"github.com/ahamo-portal/portal/internal/types"
	"github.com/shopspring/decimal"
)

// Contract is a subscriber's current plan contract as shown on the dashboard.
type Contract struct {
	ContractID    string        `json:"contractId"`
	SubscriberID  string        `json:"subscriberId"`
	PlanID        string        `json:"planId"`
	BillingPeriod BillingPeriod `json:"billingPeriod"`
	Usage         DataUsage     `json:"usage"`
	// TenureLockedUntil is set while a minimum-term discount forbids plan changes.
	TenureLockedUntil types.OptionalDate `json:"tenureLockedUntil"`
	ContractedAt      time.Time          `json:"contractedAt"`
}

// IsTenureLocked reports whether plan changes effective on the given date
// are still blocked by a minimum tenure commitment.
func (c *Contract) IsTenureLocked(on types.Date) bool {
	until, ok := c.TenureLockedUntil.Get()
	return ok && on.Before(until)
}

// DataUsage is the data consumed in the current billing period.
type DataUsage struct {
	UsedGB decimal.Decimal `json:"usedGB"`
	// CarryOverGB is unused data banked from the previous period.
	CarryOverGB decimal.Decimal `json:"carryOverGB"`
}

// UsageSummary is the dashboard view of data usage against the plan allowance.
type UsageSummary struct {
	UsedGB      decimal.Decimal `json:"usedGB"`
	CapacityGB  int             `json:"capacityGB"`
	CarryOverGB decimal.Decimal `json:"carryOverGB"`
	RemainingGB decimal.Decimal `json:"remainingGB"`
	UsageRatio  decimal.Decimal `json:"usageRatio"`
}

// Summarize computes remaining data and the usage ratio for a plan of the
// given capacity. The ratio is capped at 1 and rounded to four places.
func (u DataUsage) Summarize(capacityGB int) UsageSummary {
	available := decimal.NewFromInt(int64(capacityGB)).Add(u.CarryOverGB)

	remaining := available.Sub(u.UsedGB)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	ratio := decimal.Zero
	if available.IsPositive() {
		ratio = decimal.Min(u.UsedGB.Div(available), decimal.NewFromInt(1)).Round(4)
	}

	return UsageSummary{
		UsedGB:      u.UsedGB,
		CapacityGB:  capacityGB,
		CarryOverGB: u.CarryOverGB,
		RemainingGB: remaining,
		UsageRatio:  ratio,
	}
}
