package testutil

import (
	"time"

	"github.com/ahamo-portal/portal/internal/domain/contract"
	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/shopspring/decimal"
)

const (
	PlanIDAhamo      = "ahamo"
	PlanIDAhamoLarge = "ahamo_large"
	SubscriberID     = "sub_01HZX0TEST"
)

// AhamoPlan is the 20GB base plan.
func AhamoPlan() *plan.Plan {
	return &plan.Plan{
		PlanID:                          PlanIDAhamo,
		PlanType:                        types.PlanTypeAhamo,
		MonthlyFee:                      2970,
		DataCapacity:                    20,
		Is5GSupported:                   true,
		IsInternationalRoamingSupported: true,
		Description:                     "ahamo 20GB",
		Features:                        []string{"5 minute domestic calls", "international roaming 20GB"},
	}
}

// AhamoLargePlan is the 100GB plan.
func AhamoLargePlan() *plan.Plan {
	return &plan.Plan{
		PlanID:                          PlanIDAhamoLarge,
		PlanType:                        types.PlanTypeAhamoLarge,
		MonthlyFee:                      4950,
		DataCapacity:                    100,
		Is5GSupported:                   true,
		IsInternationalRoamingSupported: true,
		Description:                     "ahamo 100GB",
		Features:                        []string{"5 minute domestic calls", "international roaming 20GB", "80GB data add-on"},
	}
}

// JuneContract is an ahamo contract billed over June 2024.
func JuneContract() *contract.Contract {
	return &contract.Contract{
		ContractID:   "con_01HZX0TEST",
		SubscriberID: SubscriberID,
		PlanID:       PlanIDAhamo,
		BillingPeriod: contract.BillingPeriod{
			Start: types.MustParseDate("2024-06-01"),
			End:   types.MustParseDate("2024-07-01"),
		},
		Usage: contract.DataUsage{
			UsedGB:      decimal.RequireFromString("7.5"),
			CarryOverGB: decimal.Zero,
		},
		ContractedAt: time.Date(2023, 4, 1, 3, 0, 0, 0, time.UTC),
	}
}

// Now is 10:00 in Tokyo on 2024-06-10.
var Now = time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC)
