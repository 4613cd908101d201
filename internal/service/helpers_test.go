package service

import (
	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/testutil"
	"github.com/ahamo-portal/portal/internal/types"
)

func newTestServiceParams(base *testutil.BaseServiceTestSuite) ServiceParams {
	stores := base.GetStores()
	return ServiceParams{
		Logger:       base.GetLogger(),
		Config:       base.GetConfig(),
		Cache:        base.GetCache(),
		PlanRepo:     stores.PlanRepo,
		ContractRepo: stores.ContractRepo,
		Simulator:    base.GetSimulator(),
		Clock:        base.GetClock(),
	}
}

// miniPlan is a cheaper plan of the same family as ahamo
func miniPlan() *plan.Plan {
	return &plan.Plan{
		PlanID:                          "ahamo_mini",
		PlanType:                        types.PlanTypeAhamo,
		MonthlyFee:                      1980,
		DataCapacity:                    10,
		Is5GSupported:                   true,
		IsInternationalRoamingSupported: true,
		Description:                     "ahamo 10GB",
	}
}
