package planchange

import (
	"testing"
	"time"

	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/stretchr/testify/require"
)

func ahamoPlan() *plan.Plan {
	return &plan.Plan{
		PlanID:                          "ahamo",
		PlanType:                        types.PlanTypeAhamo,
		MonthlyFee:                      2970,
		DataCapacity:                    20,
		Is5GSupported:                   true,
		IsInternationalRoamingSupported: true,
		Description:                     "ahamo 20GB",
		Features:                        []string{"5 minute domestic calls"},
	}
}

func ahamoLargePlan() *plan.Plan {
	return &plan.Plan{
		PlanID:                          "ahamo_large",
		PlanType:                        types.PlanTypeAhamoLarge,
		MonthlyFee:                      4950,
		DataCapacity:                    100,
		Is5GSupported:                   true,
		IsInternationalRoamingSupported: true,
		Description:                     "ahamo 100GB",
		Features:                        []string{"5 minute domestic calls", "80GB data add-on"},
	}
}

// ahamoLitePlan is a cheaper ahamo_large variant without 5G or roaming, used
// to exercise cross-type flag notes.
func ahamoLitePlan() *plan.Plan {
	return &plan.Plan{
		PlanID:       "ahamo_large_lite",
		PlanType:     types.PlanTypeAhamoLarge,
		MonthlyFee:   1980,
		DataCapacity: 10,
		Description:  "ahamo lite 10GB",
	}
}

func testCatalog(t *testing.T, plans ...*plan.Plan) *plan.Catalog {
	t.Helper()
	if len(plans) == 0 {
		plans = []*plan.Plan{ahamoPlan(), ahamoLargePlan(), ahamoLitePlan()}
	}
	catalog, err := plan.NewCatalog(plans, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return catalog
}

// jstNow returns the instant at 10:00 JST on the given date.
func jstNow(date string) time.Time {
	d := types.MustParseDate(date)
	return d.Time().Add(time.Hour)
}
