package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/domain/contract"
	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/domain/planchange"
	"github.com/ahamo-portal/portal/internal/service"
	"github.com/ahamo-portal/portal/internal/types"
)

// SimulatePlanChange runs one simulation offline and prints the result as JSON
func SimulatePlanChange() error {
	plans, err := readPlansFile(os.Getenv("PLANS_FILE"))
	if err != nil {
		return err
	}

	now := time.Now()
	catalog, err := plan.NewCatalog(plans, now)
	if err != nil {
		return err
	}

	currentPlan, err := catalog.Get(os.Getenv("CURRENT_PLAN_ID"))
	if err != nil {
		return err
	}

	start, err := types.ParseDate(os.Getenv("PERIOD_START"))
	if err != nil {
		return err
	}
	end, err := types.ParseDate(os.Getenv("PERIOD_END"))
	if err != nil {
		return err
	}

	var effectiveDate types.OptionalDate
	if err := effectiveDate.UnmarshalText([]byte(os.Getenv("EFFECTIVE_DATE"))); err != nil {
		return err
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	simulator, err := service.NewPlanChangeSimulator(cfg)
	if err != nil {
		return err
	}
	sim, err := simulator.Simulate(planchange.Request{
		CurrentPlan:   currentPlan,
		NewPlanID:     os.Getenv("NEW_PLAN_ID"),
		EffectiveDate: effectiveDate,
	}, catalog, contract.BillingPeriod{Start: start, End: end}, now)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(sim, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
