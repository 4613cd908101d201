package internal

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/domain/plan"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/postgres"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// readPlansFile loads and validates the plans of a JSON file
func readPlansFile(path string) ([]*plan.Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plans file: %w", err)
	}

	var plans []*plan.Plan
	if err := json.Unmarshal(raw, &plans); err != nil {
		return nil, fmt.Errorf("failed to parse plans file: %w", err)
	}

	// building a catalog validates every plan and rejects duplicates
	if _, err := plan.NewCatalog(plans, time.Now()); err != nil {
		return nil, err
	}
	return plans, nil
}

const upsertPlanQuery = `
	INSERT INTO plans (
		plan_id, plan_type, monthly_fee, data_capacity,
		is_5g_supported, is_international_roaming_supported,
		description, features, status
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'published')
	ON CONFLICT (plan_id) DO UPDATE SET
		plan_type = EXCLUDED.plan_type,
		monthly_fee = EXCLUDED.monthly_fee,
		data_capacity = EXCLUDED.data_capacity,
		is_5g_supported = EXCLUDED.is_5g_supported,
		is_international_roaming_supported = EXCLUDED.is_international_roaming_supported,
		description = EXCLUDED.description,
		features = EXCLUDED.features,
		status = 'published',
		updated_at = NOW()
`

// SeedPlans upserts the plans of PLANS_FILE into the plans table
func SeedPlans() error {
	plans, err := readPlansFile(os.Getenv("PLANS_FILE"))
	if err != nil {
		return err
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range plans {
		if _, err := tx.ExecContext(ctx, upsertPlanQuery,
			p.PlanID,
			p.PlanType,
			p.MonthlyFee,
			p.DataCapacity,
			p.Is5GSupported,
			p.IsInternationalRoamingSupported,
			p.Description,
			pq.StringArray(p.Features),
		); err != nil {
			return fmt.Errorf("failed to upsert plan %s: %w", p.PlanID, err)
		}
		log.Infow("upserted plan", "plan_id", p.PlanID, "monthly_fee", p.MonthlyFee)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Infow("seeded plans", "count", len(plans))
	return nil
}
