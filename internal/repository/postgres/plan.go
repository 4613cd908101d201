package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ahamo-portal/portal/internal/domain/plan"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/postgres"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

const planColumns = `
	plan_id,
	plan_type,
	monthly_fee,
	data_capacity,
	is_5g_supported,
	is_international_roaming_supported,
	description,
	features
`

// planRow mirrors a row of the plans table
type planRow struct {
	PlanID                          string         `db:"plan_id"`
	PlanType                        string         `db:"plan_type"`
	MonthlyFee                      int64          `db:"monthly_fee"`
	DataCapacity                    int            `db:"data_capacity"`
	Is5GSupported                   bool           `db:"is_5g_supported"`
	IsInternationalRoamingSupported bool           `db:"is_international_roaming_supported"`
	Description                     string         `db:"description"`
	Features                        pq.StringArray `db:"features"`
}

func (r planRow) toDomain() *plan.Plan {
	return &plan.Plan{
		PlanID:                          r.PlanID,
		PlanType:                        types.PlanType(r.PlanType),
		MonthlyFee:                      r.MonthlyFee,
		DataCapacity:                    r.DataCapacity,
		Is5GSupported:                   r.Is5GSupported,
		IsInternationalRoamingSupported: r.IsInternationalRoamingSupported,
		Description:                     r.Description,
		Features:                        append([]string{}, r.Features...),
	}
}

type planRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger) plan.Repository {
	return &planRepository{db: db, logger: logger}
}

func (r *planRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM plans
		WHERE status = 'published'
		ORDER BY monthly_fee, plan_id
	`

	var rows []planRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load the plan catalog").
			Mark(ierr.ErrDatabase)
	}

	r.logger.Debugw("loaded plans from postgres", "count", len(rows))

	return lo.Map(rows, func(row planRow, _ int) *plan.Plan {
		return row.toDomain()
	}), nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM plans
		WHERE plan_id = $1
		AND status = 'published'
	`

	var row planRow
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Plan %s is not available", id).
				WithReportableDetails(map[string]any{
					"plan_id": id,
				}).
				Mark(ierr.ErrPlanNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load the plan").
			Mark(ierr.ErrDatabase)
	}

	return row.toDomain(), nil
}
