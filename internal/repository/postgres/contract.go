package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ahamo-portal/portal/internal/domain/contract"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/postgres"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/shopspring/decimal"
)

// contractRow mirrors a row of the contracts table
type contractRow struct {
	ContractID        string          `db:"contract_id"`
	SubscriberID      string          `db:"subscriber_id"`
	PlanID            string          `db:"plan_id"`
	PeriodStart       types.Date      `db:"period_start"`
	PeriodEnd         types.Date      `db:"period_end"`
	UsedGB            decimal.Decimal `db:"used_gb"`
	CarryOverGB       decimal.Decimal `db:"carry_over_gb"`
	TenureLockedUntil sql.NullTime    `db:"tenure_locked_until"`
	ContractedAt      time.Time       `db:"contracted_at"`
}

func (r contractRow) toDomain() *contract.Contract {
	lockedUntil := types.NoDate()
	if r.TenureLockedUntil.Valid {
		lockedUntil = types.SomeDate(types.DateOf(r.TenureLockedUntil.Time, time.UTC))
	}

	return &contract.Contract{
		ContractID:   r.ContractID,
		SubscriberID: r.SubscriberID,
		PlanID:       r.PlanID,
		BillingPeriod: contract.BillingPeriod{
			Start: r.PeriodStart,
			End:   r.PeriodEnd,
		},
		Usage: contract.DataUsage{
			UsedGB:      r.UsedGB,
			CarryOverGB: r.CarryOverGB,
		},
		TenureLockedUntil: lockedUntil,
		ContractedAt:      r.ContractedAt.UTC(),
	}
}

type contractRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewContractRepository(db *postgres.DB, logger *logger.Logger) contract.Repository {
	return &contractRepository{db: db, logger: logger}
}

func (r *contractRepository) GetCurrentBySubscriber(ctx context.Context, subscriberID string) (*contract.Contract, error) {
	query := `
		SELECT
			contract_id,
			subscriber_id,
			plan_id,
			period_start,
			period_end,
			used_gb,
			carry_over_gb,
			tenure_locked_until,
			contracted_at
		FROM contracts
		WHERE subscriber_id = $1
		AND status = 'active'
		ORDER BY contracted_at DESC
		LIMIT 1
	`

	var row contractRow
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, subscriberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("No active contract was found for this subscriber").
				WithReportableDetails(map[string]any{
					"subscriber_id": subscriberID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load the contract").
			Mark(ierr.ErrDatabase)
	}

	return row.toDomain(), nil
}
