package backend

import (
	"context"

	"github.com/ahamo-portal/portal/internal/domain/plan"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/logger"
)

type listPlansResponse struct {
	Plans []*plan.Plan `json:"plans"`
}

type planRepository struct {
	client *Client
	logger *logger.Logger
}

func NewPlanRepository(client *Client, logger *logger.Logger) plan.Repository {
	return &planRepository{client: client, logger: logger}
}

func (r *planRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	var resp listPlansResponse
	err := r.client.get(ctx, "/v1/plans", &resp, func() error {
		return ierr.NewError("plan catalog endpoint not found").
			WithHint("The plan catalog is not available").
			Mark(ierr.ErrHTTPClient)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debugw("loaded plans from backend", "count", len(resp.Plans))
	return resp.Plans, nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	var p plan.Plan
	err := r.client.get(ctx, "/v1/plans/"+escape(id), &p, func() error {
		return ierr.NewErrorf("plan %s not found upstream", id).
			WithHintf("Plan %s is not available", id).
			WithReportableDetails(map[string]any{
				"plan_id": id,
			}).
			Mark(ierr.ErrPlanNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
