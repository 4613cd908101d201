package dto

import (
	"time"

	"github.com/ahamo-portal/portal/internal/domain/plan"
)

type PlanResponse struct {
	*plan.Plan
}

// ListPlansResponse is the catalog snapshot in fee order
type ListPlansResponse struct {
	Items    []*PlanResponse `json:"items"`
	LoadedAt time.Time       `json:"loadedAt"`
}

func NewPlanResponse(p *plan.Plan) *PlanResponse {
	return &PlanResponse{Plan: p}
}

func NewListPlansResponse(catalog *plan.Catalog) *ListPlansResponse {
	plans := catalog.List()
	items := make([]*PlanResponse, 0, len(plans))
	for _, p := range plans {
		items = append(items, NewPlanResponse(p))
	}
	return &ListPlansResponse{
		Items:    items,
		LoadedAt: catalog.LoadedAt(),
	}
}
