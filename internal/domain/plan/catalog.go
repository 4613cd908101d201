package plan

import (
	"sort"
	"time"

	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/samber/lo"
)

// Catalog is an immutable snapshot of the plans available at load time.
// Plans returned from a catalog must not be modified.
type Catalog struct {
	byID     map[string]*Plan
	ordered  []*Plan
	loadedAt time.Time
}

// NewCatalog validates plans and builds a snapshot. Plans are copied so later
// changes to the input do not leak into the snapshot.
func NewCatalog(plans []*Plan, loadedAt time.Time) (*Catalog, error) {
	byID := make(map[string]*Plan, len(plans))
	ordered := make([]*Plan, 0, len(plans))

	for _, p := range plans {
		if p == nil {
			continue
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byID[p.PlanID]; exists {
			return nil, ierr.NewError("duplicate plan in catalog").
				WithHintf("Plan %s appears more than once in the catalog", p.PlanID).
				WithReportableDetails(map[string]any{
					"plan_id": p.PlanID,
				}).
				Mark(ierr.ErrValidation)
		}

		c := p.Clone()
		byID[c.PlanID] = c
		ordered = append(ordered, c)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].MonthlyFee != ordered[j].MonthlyFee {
			return ordered[i].MonthlyFee < ordered[j].MonthlyFee
		}
		return ordered[i].PlanID < ordered[j].PlanID
	})

	return &Catalog{
		byID:     byID,
		ordered:  ordered,
		loadedAt: loadedAt,
	}, nil
}

// Get returns the plan with the given id or an error marked ErrPlanNotFound.
func (c *Catalog) Get(id string) (*Plan, error) {
	if p, ok := c.byID[id]; ok {
		return p, nil
	}
	return nil, ierr.NewErrorf("plan %s not found in catalog", id).
		WithHintf("Plan %s is not available", id).
		WithReportableDetails(map[string]any{
			"plan_id":   id,
			"available": c.IDs(),
		}).
		Mark(ierr.ErrPlanNotFound)
}

// Has reports whether the catalog contains the plan.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// List returns the plans ordered by monthly fee, then plan id.
func (c *Catalog) List() []*Plan {
	return append([]*Plan{}, c.ordered...)
}

// IDs returns the plan ids in catalog order.
func (c *Catalog) IDs() []string {
	return lo.Map(c.ordered, func(p *Plan, _ int) string {
		return p.PlanID
	})
}

func (c *Catalog) Len() int {
	return len(c.ordered)
}

// LoadedAt is the time the snapshot was taken. It identifies the snapshot
// version in cache keys.
func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}
