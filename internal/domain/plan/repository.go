package plan

import "context"

// Repository reads the plan catalog from its source of record
type Repository interface {
	// List returns every plan currently offered
	List(ctx context.Context) ([]*Plan, error)
	// Get returns a single plan or an error marked ErrPlanNotFound
	Get(ctx context.Context, id string) (*Plan, error)
}
