package testutil

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/ahamo-portal/portal/internal/domain/plan"
	ierr "github.com/ahamo-portal/portal/internal/errors"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.Plan]
	listCalls atomic.Int64
	failWith  atomic.Pointer[error]
}

// NewInMemoryPlanStore creates a new in-memory plan store
func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.Plan](),
	}
}

// Seed stores copies of the given plans
func (s *InMemoryPlanStore) Seed(plans ...*plan.Plan) {
	for _, p := range plan.Clones(plans) {
		s.Upsert(context.Background(), p.PlanID, p)
	}
}

// FailWith makes every read return err until called again with nil
func (s *InMemoryPlanStore) FailWith(err error) {
	if err == nil {
		s.failWith.Store(nil)
		return
	}
	s.failWith.Store(&err)
}

// ListCalls reports how many times List reached the store
func (s *InMemoryPlanStore) ListCalls() int64 {
	return s.listCalls.Load()
}

func (s *InMemoryPlanStore) failure() error {
	if err := s.failWith.Load(); err != nil {
		return *err
	}
	return nil
}

func (s *InMemoryPlanStore) List(ctx context.Context) ([]*plan.Plan, error) {
	s.listCalls.Add(1)
	if err := s.failure(); err != nil {
		return nil, err
	}
	plans := s.InMemoryStore.List(ctx, func(a, b *plan.Plan) int {
		return strings.Compare(a.PlanID, b.PlanID)
	})
	return plan.Clones(plans), nil
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	p, ok := s.InMemoryStore.Get(ctx, id)
	if !ok {
		return nil, ierr.NewErrorf("plan %s not found", id).
			WithHintf("Plan %s is not available", id).
			Mark(ierr.ErrPlanNotFound)
	}
	return p.Clone(), nil
}

// Clear removes every plan and resets the counters
func (s *InMemoryPlanStore) Clear() {
	s.InMemoryStore.Clear()
	s.listCalls.Store(0)
	s.failWith.Store(nil)
}
