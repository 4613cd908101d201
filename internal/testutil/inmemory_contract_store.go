package testutil

import (
	"context"

	"github.com/ahamo-portal/portal/internal/domain/contract"
	ierr "github.com/ahamo-portal/portal/internal/errors"
)

// InMemoryContractStore implements contract.Repository keyed by subscriber
type InMemoryContractStore struct {
	*InMemoryStore[*contract.Contract]
}

// NewInMemoryContractStore creates a new in-memory contract store
func NewInMemoryContractStore() *InMemoryContractStore {
	return &InMemoryContractStore{
		InMemoryStore: NewInMemoryStore[*contract.Contract](),
	}
}

// Seed stores the contract as the subscriber's current one
func (s *InMemoryContractStore) Seed(c *contract.Contract) {
	cp := *c
	s.Upsert(context.Background(), c.SubscriberID, &cp)
}

func (s *InMemoryContractStore) GetCurrentBySubscriber(ctx context.Context, subscriberID string) (*contract.Contract, error) {
	c, ok := s.InMemoryStore.Get(ctx, subscriberID)
	if !ok {
		return nil, ierr.NewErrorf("no active contract for subscriber %s", subscriberID).
			WithHint("No active contract was found for this subscriber").
			Mark(ierr.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}
