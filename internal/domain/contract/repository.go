package contract

import "context"

// Repository reads subscriber contracts from their source of record
type Repository interface {
	// GetCurrentBySubscriber returns the active contract or an error marked ErrNotFound
	GetCurrentBySubscriber(ctx context.Context, subscriberID string) (*Contract, error)
}
