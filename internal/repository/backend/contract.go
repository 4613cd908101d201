package backend

import (
	"context"

	"github.com/ahamo-portal/portal/internal/domain/contract"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/logger"
)

type contractRepository struct {
	client *Client
	logger *logger.Logger
}

func NewContractRepository(client *Client, logger *logger.Logger) contract.Repository {
	return &contractRepository{client: client, logger: logger}
}

func (r *contractRepository) GetCurrentBySubscriber(ctx context.Context, subscriberID string) (*contract.Contract, error) {
	var c contract.Contract
	err := r.client.get(ctx, "/v1/subscribers/"+escape(subscriberID)+"/contract", &c, func() error {
		return ierr.NewErrorf("no active contract for subscriber %s", subscriberID).
			WithHint("No active contract was found for this subscriber").
			WithReportableDetails(map[string]any{
				"subscriber_id": subscriberID,
			}).
			Mark(ierr.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}
