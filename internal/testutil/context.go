package testutil

import (
	"context"

	"github.com/ahamo-portal/portal/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetRequestID(ctx, types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST))
	ctx = types.SetSubscriberID(ctx, SubscriberID)
	return ctx
}
