package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID    ContextKey = "ctx_request_id"
	CtxSubscriberID ContextKey = "ctx_subscriber_id"
)

const (
	HeaderRequestID    = "X-Request-ID"
	HeaderSubscriberID = "X-Subscriber-ID"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// GetSubscriberID returns the subscriber resolved by the upstream gateway.
func GetSubscriberID(ctx context.Context) string {
	if subscriberID, ok := ctx.Value(CtxSubscriberID).(string); ok {
		return subscriberID
	}
	return ""
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

func SetSubscriberID(ctx context.Context, subscriberID string) context.Context {
	return context.WithValue(ctx, CtxSubscriberID, subscriberID)
}
