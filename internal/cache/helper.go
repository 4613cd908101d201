package cache

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// startSpan opens a span named after the key family, e.g. cache.simulation.get.
// It returns nil when the request carries no sentry hub.
func startSpan(ctx context.Context, operation, key string) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	name := "cache." + familyOf(key) + "." + operation
	span := sentry.StartSpan(ctx, name)
	span.Description = name
	span.Op = "cache." + operation
	span.SetData("cache.key", key)
	return span
}

// finishSpan records whether a lookup hit and closes the span
func finishSpan(span *sentry.Span, hit *bool) {
	if span == nil {
		return
	}
	if hit != nil {
		span.SetData("cache.hit", *hit)
	}
	span.Status = sentry.SpanStatusOK
	span.Finish()
}
