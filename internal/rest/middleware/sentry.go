package middleware

import (
	"time"

	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// SentryMiddleware returns a middleware that captures errors and performance data
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// SentryScopeMiddleware tags the request hub with the request and subscriber ids
func SentryScopeMiddleware(c *gin.Context) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		ctx := c.Request.Context()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("request_id", types.GetRequestID(ctx))
			if subscriberID := types.GetSubscriberID(ctx); subscriberID != "" {
				scope.SetUser(sentry.User{ID: subscriberID})
			}
		})
	}
	c.Next()
}
