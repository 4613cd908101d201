package middleware

import (
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/gin-gonic/gin"
)

// SubscriberMiddleware reads the subscriber resolved by the upstream gateway.
// Requests without one are rejected.
func SubscriberMiddleware(c *gin.Context) {
	subscriberID := c.GetHeader(types.HeaderSubscriberID)
	if subscriberID == "" {
		c.Error(ierr.NewError("missing subscriber header").
			WithHint("Subscriber identity is required").
			WithReportableDetails(map[string]any{
				"header": types.HeaderSubscriberID,
			}).
			Mark(ierr.ErrPermissionDenied))
		c.Abort()
		return
	}

	c.Request = c.Request.WithContext(types.SetSubscriberID(c.Request.Context(), subscriberID))
	c.Next()
}
