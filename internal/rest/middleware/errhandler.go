package middleware

import (
	"net/http"

	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware renders the last handler error as an error record
// stamped by clock
func ErrorHandler(clock types.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)

		// only unexpected failures are reported, rejected simulations are business outcomes
		if status >= http.StatusInternalServerError {
			if hub := sentrygin.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
		}

		c.JSON(status, ierr.NewErrorResponse(err, clock()))
	}
}
