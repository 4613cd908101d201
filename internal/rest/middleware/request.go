package middleware

import (
	"regexp"

	"github.com/ahamo-portal/portal/internal/types"
	"github.com/gin-gonic/gin"
)

// upstream gateways send ULIDs or UUIDs, anything else is replaced
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// RequestIDMiddleware reuses the caller's X-Request-ID when it is well formed
// and otherwise issues a req_ prefixed ULID. The id is echoed on the response.
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if !validRequestID.MatchString(requestID) {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}

	c.Request = c.Request.WithContext(types.SetRequestID(c.Request.Context(), requestID))
	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}
