package middleware

import (
	"net/http"
	"strings"

	"github.com/ahamo-portal/portal/internal/types"
	"github.com/gin-gonic/gin"
)

var corsAllowedHeaders = strings.Join([]string{
	"Content-Type",
	types.HeaderRequestID,
	types.HeaderSubscriberID,
}, ", ")

// CORSMiddleware handles CORS headers
func CORSMiddleware(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
	c.Writer.Header().Set("Access-Control-Expose-Headers", types.HeaderRequestID)
	c.Writer.Header().Set("Access-Control-Max-Age", "86400")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Next()
}
