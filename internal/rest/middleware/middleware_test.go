package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahamo-portal/portal/internal/config"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC)

func testClock() time.Time {
	return testNow
}

func TestErrorHandler(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler(testClock))
	router.GET("/noop", func(c *gin.Context) {
		c.Error(ierr.NewError("target equals current").
			WithHint("You are already subscribed to ahamo").
			WithReportableDetails(map[string]any{"plan_id": "ahamo"}).
			Mark(ierr.ErrNoOpChange))
	})
	router.GET("/boom", func(c *gin.Context) {
		c.Error(errors.New("unexpected"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/noop", nil))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "You are already subscribed to ahamo", body["message"])
	assert.Equal(t, ierr.ErrCodeNoOpChange, body["code"])
	assert.Equal(t, map[string]any{"plan_id": "ahamo"}, body["details"])
	assert.Equal(t, "2024-06-10T01:00:00Z", body["timestamp"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "An unexpected error occurred", body["message"])
}

func TestSubscriberMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler(testClock), SubscriberMiddleware)
	router.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, types.GetSubscriberID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(types.HeaderSubscriberID, "sub_123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sub_123", w.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware)
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, types.GetRequestID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(types.HeaderRequestID)
	assert.Regexp(t, `^req_[0-9A-Z]{26}$`, generated)
	assert.Equal(t, generated, w.Body.String())

	for header, kept := range map[string]bool{
		"req_01J0AZ8T3E9Q6V1K3X0C2M4N5P":       true,
		"3f2b8c1e-9d4a-4c55-8e0f-2b7d9a6c1e44": true,
		"bad id with spaces":                   false,
		"x\r\nSet-Cookie: a=b":                 false,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(types.HeaderRequestID, header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if kept {
			assert.Equal(t, header, w.Header().Get(types.HeaderRequestID))
		} else {
			assert.Regexp(t, `^req_[0-9A-Z]{26}$`, w.Header().Get(types.HeaderRequestID))
		}
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware)
	router.POST("/", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), types.HeaderSubscriberID)
}

func TestRateLimiter(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 2

	router := gin.New()
	router.Use(ErrorHandler(testClock), SubscriberMiddleware, NewRateLimiter(cfg).Middleware())
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(subscriberID string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(types.HeaderSubscriberID, subscriberID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("sub_a"))
	assert.Equal(t, http.StatusOK, call("sub_a"))
	assert.Equal(t, http.StatusTooManyRequests, call("sub_a"))

	// limits are per subscriber
	assert.Equal(t, http.StatusOK, call("sub_b"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.Burst = 0

	router := gin.New()
	router.Use(NewRateLimiter(cfg).Middleware())
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
