package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limiterCtx(t *testing.T, target, realIP string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, target, nil)
	if realIP != "" {
		c.Set("real_ip", realIP)
	}
	return c
}

func TestRateLimitKeys(t *testing.T) {
	t.Run("by ip", func(t *testing.T) {
		c := limiterCtx(t, "/api/login", "203.0.113.9")
		assert.Equal(t, "rl:ip:203.0.113.9", KeyByIP()(c))
	})

	t.Run("by ip and path keeps endpoints on separate counters", func(t *testing.T) {
		login := limiterCtx(t, "/api/login", "203.0.113.9")
		refresh := limiterCtx(t, "/api/refresh", "203.0.113.9")

		assert.Equal(t, "rl:path:/api/login:ip:203.0.113.9", KeyByIPAndPath()(login))
		assert.NotEqual(t, KeyByIPAndPath()(login), KeyByIPAndPath()(refresh))
	})

	t.Run("by user falls back to ip for anonymous requests", func(t *testing.T) {
		c := limiterCtx(t, "/api/me", "203.0.113.9")
		assert.Equal(t, "rl:user:anon:ip:203.0.113.9", KeyByUserID()(c))

		c.Set("userID", "u1")
		assert.Equal(t, "rl:user:u1", KeyByUserID()(c))
	})
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(nil, 1, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()

	assert.True(t, allow(limiterCtx(t, "/", "10.0.0.5")))
	assert.True(t, allow(limiterCtx(t, "/", "127.0.0.1")))
	assert.False(t, allow(limiterCtx(t, "/", "203.0.113.9")))
	assert.False(t, allow(limiterCtx(t, "/", "not-an-ip")))
}
