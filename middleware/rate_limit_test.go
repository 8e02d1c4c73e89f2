package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Requests: 10, Window: time.Minute})

	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Too many requests. Please try again later.", rl.config.Message)
}

func TestRateLimiterAllow(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Minute})
	rl.now = func() time.Time { return clock }

	ok, remaining, _ := rl.allow("a")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, remaining, _ = rl.allow("a")
	assert.True(t, ok)
	assert.Zero(t, remaining)

	clock = clock.Add(20 * time.Second)
	ok, _, reset := rl.allow("a")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, reset)

	ok, _, _ = rl.allow("b")
	assert.True(t, ok, "keys are counted separately")

	clock = clock.Add(40 * time.Second)
	ok, remaining, _ = rl.allow("a")
	assert.True(t, ok, "a new window starts at reset time")
	assert.Equal(t, 1, remaining)
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()

	serve := func(handler echo.HandlerFunc, method, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))
		return rec
	}

	t.Run("ExceededLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute, Message: "Slow down"})
		handler := rl.Middleware()(okHandler)

		first := serve(handler, http.MethodPost, "10.0.0.2")
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

		rec := serve(handler, http.MethodPost, "10.0.0.2")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"error":"Slow down"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		// Other clients are unaffected
		assert.Equal(t, http.StatusOK, serve(handler, http.MethodPost, "10.0.0.3").Code)
	})

	t.Run("Skipper", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Minute,
			Skipper:  func(c echo.Context) bool { return c.Request().Method == http.MethodOptions },
		})
		handler := rl.Middleware()(okHandler)

		assert.Equal(t, http.StatusOK, serve(handler, http.MethodOptions, "10.0.0.5").Code)
		assert.Equal(t, http.StatusOK, serve(handler, http.MethodOptions, "10.0.0.5").Code)
		assert.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "10.0.0.5").Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(handler, http.MethodGet, "10.0.0.5").Code)
	})
}
