package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig configures a fixed-window limiter.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	// KeyFunc identifies the caller. Defaults to the client IP.
	KeyFunc func(c echo.Context) string
	// Skipper lets requests through without counting them.
	Skipper func(c echo.Context) bool
	// Message is returned as {"error": Message} with status 429.
	Message string
}

type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter struct {
	config  RateLimitConfig
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewRateLimiter creates a limiter and starts its sweeper.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string { return c.RealIP() }
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}

	rl := &RateLimiter{
		config:  config,
		windows: make(map[string]*window),
		now:     time.Now,
	}
	go rl.sweep(time.Minute)
	return rl
}

// allow records one request for key. When the window is full it returns
// false and the time until the window resets.
func (rl *RateLimiter) allow(key string) (ok bool, remaining int, reset time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, exists := rl.windows[key]
	if !exists || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rl.config.Window)}
		rl.windows[key] = w
	}
	reset = w.resetAt.Sub(now)
	if w.count >= rl.config.Requests {
		return false, 0, reset
	}
	w.count++
	return true, rl.config.Requests - w.count, reset
}

// Middleware enforces the limit and reports it in X-RateLimit-* headers.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rl.config.Skipper != nil && rl.config.Skipper(c) {
				return next(c)
			}

			ok, remaining, reset := rl.allow(rl.config.KeyFunc(c))
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Requests))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				h.Set("Retry-After", strconv.Itoa(int(reset.Seconds())+1))
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": rl.config.Message})
			}
			return next(c)
		}
	}
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		now := rl.now()
		for key, w := range rl.windows {
			if !now.Before(w.resetAt) {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}

// LoginRateLimiter allows 5 login attempts per minute per IP.
var LoginRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 5,
	Window:   time.Minute,
	Message:  "Too many login attempts. Please wait a minute before trying again.",
})

// PublicFormRateLimiter allows 5 contact form submissions per 10 minutes per IP.
var PublicFormRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 5,
	Window:   10 * time.Minute,
	Message:  "Too many enquiries. Please wait before sending another message.",
})

// APIRateLimiter allows 120 API requests per minute per IP. CORS
// preflights are not counted.
var APIRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 120,
	Window:   time.Minute,
	Skipper:  func(c echo.Context) bool { return c.Request().Method == http.MethodOptions },
	Message:  "Rate limit exceeded. Please slow down your requests.",
})
