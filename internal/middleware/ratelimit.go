package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a per-caller token bucket
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ExpiresIn         time.Duration
	OnLimited         func()
}

// RateLimit limits requests per authenticated user, falling back to the
// client IP when no user is set. Place it after JWTAuthMiddleware.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.ExpiresIn <= 0 {
		cfg.ExpiresIn = 3 * time.Minute
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.RequestsPerSecond),
		Burst:     cfg.Burst,
		ExpiresIn: cfg.ExpiresIn,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if uid, ok := c.Get(config.UserIDKey).(uint); ok && uid != 0 {
				return "user:" + strconv.FormatUint(uint64(uid), 10), nil
			}
			return "ip:" + c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			if cfg.OnLimited != nil {
				cfg.OnLimited()
			}
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify caller")
		},
	})
}
