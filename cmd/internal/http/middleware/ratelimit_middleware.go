package middleware

import (
	"math"
	"strconv"
	"time"

	"consultacnpj/cmd/internal/metrics"
	"consultacnpj/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

type RateLimiter interface {
	Allow(clientID string) bool
	Remaining(clientID string) int
	RetryAfter(clientID string) time.Duration
	Limit() int
}

type RateLimitMiddlewareConfig struct {
	Limiter RateLimiter

	// IdentifierExtractor names the client a request is counted against.
	// Defaults to the real client IP.
	IdentifierExtractor func(c echo.Context) string
}

// NewRateLimitMiddleware rejects clients that spent their budget for the
// current window with 429, before any lookup work happens.
func NewRateLimitMiddleware(cfg *RateLimitMiddlewareConfig) echo.MiddlewareFunc {
	extract := cfg.IdentifierExtractor
	if extract == nil {
		extract = func(c echo.Context) string {
			return c.RealIP()
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := extract(c)
			allowed := cfg.Limiter.Allow(clientID)

			header := c.Response().Header()
			header.Set(HeaderRateLimitLimit, strconv.Itoa(cfg.Limiter.Limit()))
			header.Set(HeaderRateLimitRemaining, strconv.Itoa(cfg.Limiter.Remaining(clientID)))

			if !allowed {
				metrics.RateLimitRejects.Inc()
				header.Set(echo.HeaderRetryAfter, retryAfterSeconds(cfg.Limiter.RetryAfter(clientID)))

				apierr := apierror.TooManyRequestsError
				return c.JSON(apierr.Code(), apierr)
			}
			return next(c)
		}
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
