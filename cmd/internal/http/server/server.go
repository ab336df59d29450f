package server

import (
	"errors"
	"fmt"
	"net/http"

	"consultacnpj/cmd/internal/http/handler"
	"consultacnpj/cmd/internal/http/middleware"
	"consultacnpj/cmd/internal/http/web"
	"consultacnpj/cmd/internal/utils/apierror"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultBodyLimit = "1M"

type Config struct {
	BodyLimit   string
	TrustProxy  bool
	Limiter     middleware.RateLimiter
	CNPJRoute   *handler.DefaultCNPJRoute
	HealthRoute *handler.DefaultHealthRoute
}

// New builds the router. Security and CORS headers are set on every response,
// including errors and preflights.
func New(cfg *Config) *echo.Echo {
	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = DefaultBodyLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	// Clients are identified by the socket peer unless a proxy in front of the
	// server is trusted to set X-Forwarded-For.
	e.IPExtractor = echo.ExtractIPDirect()
	if cfg.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Metrics())
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.CORSHeaders())
	e.Use(echomw.BodyLimit(bodyLimit))

	rateLimit := middleware.NewRateLimitMiddleware(&middleware.RateLimitMiddlewareConfig{
		Limiter: cfg.Limiter,
	})

	// CNPJ lookups
	e.GET("/api/cnpj", cfg.CNPJRoute.GetCompany, rateLimit)
	e.GET("/api/cnpj/:cnpj", cfg.CNPJRoute.GetCompany, rateLimit)
	e.OPTIONS("/api/cnpj", cfg.CNPJRoute.Preflight)
	e.OPTIONS("/api/cnpj/:cnpj", cfg.CNPJRoute.Preflight)

	// Docker Compose healthcheck
	e.GET("/health", cfg.HealthRoute.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Lookup page
	e.StaticFS("/", web.Assets())

	return e
}

// errorHandler renders errors raised by echo itself (unknown routes, oversized
// bodies, panics) with the same body as the handlers' own errors.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apierr *apierror.APIError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he) && he.Code == http.StatusNotFound:
		apierr = apierror.NotFoundError
	case errors.As(err, &he) && he.Code < http.StatusInternalServerError:
		apierr = apierror.NewSimple(he.Code, fmt.Sprint(he.Message))
	default:
		log.Errorf("unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		apierr = apierror.InternalServerError
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(apierr.Code())
	} else {
		err = c.JSON(apierr.Code(), apierr)
	}
	if err != nil {
		log.Errorf("failed to write error response: %v", err)
	}
}
