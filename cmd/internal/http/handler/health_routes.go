package handler

import (
	"net/http"

	"consultacnpj/cmd/internal/contract"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type CacheCounter interface {
	Len() (int, error)
}

type ClientCounter interface {
	Clients() int
}

type DefaultHealthRoute struct {
	Cache   CacheCounter
	Limiter ClientCounter
}

func NewHealthRoute(cache CacheCounter, limiter ClientCounter) *DefaultHealthRoute {
	return &DefaultHealthRoute{Cache: cache, Limiter: limiter}
}

// HealthCheck backs the container healthcheck.
func (h *DefaultHealthRoute) HealthCheck(c echo.Context) error {
	entries, err := h.Cache.Len()
	if err != nil {
		log.Errorf("health check failed to read cache size: %v", err)
		return c.JSON(http.StatusServiceUnavailable, &contract.HealthResponse{Status: "DEGRADED"})
	}

	return c.JSON(http.StatusOK, &contract.HealthResponse{
		Status:       "OK",
		CacheEntries: entries,
		Clients:      h.Limiter.Clients(),
	})
}
