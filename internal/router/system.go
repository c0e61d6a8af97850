package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/userhub/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of
// business logic: health status, docs UI, and the static assets the
// docs UI loads.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	// Serves openapi.json and any future docs assets.
	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
