// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/userhub/internal/handler"
	"github.com/mkravchenko/userhub/internal/middleware"
)

// New builds the Echo instance: global middleware in execution order,
// the global error handler, and all route groups.
//
// Middleware order matters: the New Relic transaction must exist
// before the context enhancer reads trace ids, and the request id must
// exist before anything logs it.
func New(mw *middleware.Middlewares, h *handler.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	e.Use(mw.Global.Recover())
	e.Use(mw.Global.Secure())
	e.Use(mw.Global.CORS())
	e.Use(mw.Tracing.NewRelicMiddleware())
	e.Use(middleware.RequestID())
	e.Use(mw.ContextEnhancer.EnhanceContext())
	e.Use(mw.Tracing.EnhanceTracing())
	e.Use(mw.Global.RequestLogger())

	registerSystemRoutes(e, h)
	registerAPIRoutes(e, mw, h)

	return e
}
