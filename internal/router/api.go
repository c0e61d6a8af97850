package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/userhub/internal/handler"
	"github.com/mkravchenko/userhub/internal/middleware"
)

// registerAPIRoutes registers the /api/v1 business routes.
//
// Token issuance is the only public business endpoint and sits behind
// a per-IP rate limit; everything else requires a bearer token.
func registerAPIRoutes(r *echo.Echo, mw *middleware.Middlewares, h *handler.Handlers) {
	api := r.Group("/api/v1")

	api.POST("/auth/token",
		handler.Handle(h.Auth.Handler, h.Auth.IssueToken, http.StatusOK),
		mw.RateLimit.LimitTokenEndpoint())

	api.DELETE("/auth/token",
		handler.HandleNoContent(h.Auth.Handler, h.Auth.RevokeToken, http.StatusNoContent),
		mw.Auth.RequireAuth)

	users := api.Group("/users", mw.Auth.RequireAuth)
	users.GET("",
		handler.Handle(h.Users.Handler, h.Users.ListUsers, http.StatusOK))
	users.POST("",
		handler.Handle(h.Users.Handler, h.Users.CreateUsers, http.StatusCreated))
	users.PATCH("",
		handler.Handle(h.Users.Handler, h.Users.UpdateUsers, http.StatusOK))

	api.GET("/me",
		handler.Handle(h.Me.Handler, h.Me.GetMe, http.StatusOK),
		mw.Auth.RequireAuth)
}
