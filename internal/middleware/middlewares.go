package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/mkravchenko/userhub/internal/server"
)

// Middlewares groups all middleware components used by the HTTP
// server, so routing code wires dependencies in one place.
type Middlewares struct {
	// Global holds middleware applied to every route: CORS, request
	// logging, recovery, secure headers, and the global error handler.
	Global *GlobalMiddlewares

	// Auth enforces bearer-token authentication on protected routes.
	Auth *AuthMiddleware

	// ContextEnhancer enriches each request with a request-scoped
	// logger (request_id, method, path, ip, user and trace metadata).
	ContextEnhancer *ContextEnhancer

	// Tracing provides the New Relic middleware and transaction
	// attribute helpers.
	Tracing *TracingMiddleware

	// RateLimit throttles the token endpoint and records limit hits.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components. The
// authenticator comes from the service layer; the New Relic
// application instance is extracted from the server's LoggerService
// and is nil when New Relic is disabled, which degrades tracing to a
// no-op.
func NewMiddlewares(s *server.Server, authenticator Authenticator) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(authenticator, s.Logger),
		ContextEnhancer: NewContextEnhancer(s.Logger),
		Tracing:         NewTracingMiddleware(nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
