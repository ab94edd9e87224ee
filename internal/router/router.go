// Package router maps HTTP routes onto handlers and attaches the auth
// and caching middleware per group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gatheringhouse/event-signup/internal/handler"
	"github.com/gatheringhouse/event-signup/internal/middleware"
)

// RegisterRoutes registers unauthenticated infrastructure endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the session endpoints. Register, login and the
// refresh flows are open; /v1/me and the revoke-all logout require a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Single-session logout works with just the refresh token in the body.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Behind JWTAuth an empty body revokes every session of the caller.
	auth.POST("/logout", a.Logout)
}

// RegisterPublic wires the catalog endpoints readable without a session.
// The list is cacheable; the detail varies per caller (venue reveal) and
// therefore only gets optional auth, never the response cache.
func RegisterPublic(e *echo.Echo, ev *handler.EventHandler, rv *handler.ReviewHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/v1/events", ev.List, cache)
	e.GET("/v1/events/:id", ev.Detail, middleware.OptionalAuth(jwtSecret))
	e.GET("/v1/events/:id/reviews", rv.ListForEvent, cache)
}

// RegisterMember wires endpoints for signed-in members. Admins pass too:
// every admin is also a member. Submitting or cancelling an application
// moves the counts the cached catalog list is derived from, so those two
// routes carry the cache invalidator.
func RegisterMember(e *echo.Echo, p *handler.ProfileHandler, ph *handler.PhotoHandler,
	ap *handler.ApplicationHandler, rv *handler.ReviewHandler, jwtSecret string, invalidate echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MEMBER", "ADMIN"),
	)
	g.GET("/profile", p.Get)
	g.PUT("/profile", p.Update)
	g.POST("/photos", ph.Upload)

	g.POST("/events/:id/applications", ap.Submit, invalidate)
	g.GET("/my-applications", ap.ListMine)
	g.DELETE("/applications/:id", ap.Cancel, invalidate)

	g.POST("/events/:id/reviews", rv.Create)
	g.GET("/events/:id/reviews/mine", rv.Mine)
	g.PUT("/reviews/:id", rv.Update)
}

// RegisterAdmin wires the admin console endpoints. Mutating requests
// flush the public response cache so catalog reads never serve
// availability derived from stale counts.
func RegisterAdmin(e *echo.Echo, ev *handler.AdminEventHandler, ap *handler.AdminApplicationHandler,
	rv *handler.AdminReviewHandler, jwtSecret string, invalidate echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
		invalidate,
	)
	g.GET("/events", ev.List)
	g.POST("/events", ev.Create)
	g.PUT("/events/:id", ev.Update)
	g.DELETE("/events/:id", ev.Cancel)

	g.GET("/events/:id/applications", ap.ListForEvent)
	g.GET("/events/:id/applications/export", ap.ExportCSV)
	g.PATCH("/applications/:id/status", ap.Transition)

	g.GET("/reviews", rv.List)
}
