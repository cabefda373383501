// Package router registers the HTTP routes of the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventpage/internal/handler"
	"github.com/iliyamo/eventpage/internal/middleware"
)

// Deps carries everything the routes need.
type Deps struct {
	JWTSecret string
	Gate      middleware.Authorizer
	DB        handler.Pinger

	Auth     *handler.AuthHandler
	Events   *handler.EventHandler
	Content  *handler.ContentHandler
	Planning *handler.PlanningHandler
	Cards    *handler.BingoCardHandler
	Public   *handler.PublicHandler

	// PageCache and RateLimit are optional; nil skips them.
	PageCache echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// Register wires every route group.
func Register(e *echo.Echo, d Deps) {
	RegisterRoutes(e, d.DB)
	RegisterAuth(e, d.Auth, d.JWTSecret)
	RegisterAdmin(e, d)
	RegisterClient(e, d)
	RegisterPublic(e, d)
}

// RegisterRoutes registers the unauthenticated health checks.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
}

// RegisterAuth registers login, token refresh, logout and the current user.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// logout works with a refresh token alone; a bearer revokes every session
	g.POST("/logout", a.Logout, middleware.OptionalJWT(jwtSecret))

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// optional drops nil middlewares.
func optional(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
