package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventpage/internal/access"
	"github.com/iliyamo/eventpage/internal/middleware"
	"github.com/iliyamo/eventpage/internal/model"
)

// RegisterAdmin registers super admin endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, d Deps) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleSuperAdmin),
	)

	g.POST("/events", d.Events.CreateEvent)
	g.GET("/events", d.Events.ListAllEvents)
	g.PATCH("/events/:id", d.Events.PatchEvent, middleware.RequireEventCapability(d.Gate, access.CapAdmin))
	g.DELETE("/events/:id", d.Events.DeleteEvent, middleware.RequireEventCapability(d.Gate, access.CapDeleteEvent))
}
