package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventpage/internal/access"
	"github.com/iliyamo/eventpage/internal/middleware"
)

// RegisterPublic registers the guest endpoints under /v1/public. A bearer
// token is optional; with one, owners and super admins can preview draft
// events and hidden modules.
func RegisterPublic(e *echo.Echo, d Deps) {
	p := d.Public
	g := e.Group("/v1/public", optional(middleware.OptionalJWT(d.JWTSecret), d.RateLimit)...)
	g.GET("/access/:code", p.ResolveAccessCode)

	ev := g.Group("/events/:id", middleware.RequireEventCapability(d.Gate, access.CapRead))
	ev.GET("/page", p.Page, optional(d.PageCache)...)
	ev.GET("/modules", p.Modules)
	ev.GET("/schedule", p.Schedule)
	ev.GET("/menu", p.Menu)
	ev.GET("/vendors", p.Vendors)
	ev.GET("/photos", p.Photos)
	ev.GET("/survey", p.Survey)

	ev.POST("/guests", p.NewGuest)
	ev.POST("/photos", p.UploadPhoto)
	ev.POST("/survey/responses", p.SubmitSurvey)
	ev.GET("/bingo", p.BingoBoard)
	ev.POST("/bingo/toggle", p.BingoToggle)
}
