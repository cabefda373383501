package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventpage/internal/access"
	"github.com/iliyamo/eventpage/internal/middleware"
)

// RegisterClient registers the event management endpoints under /v1/events.
// Every route below /:id needs write access to that event, which the owning
// client and super admins have.
func RegisterClient(e *echo.Echo, d Deps) {
	g := e.Group("/v1/events", middleware.JWTAuth(d.JWTSecret))
	g.GET("", d.Events.ListMyEvents)

	ev := g.Group("/:id", middleware.RequireEventCapability(d.Gate, access.CapWrite))
	ev.GET("", d.Events.GetEvent)
	ev.PATCH("/customization", d.Events.UpdateCustomization)
	ev.GET("/modules", d.Events.GetModules)
	ev.PUT("/modules", d.Events.PutModules)
	ev.GET("/qr.png", d.Events.QRCode)

	// ---- Guest module content ----
	ev.GET("/schedule", d.Content.ListSchedule)
	ev.POST("/schedule", d.Content.CreateSchedule)
	ev.PUT("/schedule/:itemId", d.Content.UpdateSchedule)
	ev.DELETE("/schedule/:itemId", d.Content.DeleteSchedule)

	ev.GET("/menu", d.Content.ListMenu)
	ev.POST("/menu", d.Content.CreateMenu)
	ev.PUT("/menu/:itemId", d.Content.UpdateMenu)
	ev.DELETE("/menu/:itemId", d.Content.DeleteMenu)

	ev.GET("/vendors", d.Content.ListVendors)
	ev.POST("/vendors", d.Content.CreateVendor)
	ev.PUT("/vendors/:itemId", d.Content.UpdateVendor)
	ev.DELETE("/vendors/:itemId", d.Content.DeleteVendor)

	ev.GET("/survey/questions", d.Content.ListQuestions)
	ev.POST("/survey/questions", d.Content.CreateQuestion)
	ev.PUT("/survey/questions/:itemId", d.Content.UpdateQuestion)
	ev.DELETE("/survey/questions/:itemId", d.Content.DeleteQuestion)
	ev.GET("/survey/responses", d.Content.ListResponses)

	ev.GET("/photos", d.Content.ListPhotos)
	ev.DELETE("/photos/:itemId", d.Content.DeletePhoto)

	ev.GET("/bingo/card", d.Cards.GetCard)
	ev.PUT("/bingo/card", d.Cards.PutCard)
	ev.GET("/bingo/winners", d.Cards.Winners)

	// ---- Planning ----
	ev.GET("/budget", d.Planning.GetBudget)
	ev.PUT("/budget", d.Planning.PutBudget)

	ev.GET("/expenses", d.Planning.ListExpenses)
	ev.POST("/expenses", d.Planning.CreateExpense)
	ev.PUT("/expenses/:itemId", d.Planning.UpdateExpense)
	ev.DELETE("/expenses/:itemId", d.Planning.DeleteExpense)

	ev.GET("/checklist", d.Planning.ListChecklist)
	ev.POST("/checklist", d.Planning.CreateChecklistItem)
	ev.PUT("/checklist/:itemId", d.Planning.UpdateChecklistItem)
	ev.DELETE("/checklist/:itemId", d.Planning.DeleteChecklistItem)
}
