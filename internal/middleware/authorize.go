package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventpage/internal/access"
)

// Authorizer is the decision the middleware delegates to; *access.Gate
// implements it.
type Authorizer interface {
	Allowed(ctx context.Context, capability access.Capability, eventID, userID string) bool
}

// EventParam is the route parameter carrying the event id.
const EventParam = "id"

// RequireEventCapability guards a route with one capability on the event
// named by the :id parameter.
//
// Reads are open to anonymous callers; a denied read answers 404 so a draft
// looks like a missing event. Every other capability needs an identity (401
// without one) and answers 403 when the gate says no.
func RequireEventCapability(gate Authorizer, capability access.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := UserID(c)
			if capability != access.CapRead && uid == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			eventID := c.Param(EventParam)
			if gate.Allowed(c.Request().Context(), capability, eventID, uid) {
				return next(c)
			}
			if capability == access.CapRead {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}
