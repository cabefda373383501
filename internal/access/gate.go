// Package access decides whether an actor may read or modify an event's
// data. Every decision is a plain boolean: lookup errors, missing events and
// missing profiles all deny.
package access

import (
	"context"

	"github.com/iliyamo/eventpage/internal/model"
)

// EventLookup loads the fields of an event the gate decides on.
type EventLookup interface {
	EventAccess(ctx context.Context, eventID string) (model.EventAccess, error)
}

// RoleLookup loads the profile role of a user.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (model.Role, error)
}

// Capability names what the caller wants to do with an event.
type Capability int

const (
	// CapRead covers guest-facing reads. Anonymous actors may hold it.
	CapRead Capability = iota
	// CapWrite covers creating, updating and deleting records under an event.
	CapWrite
	// CapDeleteEvent covers removing the event itself.
	CapDeleteEvent
	// CapAdmin covers platform-wide operations such as provisioning.
	CapAdmin
)

func (c Capability) String() string {
	switch c {
	case CapRead:
		return "read"
	case CapWrite:
		return "write"
	case CapDeleteEvent:
		return "delete-event"
	case CapAdmin:
		return "admin"
	}
	return "unknown"
}

// Gate answers authorization questions against the record store.
type Gate struct {
	events EventLookup
	roles  RoleLookup
}

// NewGate builds a Gate over the given lookups.
func NewGate(events EventLookup, roles RoleLookup) *Gate {
	if events == nil || roles == nil {
		panic("nil lookup passed to access.NewGate")
	}
	return &Gate{events: events, roles: roles}
}

// IsOwner reports whether userID is the event's client.
func (g *Gate) IsOwner(ctx context.Context, eventID, userID string) bool {
	if userID == "" {
		return false
	}
	ev, err := g.events.EventAccess(ctx, eventID)
	if err != nil {
		return false
	}
	return ev.ClientID == userID
}

// IsSuperAdmin reports whether userID has the super_admin role.
func (g *Gate) IsSuperAdmin(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	role, err := g.roles.RoleOf(ctx, userID)
	if err != nil {
		return false
	}
	return role == model.RoleSuperAdmin
}

// IsAccessible reports whether the event's guest-facing data may be read.
// Drafts are visible only to the owner and super admins; every other status
// is open to anyone. An empty userID is an anonymous actor.
func (g *Gate) IsAccessible(ctx context.Context, eventID, userID string) bool {
	ev, err := g.events.EventAccess(ctx, eventID)
	if err != nil {
		return false
	}
	if ev.Status != model.StatusDraft {
		return true
	}
	if userID == "" {
		return false
	}
	if ev.ClientID == userID {
		return true
	}
	return g.IsSuperAdmin(ctx, userID)
}

// CanWrite reports whether userID may modify records under the event.
func (g *Gate) CanWrite(ctx context.Context, eventID, userID string) bool {
	if userID == "" {
		return false
	}
	return g.IsOwner(ctx, eventID, userID) || g.IsSuperAdmin(ctx, userID)
}

// CanDeleteEvent reports whether userID may delete events.
func (g *Gate) CanDeleteEvent(ctx context.Context, userID string) bool {
	return g.IsSuperAdmin(ctx, userID)
}

// Allowed dispatches on the capability.
func (g *Gate) Allowed(ctx context.Context, capability Capability, eventID, userID string) bool {
	switch capability {
	case CapRead:
		return g.IsAccessible(ctx, eventID, userID)
	case CapWrite:
		return g.CanWrite(ctx, eventID, userID)
	case CapDeleteEvent:
		return g.CanDeleteEvent(ctx, userID)
	case CapAdmin:
		return g.IsSuperAdmin(ctx, userID)
	}
	return false
}
