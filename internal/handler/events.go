package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/eventpage/internal/guestpage"
	"github.com/iliyamo/eventpage/internal/middleware"
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/modules"
	"github.com/iliyamo/eventpage/internal/queue"
	"github.com/iliyamo/eventpage/internal/service"
	"github.com/iliyamo/eventpage/internal/utils"
)

// EventStore is the event persistence used by the admin and client screens.
type EventStore interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
	ListAll(ctx context.Context) ([]*model.Event, error)
	ListByClient(ctx context.Context, clientID string) ([]*model.Event, error)
	UpdateCustomization(ctx context.Context, id string, c model.Customization) error
	UpdateModules(ctx context.Context, id string, m model.ModuleFlags) error
	UpdateDetails(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id string) error
}

// Provisioner creates an event and its client account atomically.
type Provisioner interface {
	Provision(ctx context.Context, email, password, displayName string, e *model.Event) (*model.User, error)
}

// EventHandler serves event management for super admins and clients.
type EventHandler struct {
	Events      EventStore
	Provisioner Provisioner
	Publisher   service.Publisher
	BaseURL     string
	Logger      zerolog.Logger
}

// GuestURL is the link printed on invitations and encoded in QR codes.
func GuestURL(base, accessCode string) string {
	return strings.TrimRight(base, "/") + "/e/" + accessCode
}

// PageURL links to the guest page by event id.
func PageURL(base, eventID string) string {
	return strings.TrimRight(base, "/") + "/events/" + eventID
}

type eventView struct {
	*model.Event
	GuestURL string `json:"guest_url"`
}

func (h *EventHandler) view(e *model.Event) eventView {
	return eventView{Event: e, GuestURL: GuestURL(h.BaseURL, e.AccessCode)}
}

func (h *EventHandler) views(es []*model.Event) []eventView {
	out := make([]eventView, 0, len(es))
	for _, e := range es {
		out = append(out, h.view(e))
	}
	return out
}

type createEventReq struct {
	Title         string               `json:"title"`
	EventType     model.EventType      `json:"event_type"`
	EventDate     *time.Time           `json:"event_date"`
	Location      string               `json:"location"`
	Template      model.Template       `json:"template"`
	Modules       model.ModuleFlags    `json:"modules"`
	Customization *model.Customization `json:"customization"`
	Client        struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	} `json:"client"`
}

// CreateEvent provisions an event together with its client account and
// announces it on the event.provisioned queue.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Client.Email = strings.ToLower(strings.TrimSpace(req.Client.Email))
	if msg, ok := required("title", req.Title, "client.email", req.Client.Email); !ok {
		return badRequest(c, msg)
	}
	if !strings.Contains(req.Client.Email, "@") {
		return badRequest(c, "invalid client.email")
	}
	if err := utils.CheckPassword(req.Client.Password); err != nil {
		return badRequest(c, err.Error())
	}
	if req.EventType == "" {
		req.EventType = model.TypeWedding
	}
	if !req.EventType.Valid() {
		return badRequest(c, "invalid event_type")
	}

	ev := &model.Event{
		Title:     req.Title,
		EventType: req.EventType,
		Status:    model.StatusDraft,
		EventDate: req.EventDate,
		Location:  strings.TrimSpace(req.Location),
		Modules:   req.Modules,
	}
	if req.Customization != nil {
		ev.Customization = *req.Customization
	}
	if req.Template != "" {
		ev.Customization.Template = req.Template
	}
	if msg, ok := checkCustomization(&ev.Customization); !ok {
		return badRequest(c, msg)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	client, err := h.Provisioner.Provision(ctx, req.Client.Email, req.Client.Password, strings.TrimSpace(req.Client.DisplayName), ev)
	if err != nil {
		return respondError(c, err)
	}

	msg := queue.EventProvisionedEvent{
		EventID:       ev.ID,
		Title:         ev.Title,
		EventType:     string(ev.EventType),
		ClientID:      client.ID,
		ClientEmail:   client.Email,
		AccessCode:    ev.AccessCode,
		GuestURL:      GuestURL(h.BaseURL, ev.AccessCode),
		ProvisionedAt: ev.CreatedAt,
	}
	if err := h.Publisher.PublishEventProvisioned(c.Request().Context(), msg); err != nil {
		h.Logger.Warn().Err(err).Str("event_id", ev.ID).Msg("publish event.provisioned failed")
	}
	h.Logger.Info().Str("event_id", ev.ID).Str("client_id", client.ID).Msg("event provisioned")

	return c.JSON(http.StatusCreated, echo.Map{"event": h.view(ev), "client": toUserPart(client)})
}

// ListAllEvents is the super admin overview.
func (h *EventHandler) ListAllEvents(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	es, err := h.Events.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.views(es))
}

// ListMyEvents lists the caller's events; super admins see every event.
func (h *EventHandler) ListMyEvents(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	var (
		es  []*model.Event
		err error
	)
	if model.Role(middleware.Role(c)) == model.RoleSuperAdmin {
		es, err = h.Events.ListAll(ctx)
	} else {
		es, err = h.Events.ListByClient(ctx, middleware.UserID(c))
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.views(es))
}

// GetEvent returns the full event to a writer.
func (h *EventHandler) GetEvent(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	ev, err := h.Events.GetByID(ctx, eventID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event":    h.view(ev),
		"modules":  modules.Entitlements(ev),
		"theme":    guestpage.ThemeFor(ev.Customization),
		"page_url": PageURL(h.BaseURL, ev.ID),
	})
}

type patchEventReq struct {
	Title         *string             `json:"title"`
	EventType     *model.EventType    `json:"event_type"`
	Status        *model.EventStatus  `json:"status"`
	EventDate     *time.Time          `json:"event_date"`
	ClearDate     bool                `json:"clear_event_date"`
	Location      *string             `json:"location"`
	Modules       *model.ModuleFlags  `json:"modules"`
	Customization *customizationPatch `json:"customization"`
}

// PatchEvent lets a super admin change any field, including module
// entitlements and status.
func (h *EventHandler) PatchEvent(c echo.Context) error {
	var req patchEventReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID(c))
	if err != nil {
		return respondError(c, err)
	}

	details := false
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return badRequest(c, "title required")
		}
		ev.Title, details = t, true
	}
	if req.EventType != nil {
		if !req.EventType.Valid() {
			return badRequest(c, "invalid event_type")
		}
		ev.EventType, details = *req.EventType, true
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return badRequest(c, "invalid status")
		}
		ev.Status, details = *req.Status, true
	}
	if req.EventDate != nil {
		ev.EventDate, details = req.EventDate, true
	}
	if req.ClearDate {
		ev.EventDate, details = nil, true
	}
	if req.Location != nil {
		ev.Location, details = strings.TrimSpace(*req.Location), true
	}
	cu := ev.Customization
	if req.Customization != nil {
		req.Customization.apply(&cu)
		if msg, ok := checkCustomization(&cu); !ok {
			return badRequest(c, msg)
		}
	}

	if details {
		if err := h.Events.UpdateDetails(ctx, ev); err != nil {
			return respondError(c, err)
		}
	}
	if req.Modules != nil {
		ev.Modules = *req.Modules
		if err := h.Events.UpdateModules(ctx, ev.ID, ev.Modules); err != nil {
			return respondError(c, err)
		}
	}
	if req.Customization != nil {
		ev.Customization = cu
		if err := h.Events.UpdateCustomization(ctx, ev.ID, ev.Customization); err != nil {
			return respondError(c, err)
		}
	}
	return c.JSON(http.StatusOK, h.view(ev))
}

// DeleteEvent removes an event and everything attached to it.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Events.Delete(ctx, eventID(c)); err != nil {
		return respondError(c, err)
	}
	h.Logger.Info().Str("event_id", eventID(c)).Str("user_id", middleware.UserID(c)).Msg("event deleted")
	return c.NoContent(http.StatusNoContent)
}

// checkCustomization validates colors and template, defaulting the template.
func checkCustomization(cu *model.Customization) (string, bool) {
	if cu.Template == "" {
		cu.Template = model.TemplateClassic
	}
	if !cu.Template.Valid() {
		return "invalid template", false
	}
	for name, v := range map[string]string{
		"primary_color":    cu.PrimaryColor,
		"secondary_color":  cu.SecondaryColor,
		"background_color": cu.BackgroundColor,
	} {
		if v != "" && !guestpage.ValidColor(v) {
			return "invalid " + name, false
		}
	}
	for name, v := range map[string]string{
		"hero_image_url":       cu.HeroImageURL,
		"background_image_url": cu.BackgroundImageURL,
	} {
		if v != "" && !validStorageURL(v) {
			return "invalid " + name, false
		}
	}
	if len(cu.WelcomeMessage) > 2000 || len(cu.WelcomeMessageEN) > 2000 {
		return "welcome message too long", false
	}
	return "", true
}

type customizationPatch struct {
	Template           *model.Template `json:"template"`
	PrimaryColor       *string         `json:"primary_color"`
	SecondaryColor     *string         `json:"secondary_color"`
	BackgroundColor    *string         `json:"background_color"`
	HeroImageURL       *string         `json:"hero_image_url"`
	BackgroundImageURL *string         `json:"background_image_url"`
	WelcomeMessage     *string         `json:"welcome_message"`
	WelcomeMessageEN   *string         `json:"welcome_message_en"`
}

// apply copies the fields present in the request onto cu. An empty string
// clears a field.
func (p customizationPatch) apply(cu *model.Customization) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	if p.Template != nil {
		cu.Template = *p.Template
	}
	set(&cu.PrimaryColor, p.PrimaryColor)
	set(&cu.SecondaryColor, p.SecondaryColor)
	set(&cu.BackgroundColor, p.BackgroundColor)
	set(&cu.HeroImageURL, p.HeroImageURL)
	set(&cu.BackgroundImageURL, p.BackgroundImageURL)
	set(&cu.WelcomeMessage, p.WelcomeMessage)
	set(&cu.WelcomeMessageEN, p.WelcomeMessageEN)
}

// UpdateCustomization changes the look of the guest page. Fields missing
// from the body keep their stored value.
func (h *EventHandler) UpdateCustomization(c echo.Context) error {
	var req customizationPatch
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ev, err := h.Events.GetByID(ctx, eventID(c))
	if err != nil {
		return respondError(c, err)
	}
	cu := ev.Customization
	req.apply(&cu)
	if msg, ok := checkCustomization(&cu); !ok {
		return badRequest(c, msg)
	}
	if err := h.Events.UpdateCustomization(ctx, ev.ID, cu); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"customization": cu, "theme": guestpage.ThemeFor(cu)})
}

// GetModules returns the client visibility screen.
func (h *EventHandler) GetModules(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	ev, err := h.Events.GetByID(ctx, eventID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, modules.Entitlements(ev))
}

// PutModules changes visibility flags only; purchases stay as the admin set
// them. Unknown keys are rejected.
func (h *EventHandler) PutModules(c echo.Context) error {
	var req map[string]bool
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ev, err := h.Events.GetByID(ctx, eventID(c))
	if err != nil {
		return respondError(c, err)
	}
	flags, err := ApplyVisibility(ev.Modules, req)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.Events.UpdateModules(ctx, ev.ID, flags); err != nil {
		return respondError(c, err)
	}
	ev.Modules = flags
	return c.JSON(http.StatusOK, modules.Entitlements(ev))
}

// ApplyVisibility sets the visible half of each named flag pair.
func ApplyVisibility(flags model.ModuleFlags, visible map[string]bool) (model.ModuleFlags, error) {
	for k, v := range visible {
		f := modules.Flag(&flags, k)
		if f == nil {
			return flags, fmt.Errorf("unknown module %q", k)
		}
		f.Visible = v
	}
	return flags, nil
}
