package model

import "time"

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusActive    EventStatus = "active"
	StatusCompleted EventStatus = "completed"
	StatusArchived  EventStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// EventType distinguishes weddings from generic events. Some modules are
// wedding-only.
type EventType string

const (
	TypeWedding EventType = "wedding"
	TypeEvent   EventType = "event"
)

func (t EventType) Valid() bool { return t == TypeWedding || t == TypeEvent }

// Template names one of the guest page themes.
type Template string

const (
	TemplateClassic  Template = "classic"
	TemplateElegant  Template = "elegant"
	TemplateColorful Template = "colorful"
	TemplateMinimal  Template = "minimal"
)

func (t Template) Valid() bool {
	switch t {
	case TemplateClassic, TemplateElegant, TemplateColorful, TemplateMinimal:
		return true
	}
	return false
}

// ModuleFlag is the purchased/visible pair stored for every module.
// Purchased maps to the events.module_X column and Visible to
// events.module_X_visible.
type ModuleFlag struct {
	Purchased bool `json:"purchased"`
	Visible   bool `json:"visible"`
}

// ModuleFlags holds the flag pair of each optional module.
type ModuleFlags struct {
	PhotoGallery ModuleFlag `json:"photo_gallery"`
	Schedule     ModuleFlag `json:"schedule"`
	Menu         ModuleFlag `json:"menu"`
	Survey       ModuleFlag `json:"survey"`
	Bingo        ModuleFlag `json:"bingo"`
	PhotoOverlay ModuleFlag `json:"photo_overlay"`
	Vendors      ModuleFlag `json:"vendors"`
}

// Customization is the client-editable look of the guest page.
type Customization struct {
	Template           Template `json:"template"`
	PrimaryColor       string   `json:"primary_color"`
	SecondaryColor     string   `json:"secondary_color"`
	BackgroundColor    string   `json:"background_color"`
	HeroImageURL       string   `json:"hero_image_url,omitempty"`
	BackgroundImageURL string   `json:"background_image_url,omitempty"`
	WelcomeMessage     string   `json:"welcome_message,omitempty"`
	WelcomeMessageEN   string   `json:"welcome_message_en,omitempty"`
}

// Event is a tenant's wedding or celebration. It mirrors a row of the
// `events` table.
type Event struct {
	ID            string        `json:"id"`
	ClientID      string        `json:"client_id"`
	Title         string        `json:"title"`
	EventType     EventType     `json:"event_type"`
	Status        EventStatus   `json:"status"`
	EventDate     *time.Time    `json:"event_date,omitempty"`
	Location      string        `json:"location,omitempty"`
	AccessCode    string        `json:"access_code"`
	Customization Customization `json:"customization"`
	Modules       ModuleFlags   `json:"modules"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsWedding reports whether wedding-only modules apply.
func (e *Event) IsWedding() bool { return e.EventType == TypeWedding }

// EventAccess is the minimal projection the access gate needs.
type EventAccess struct {
	ID       string
	ClientID string
	Status   EventStatus
}
