// Package modules turns an event's purchased/visible flags into the list of
// guest-facing modules. It is the single place that decides exposure; the
// guest page, the guest endpoints and the client visibility screen all ask it.
package modules

import "github.com/iliyamo/eventpage/internal/model"

// ID identifies a guest page section.
type ID string

const (
	GalleryUpload ID = "gallery-upload"
	GalleryView   ID = "gallery-view"
	Schedule      ID = "schedule"
	Menu          ID = "menu"
	Bingo         ID = "bingo"
	Survey        ID = "survey"
	Vendors       ID = "vendors"
)

// Order is the canonical rendering order.
var Order = []ID{GalleryUpload, GalleryView, Schedule, Menu, Bingo, Survey, Vendors}

// Lang selects the language of display texts.
type Lang string

const (
	LangDE Lang = "de"
	LangEN Lang = "en"
)

// ParseLang maps a query value or Accept-Language prefix to a Lang,
// defaulting to German.
func ParseLang(s string) Lang {
	if len(s) >= 2 && (s[:2] == "en" || s[:2] == "EN") {
		return LangEN
	}
	return LangDE
}

// Meta is the display metadata of a module.
type Meta struct {
	TitleDE string
	TitleEN string
	Icon    string
	Anchor  string
}

var meta = map[ID]Meta{
	GalleryUpload: {TitleDE: "Fotos hochladen", TitleEN: "Upload photos", Icon: "camera", Anchor: "upload"},
	GalleryView:   {TitleDE: "Fotogalerie", TitleEN: "Photo gallery", Icon: "images", Anchor: "gallery"},
	Schedule:      {TitleDE: "Ablauf", TitleEN: "Schedule", Icon: "clock", Anchor: "schedule"},
	Menu:          {TitleDE: "Menü", TitleEN: "Menu", Icon: "utensils", Anchor: "menu"},
	Bingo:         {TitleDE: "Bingo", TitleEN: "Bingo", Icon: "grid", Anchor: "bingo"},
	Survey:        {TitleDE: "Umfrage", TitleEN: "Survey", Icon: "clipboard", Anchor: "survey"},
	Vendors:       {TitleDE: "Dienstleister", TitleEN: "Vendors", Icon: "store", Anchor: "vendors"},
}

// MetaOf returns the display metadata of id.
func MetaOf(id ID) Meta { return meta[id] }

// Module is one enabled guest page section with its display metadata.
type Module struct {
	ID      ID     `json:"id"`
	Title   string `json:"title"`
	Icon    string `json:"icon"`
	Anchor  string `json:"anchor"`
	Overlay bool   `json:"overlay,omitempty"`
}

// weddingOnly lists modules that only exist for weddings.
func weddingOnly(id ID) bool { return id == Vendors }

func flagFor(ev *model.Event, id ID) model.ModuleFlag {
	switch id {
	case GalleryUpload, GalleryView:
		return ev.Modules.PhotoGallery
	case Schedule:
		return ev.Modules.Schedule
	case Menu:
		return ev.Modules.Menu
	case Bingo:
		return ev.Modules.Bingo
	case Survey:
		return ev.Modules.Survey
	case Vendors:
		return ev.Modules.Vendors
	}
	return model.ModuleFlag{}
}

func on(f model.ModuleFlag) bool { return f.Purchased && f.Visible }

// Enabled reports whether id is exposed to guests of ev.
func Enabled(ev *model.Event, id ID) bool {
	if ev == nil {
		return false
	}
	if weddingOnly(id) && !ev.IsWedding() {
		return false
	}
	return on(flagFor(ev, id))
}

// OverlayEnabled reports whether uploads get the photo overlay frame. Like
// vendors it is wedding-only.
func OverlayEnabled(ev *model.Event) bool {
	return ev != nil && ev.IsWedding() && on(ev.Modules.PhotoOverlay)
}

// Resolve returns the enabled modules of ev in canonical order.
func Resolve(ev *model.Event, lang Lang) []Module {
	out := make([]Module, 0, len(Order))
	for _, id := range Order {
		if !Enabled(ev, id) {
			continue
		}
		m := meta[id]
		title := m.TitleDE
		if lang == LangEN {
			title = m.TitleEN
		}
		mod := Module{ID: id, Title: title, Icon: m.Icon, Anchor: m.Anchor}
		if id == GalleryUpload {
			mod.Overlay = OverlayEnabled(ev)
		}
		out = append(out, mod)
	}
	return out
}

// Entitlement describes one module on the client visibility screen.
type Entitlement struct {
	Key       string `json:"key"`
	Purchased bool   `json:"purchased"`
	Visible   bool   `json:"visible"`
	Available bool   `json:"available"`
	Enabled   bool   `json:"enabled"`
}

// Keys of the stored flag pairs, in screen order.
const (
	KeyPhotoGallery = "photo_gallery"
	KeySchedule     = "schedule"
	KeyMenu         = "menu"
	KeySurvey       = "survey"
	KeyBingo        = "bingo"
	KeyPhotoOverlay = "photo_overlay"
	KeyVendors      = "vendors"
)

// Keys lists every stored module key.
var Keys = []string{KeyPhotoGallery, KeySchedule, KeyMenu, KeySurvey, KeyBingo, KeyPhotoOverlay, KeyVendors}

// Flag returns a pointer to the flag pair stored under key, or nil.
func Flag(f *model.ModuleFlags, key string) *model.ModuleFlag {
	switch key {
	case KeyPhotoGallery:
		return &f.PhotoGallery
	case KeySchedule:
		return &f.Schedule
	case KeyMenu:
		return &f.Menu
	case KeySurvey:
		return &f.Survey
	case KeyBingo:
		return &f.Bingo
	case KeyPhotoOverlay:
		return &f.PhotoOverlay
	case KeyVendors:
		return &f.Vendors
	}
	return nil
}

// Available reports whether key applies to ev at all. Wedding-only modules
// are unavailable for generic events whatever their flags say.
func Available(ev *model.Event, key string) bool {
	if key == KeyVendors || key == KeyPhotoOverlay {
		return ev.IsWedding()
	}
	return true
}

// Entitlements lists all modules of ev with their flags for the client
// visibility screen.
func Entitlements(ev *model.Event) []Entitlement {
	out := make([]Entitlement, 0, len(Keys))
	flags := ev.Modules
	for _, k := range Keys {
		f := *Flag(&flags, k)
		avail := Available(ev, k)
		out = append(out, Entitlement{
			Key:       k,
			Purchased: f.Purchased && avail,
			Visible:   f.Visible,
			Available: avail,
			Enabled:   avail && on(f),
		})
	}
	return out
}
