package guestpage

import (
	"regexp"

	"github.com/iliyamo/eventpage/internal/model"
)

// Palette is the color set of a theme.
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
}

// Theme is everything the page renderer needs to style the one guest page
// layout: colors, shapes and spacing tokens.
type Theme struct {
	Template      model.Template `json:"template"`
	Colors        Palette        `json:"colors"`
	HeadingFont   string         `json:"heading_font"`
	BodyFont      string         `json:"body_font"`
	CornerRadius  int            `json:"corner_radius"`
	Spacing       int            `json:"spacing"`
	CardShadow    bool           `json:"card_shadow"`
	Ornament      string         `json:"ornament,omitempty"`
	HeroImage     string         `json:"hero_image,omitempty"`
	BackgroundImg string         `json:"background_image,omitempty"`
}

var themes = map[model.Template]Theme{
	model.TemplateClassic: {
		Template:     model.TemplateClassic,
		Colors:       Palette{Primary: "#8b6f47", Secondary: "#d4c4a8", Background: "#fdfbf7", Surface: "#ffffff", Text: "#3d3326"},
		HeadingFont:  "Playfair Display",
		BodyFont:     "Lora",
		CornerRadius: 8,
		Spacing:      24,
		CardShadow:   true,
		Ornament:     "flourish",
	},
	model.TemplateElegant: {
		Template:     model.TemplateElegant,
		Colors:       Palette{Primary: "#1f2937", Secondary: "#c9a96e", Background: "#faf8f5", Surface: "#ffffff", Text: "#111827"},
		HeadingFont:  "Cormorant Garamond",
		BodyFont:     "Montserrat",
		CornerRadius: 2,
		Spacing:      32,
		CardShadow:   false,
		Ornament:     "line",
	},
	model.TemplateColorful: {
		Template:     model.TemplateColorful,
		Colors:       Palette{Primary: "#e11d74", Secondary: "#f59e0b", Background: "#fff7ed", Surface: "#ffffff", Text: "#1f2937"},
		HeadingFont:  "Poppins",
		BodyFont:     "Nunito",
		CornerRadius: 20,
		Spacing:      20,
		CardShadow:   true,
		Ornament:     "confetti",
	},
	model.TemplateMinimal: {
		Template:     model.TemplateMinimal,
		Colors:       Palette{Primary: "#111111", Secondary: "#777777", Background: "#ffffff", Surface: "#fafafa", Text: "#111111"},
		HeadingFont:  "Inter",
		BodyFont:     "Inter",
		CornerRadius: 0,
		Spacing:      16,
		CardShadow:   false,
	},
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a #rgb or #rrggbb color.
func ValidColor(s string) bool { return hexColor.MatchString(s) }

// ThemeFor derives the theme of a page from the event's customization.
// Unknown templates fall back to classic; valid custom colors override the
// template's palette.
func ThemeFor(c model.Customization) Theme {
	t, ok := themes[c.Template]
	if !ok {
		t = themes[model.TemplateClassic]
	}
	if ValidColor(c.PrimaryColor) {
		t.Colors.Primary = c.PrimaryColor
	}
	if ValidColor(c.SecondaryColor) {
		t.Colors.Secondary = c.SecondaryColor
	}
	if ValidColor(c.BackgroundColor) {
		t.Colors.Background = c.BackgroundColor
	}
	t.HeroImage = c.HeroImageURL
	t.BackgroundImg = c.BackgroundImageURL
	return t
}
