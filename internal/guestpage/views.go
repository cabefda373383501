package guestpage

import (
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/modules"
)

// pick returns en when lang is English and en is set, otherwise de.
func pick(lang modules.Lang, de, en string) string {
	if lang == modules.LangEN && en != "" {
		return en
	}
	return de
}

// pickAt is pick over parallel slices.
func pickAt(lang modules.Lang, de, en []string, i int) string {
	var e string
	if i < len(en) {
		e = en[i]
	}
	var d string
	if i < len(de) {
		d = de[i]
	}
	return pick(lang, d, e)
}

type UploadView struct {
	Overlay bool `json:"overlay"`
}

type PhotoView struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	GuestName string `json:"guest_name,omitempty"`
	Overlay   bool   `json:"overlay"`
}

func PhotoViews(ps []*model.Photo) []PhotoView {
	out := make([]PhotoView, 0, len(ps))
	for _, p := range ps {
		out = append(out, PhotoView{ID: p.ID, URL: p.StorageURL, Caption: p.Caption, GuestName: p.GuestName, Overlay: p.Overlay})
	}
	return out
}

type ScheduleView struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

func ScheduleViews(items []*model.ScheduleItem, lang modules.Lang) []ScheduleView {
	out := make([]ScheduleView, 0, len(items))
	for _, it := range items {
		out = append(out, ScheduleView{
			Time:        it.Time,
			Title:       pick(lang, it.Title, it.TitleEN),
			Description: pick(lang, it.Description, it.DescriptionEN),
			Location:    it.Location,
		})
	}
	return out
}

type DishView struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Dietary     string `json:"dietary,omitempty"`
}

// Course groups dishes under one course name.
type Course struct {
	Name   string     `json:"name"`
	Dishes []DishView `json:"dishes"`
}

// MenuCourses groups items by course, keeping the order in which each
// course first appears.
func MenuCourses(items []*model.MenuItem, lang modules.Lang) []Course {
	var out []Course
	idx := map[string]int{}
	for _, it := range items {
		i, ok := idx[it.Course]
		if !ok {
			i = len(out)
			idx[it.Course] = i
			out = append(out, Course{Name: it.Course})
		}
		out[i].Dishes = append(out[i].Dishes, DishView{
			Name:        pick(lang, it.Name, it.NameEN),
			Description: pick(lang, it.Description, it.DescriptionEN),
			Dietary:     it.Dietary,
		})
	}
	return out
}

// BingoView tells the page whether a board exists. The board itself is
// loaded per guest from the bingo endpoint.
type BingoView struct {
	Available bool     `json:"available"`
	CardID    string   `json:"card_id,omitempty"`
	Actions   []string `json:"actions,omitempty"`
}

func BingoSummary(card *model.BingoCard, lang modules.Lang) BingoView {
	v := BingoView{Available: len(card.Items) > 0, CardID: card.ID}
	for i := range card.Actions {
		v.Actions = append(v.Actions, pickAt(lang, card.Actions, card.ActionsEN, i))
	}
	return v
}

type QuestionView struct {
	ID       string             `json:"id"`
	Question string             `json:"question"`
	Kind     model.QuestionKind `json:"kind"`
	Options  []string           `json:"options,omitempty"`
}

func QuestionViews(qs []*model.SurveyQuestion, lang modules.Lang) []QuestionView {
	out := make([]QuestionView, 0, len(qs))
	for _, q := range qs {
		out = append(out, QuestionView{ID: q.ID, Question: pick(lang, q.Question, q.QuestionEN), Kind: q.Kind, Options: q.Options})
	}
	return out
}

var labels = map[modules.Lang]map[string]string{
	modules.LangDE: {
		"welcome":       "Willkommen",
		"upload":        "Foto auswählen",
		"submit":        "Absenden",
		"your_name":     "Dein Name",
		"bingo_won":     "Bingo! Du hast gewonnen!",
		"no_photos":     "Noch keine Fotos",
		"thank_you":     "Vielen Dank!",
		"language":      "Sprache",
		"overlay_badge": "Mit Rahmen",
	},
	modules.LangEN: {
		"welcome":       "Welcome",
		"upload":        "Choose photo",
		"submit":        "Submit",
		"your_name":     "Your name",
		"bingo_won":     "Bingo! You won!",
		"no_photos":     "No photos yet",
		"thank_you":     "Thank you!",
		"language":      "Language",
		"overlay_badge": "With frame",
	},
}

// Labels returns a copy of the static UI strings for lang.
func Labels(lang modules.Lang) map[string]string {
	src, ok := labels[lang]
	if !ok {
		src = labels[modules.LangDE]
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
