// Package guestpage assembles the guest-facing page of an event: one layout
// parameterized by a theme and a language, filled with the data of every
// enabled module.
package guestpage

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/eventpage/internal/apperr"
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/modules"
)

// RecentPhotos is how many photos the gallery section carries.
const RecentPhotos = 24

// Source loads module data. Every method is scoped to one event.
type Source interface {
	Schedule(ctx context.Context, eventID string) ([]*model.ScheduleItem, error)
	Menu(ctx context.Context, eventID string) ([]*model.MenuItem, error)
	Questions(ctx context.Context, eventID string) ([]*model.SurveyQuestion, error)
	Vendors(ctx context.Context, eventID string) ([]*model.Vendor, error)
	Photos(ctx context.Context, eventID string, limit int) ([]*model.Photo, error)
	BingoCard(ctx context.Context, eventID string) (*model.BingoCard, error)
}

// Header is the top of the page.
type Header struct {
	EventID        string          `json:"event_id"`
	Title          string          `json:"title"`
	EventType      model.EventType `json:"event_type"`
	Date           *time.Time      `json:"date,omitempty"`
	Location       string          `json:"location,omitempty"`
	WelcomeMessage string          `json:"welcome_message,omitempty"`
}

// Section is one enabled module with its data.
type Section struct {
	modules.Module
	Data any `json:"data"`
}

// Page is the composed guest page.
type Page struct {
	Lang     modules.Lang      `json:"lang"`
	Header   Header            `json:"header"`
	Theme    Theme             `json:"theme"`
	Labels   map[string]string `json:"labels"`
	Sections []Section         `json:"sections"`
}

// Composer builds pages from a Source.
type Composer struct {
	src Source
}

func NewComposer(src Source) *Composer { return &Composer{src: src} }

// Compose renders ev in lang. Sections follow the canonical module order;
// any failing load fails the whole page.
func (c *Composer) Compose(ctx context.Context, ev *model.Event, lang modules.Lang) (*Page, error) {
	enabled := modules.Resolve(ev, lang)
	sections := make([]Section, len(enabled))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range enabled {
		sections[i].Module = m
		g.Go(func() error {
			data, err := c.load(gctx, ev, m, lang)
			if err != nil {
				return err
			}
			sections[i].Data = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	welcome := ev.Customization.WelcomeMessage
	if lang == modules.LangEN && ev.Customization.WelcomeMessageEN != "" {
		welcome = ev.Customization.WelcomeMessageEN
	}
	return &Page{
		Lang: lang,
		Header: Header{
			EventID:        ev.ID,
			Title:          ev.Title,
			EventType:      ev.EventType,
			Date:           ev.EventDate,
			Location:       ev.Location,
			WelcomeMessage: welcome,
		},
		Theme:    ThemeFor(ev.Customization),
		Labels:   Labels(lang),
		Sections: sections,
	}, nil
}

func (c *Composer) load(ctx context.Context, ev *model.Event, m modules.Module, lang modules.Lang) (any, error) {
	switch m.ID {
	case modules.GalleryUpload:
		return UploadView{Overlay: m.Overlay}, nil
	case modules.GalleryView:
		photos, err := c.src.Photos(ctx, ev.ID, RecentPhotos)
		if err != nil {
			return nil, err
		}
		return PhotoViews(photos), nil
	case modules.Schedule:
		items, err := c.src.Schedule(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
		return ScheduleViews(items, lang), nil
	case modules.Menu:
		items, err := c.src.Menu(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
		return MenuCourses(items, lang), nil
	case modules.Bingo:
		card, err := c.src.BingoCard(ctx, ev.ID)
		if errors.Is(err, apperr.ErrNotFound) {
			return BingoView{}, nil
		}
		if err != nil {
			return nil, err
		}
		return BingoSummary(card, lang), nil
	case modules.Survey:
		qs, err := c.src.Questions(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
		return QuestionViews(qs, lang), nil
	case modules.Vendors:
		return c.src.Vendors(ctx, ev.ID)
	}
	return nil, nil
}
