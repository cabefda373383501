package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/repository"
)

// ContentHandler serves the client CRUD screens of the guest modules. All
// routes sit behind RequireEventCapability(CapWrite).
type ContentHandler struct {
	Schedule *repository.ScheduleRepo
	Menu     *repository.MenuRepo
	Vendors  *repository.VendorRepo
	Survey   *repository.SurveyRepo
	Photos   *repository.PhotoRepo
}

// list writes whatever load returns for the event.
func list[T any](c echo.Context, load func(ctx context.Context, eventID string) ([]T, error)) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := load(ctx, eventID(c))
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, items)
}

// remove deletes the :itemId record of the event.
func remove(c echo.Context, del func(ctx context.Context, eventID, id string) error) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := del(ctx, eventID(c), c.Param("itemId")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- schedule -----

func checkSchedule(s *model.ScheduleItem) fields {
	var f fields
	s.Time, s.Title = strings.TrimSpace(s.Time), strings.TrimSpace(s.Title)
	f.required("time", s.Time)
	f.maxLen("time", s.Time, 20)
	f.required("title", s.Title)
	f.maxLen("title", s.Title, 200)
	f.maxLen("title_en", s.TitleEN, 200)
	f.maxLen("location", s.Location, 200)
	return f
}

func (h *ContentHandler) ListSchedule(c echo.Context) error {
	return list(c, h.Schedule.ListByEvent)
}

func (h *ContentHandler) CreateSchedule(c echo.Context) error {
	var s model.ScheduleItem
	if err := c.Bind(&s); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkSchedule(&s).reject(c); done {
		return err
	}
	s.EventID = eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Schedule.Create(ctx, &s); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *ContentHandler) UpdateSchedule(c echo.Context) error {
	var s model.ScheduleItem
	if err := c.Bind(&s); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkSchedule(&s).reject(c); done {
		return err
	}
	s.ID, s.EventID = c.Param("itemId"), eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Schedule.Update(ctx, &s); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ContentHandler) DeleteSchedule(c echo.Context) error {
	return remove(c, h.Schedule.Delete)
}

// ----- menu -----

func checkMenu(m *model.MenuItem) fields {
	var f fields
	m.Course, m.Name = strings.TrimSpace(m.Course), strings.TrimSpace(m.Name)
	f.required("course", m.Course)
	f.maxLen("course", m.Course, 50)
	f.required("name", m.Name)
	f.maxLen("name", m.Name, 200)
	f.maxLen("name_en", m.NameEN, 200)
	f.maxLen("dietary", m.Dietary, 100)
	return f
}

func (h *ContentHandler) ListMenu(c echo.Context) error {
	return list(c, h.Menu.ListByEvent)
}

func (h *ContentHandler) CreateMenu(c echo.Context) error {
	var m model.MenuItem
	if err := c.Bind(&m); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkMenu(&m).reject(c); done {
		return err
	}
	m.EventID = eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Menu.Create(ctx, &m); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *ContentHandler) UpdateMenu(c echo.Context) error {
	var m model.MenuItem
	if err := c.Bind(&m); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkMenu(&m).reject(c); done {
		return err
	}
	m.ID, m.EventID = c.Param("itemId"), eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Menu.Update(ctx, &m); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *ContentHandler) DeleteMenu(c echo.Context) error {
	return remove(c, h.Menu.Delete)
}

// ----- vendors -----

func checkVendor(v *model.Vendor) fields {
	var f fields
	v.Name, v.Category = strings.TrimSpace(v.Name), strings.TrimSpace(v.Category)
	f.required("name", v.Name)
	f.maxLen("name", v.Name, 200)
	f.required("category", v.Category)
	f.maxLen("category", v.Category, 100)
	f.check(v.Website == "" || validStorageURL(v.Website), "website", "must be an http(s) url")
	f.check(v.Email == "" || strings.Contains(v.Email, "@"), "email", "invalid address")
	return f
}

func (h *ContentHandler) ListVendors(c echo.Context) error {
	return list(c, h.Vendors.ListByEvent)
}

func (h *ContentHandler) CreateVendor(c echo.Context) error {
	var v model.Vendor
	if err := c.Bind(&v); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkVendor(&v).reject(c); done {
		return err
	}
	v.EventID = eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Vendors.Create(ctx, &v); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *ContentHandler) UpdateVendor(c echo.Context) error {
	var v model.Vendor
	if err := c.Bind(&v); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkVendor(&v).reject(c); done {
		return err
	}
	v.ID, v.EventID = c.Param("itemId"), eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Vendors.Update(ctx, &v); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *ContentHandler) DeleteVendor(c echo.Context) error {
	return remove(c, h.Vendors.Delete)
}

// ----- survey -----

func checkQuestion(q *model.SurveyQuestion) fields {
	var f fields
	q.Question = strings.TrimSpace(q.Question)
	if q.Kind == "" {
		q.Kind = model.QuestionText
	}
	f.required("question", q.Question)
	f.maxLen("question", q.Question, 500)
	f.maxLen("question_en", q.QuestionEN, 500)
	f.check(q.Kind.Valid(), "kind", "must be text, choice or rating")
	f.check(q.Kind != model.QuestionChoice || len(q.Options) >= 2, "options", "choice questions need at least 2 options")
	for i, o := range q.Options {
		f.check(strings.TrimSpace(o) != "", fmt.Sprintf("options[%d]", i), "must be non-empty")
	}
	return f
}

func (h *ContentHandler) ListQuestions(c echo.Context) error {
	return list(c, h.Survey.Questions)
}

func (h *ContentHandler) CreateQuestion(c echo.Context) error {
	var q model.SurveyQuestion
	if err := c.Bind(&q); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkQuestion(&q).reject(c); done {
		return err
	}
	q.EventID = eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Survey.CreateQuestion(ctx, &q); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, q)
}

func (h *ContentHandler) UpdateQuestion(c echo.Context) error {
	var q model.SurveyQuestion
	if err := c.Bind(&q); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkQuestion(&q).reject(c); done {
		return err
	}
	q.ID, q.EventID = c.Param("itemId"), eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Survey.UpdateQuestion(ctx, &q); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

func (h *ContentHandler) DeleteQuestion(c echo.Context) error {
	return remove(c, h.Survey.DeleteQuestion)
}

func (h *ContentHandler) ListResponses(c echo.Context) error {
	return list(c, h.Survey.Responses)
}

// ----- photos -----

func (h *ContentHandler) ListPhotos(c echo.Context) error {
	return list(c, func(ctx context.Context, eventID string) ([]*model.Photo, error) {
		return h.Photos.ListByEvent(ctx, eventID, 0)
	})
}

func (h *ContentHandler) DeletePhoto(c echo.Context) error {
	return remove(c, h.Photos.Delete)
}
