package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/eventpage/internal/access"
	"github.com/iliyamo/eventpage/internal/apperr"
	"github.com/iliyamo/eventpage/internal/bingo"
	"github.com/iliyamo/eventpage/internal/guestpage"
	"github.com/iliyamo/eventpage/internal/middleware"
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/modules"
	"github.com/iliyamo/eventpage/internal/queue"
	"github.com/iliyamo/eventpage/internal/service"
	"github.com/iliyamo/eventpage/internal/utils"
)

// EventReader loads events for guests.
type EventReader interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetByAccessCode(ctx context.Context, code string) (*model.Event, error)
}

// PhotoWriter stores uploaded photo metadata.
type PhotoWriter interface {
	Create(ctx context.Context, p *model.Photo) error
}

// ResponseWriter validates and stores survey answers.
type ResponseWriter interface {
	Question(ctx context.Context, eventID, id string) (*model.SurveyQuestion, error)
	CreateResponses(ctx context.Context, responses []*model.SurveyResponse) error
}

// PublicHandler serves the guest side of an event. Routes sit behind
// RequireEventCapability(CapRead), so the event is known to be accessible.
type PublicHandler struct {
	Events     EventReader
	Gate       middleware.Authorizer
	Composer   *guestpage.Composer
	Content    guestpage.Source
	PhotoStore PhotoWriter
	Responses  ResponseWriter
	Bingo      *bingo.Engine
	Publisher  service.Publisher
	Logger     zerolog.Logger
}

// langOf reads ?lang= and falls back to Accept-Language, then German.
func langOf(c echo.Context) modules.Lang {
	if l := c.QueryParam("lang"); l != "" {
		return modules.ParseLang(l)
	}
	return modules.ParseLang(c.Request().Header.Get("Accept-Language"))
}

func (h *PublicHandler) event(c echo.Context) (*model.Event, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()
	return h.Events.GetByID(ctx, eventID(c))
}

// moduleOpen reports whether the module may be used by the caller. Writers
// of the event reach hidden modules so they can preview them.
func (h *PublicHandler) moduleOpen(c echo.Context, ev *model.Event, id modules.ID) bool {
	if modules.Enabled(ev, id) {
		return true
	}
	uid := middleware.UserID(c)
	return uid != "" && h.Gate.Allowed(c.Request().Context(), access.CapWrite, ev.ID, uid)
}

func moduleNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": "module not available"})
}

// ResolveAccessCode maps a guest access code to its event.
func (h *PublicHandler) ResolveAccessCode(c echo.Context) error {
	code := utils.NormalizeAccessCode(c.Param("code"))
	if !utils.ValidAccessCode(code) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ev, err := h.Events.GetByAccessCode(ctx, code)
	if err != nil {
		return respondError(c, err)
	}
	if !h.Gate.Allowed(ctx, access.CapRead, ev.ID, middleware.UserID(c)) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"event_id": ev.ID, "title": ev.Title})
}

// Page returns the composed guest page.
func (h *PublicHandler) Page(c echo.Context) error {
	ev, err := h.event(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Composer.Compose(ctx, ev, langOf(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Modules lists the enabled modules of the event.
func (h *PublicHandler) Modules(c echo.Context) error {
	ev, err := h.event(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, modules.Resolve(ev, langOf(c)))
}

func (h *PublicHandler) Schedule(c echo.Context) error {
	ev, err := h.event(c)
	if err != nil {
		return respondError(c, err)
	}
	if !h.moduleOpen(c, ev, modules.Schedule) {
		return moduleNotFound(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Content.Schedule(ctx, ev.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, guestpage.ScheduleViews(items, langOf(c)))
}

func (h *PublicHandler) Menu(c echo.Context) error {
	ev, err := h.event(c)
	if err != nil {
		return respondError(c, err)
	}
	if !h.moduleOpen(c, ev, modules.Menu) {
		return moduleNotFound(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Content.Menu(ctx, ev.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, guestpage.MenuCourses(items, langOf(c)))
}

func (h *PublicHandler) Vendors(c echo.Context) error {
	ev, err := h.event(c)
	if err != nil {
		return respondError(c, err)
	}
	if !h.moduleOpen(c, ev, modules.Vendors) {
		return moduleNotFound(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	vs, err := h.Content.Vendors(ctx, ev.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, vs)
}

func (h *PublicHandler) Survey(c echo.Context) error {
	ev, err := h.event(c)
	if err != nil {
		return respondError(c, err)
	}
	if !h.moduleOpen(c, ev, modules.Survey) {
		return moduleNotFound(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	qs, err := h.Content.Questions(ctx, ev.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, guestpage.QuestionViews(qs, langOf(c)))
}

// maxPhotoPage caps ?limit= on the gallery.
const maxPhotoPage = 100

func (h *PublicHandler) Photos(c echo.Context) error {
	ev, err := h.event(c)
	if err != nil {
		return respondError(c, err)
	}
	if !h.moduleOpen(c, ev, modules.GalleryView) {
		return moduleNotFound(c)
	}
	limit := guestpage.RecentPhotos
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n > 0 {
		limit = min(n, maxPhotoPage)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ps, err := h.Content.Photos(ctx, ev.ID, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, guestpage.PhotoViews(ps))
}

type guestReq struct {
	Name string `json:"name"`
}

// NewGuest hands out a guest id. Guests have no account; the id ties their
// bingo progress, photos and answers together.
func (h *PublicHandler) NewGuest(c echo.Context) error {
	var req guestReq
	_ = c.Bind(&req)
	name := strings.TrimSpace(req.Name)
	if len(name) > 100 {
		return badRequest(c, "name too long")
	}
	return c.JSON(http.StatusCreated, echo.Map{"guest_id": uuid.NewString(), "name": name})
}

type photoReq struct {
	GuestID    string `json:"guest_id"`
	GuestName  string `json:"guest_name"`
	StorageURL string `json:"storage_url"`
	Caption    string `json:"caption"`
}

func validStorageURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}

// UploadPhoto records a photo a guest has put into object storage.
func (h *PublicHandler) UploadPhoto(c echo.Context) error {
	var req photoReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if !validStorageURL(req.StorageURL) {
		return badRequest(c, "storage_url must be an http(s) url")
	}
	if req.GuestID != "" && !validID(req.GuestID) {
		return badRequest(c, "invalid guest_id")
	}
	ev, err := h.event(c)
	if err != nil {
		return respondError(c, err)
	}
	if !h.moduleOpen(c, ev, modules.GalleryUpload) {
		return moduleNotFound(c)
	}

	p := &model.Photo{
		EventID:    ev.ID,
		GuestID:    req.GuestID,
		GuestName:  strings.TrimSpace(req.GuestName),
		StorageURL: req.StorageURL,
		Caption:    strings.TrimSpace(req.Caption),
		Overlay:    modules.OverlayEnabled(ev),
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.PhotoStore.Create(ctx, p); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

type answerReq struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type surveyReq struct {
	GuestID   string      `json:"guest_id"`
	GuestName string      `json:"guest_name"`
	Answers   []answerReq `json:"answers"`
}

// checkAnswer validates one answer against its question.
func checkAnswer(q *model.SurveyQuestion, answer string) error {
	switch q.Kind {
	case model.QuestionChoice:
		for _, o := range q.Options {
			if o == answer {
				return nil
			}
		}
		return apperr.Invalid("answer to %s is not an option", q.ID)
	case model.QuestionRating:
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > 5 {
			return apperr.Invalid("rating for %s must be 1..5", q.ID)
		}
	}
	return nil
}

// SubmitSurvey stores a guest's answers atomically.
func (h *PublicHandler) SubmitSurvey(c echo.Context) error {
	var req surveyReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if !validID(req.GuestID) {
		return badRequest(c, "guest_id required")
	}
	if len(req.Answers) == 0 {
		return badRequest(c, "answers required")
	}
	ev, err := h.event(c)
	if err != nil {
		return respondError(c, err)
	}
	if !h.moduleOpen(c, ev, modules.Survey) {
		return moduleNotFound(c)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	seen := map[string]bool{}
	out := make([]*model.SurveyResponse, 0, len(req.Answers))
	for _, a := range req.Answers {
		if seen[a.QuestionID] {
			return badRequest(c, "duplicate answer for "+a.QuestionID)
		}
		seen[a.QuestionID] = true
		answer := strings.TrimSpace(a.Answer)
		if answer == "" {
			return badRequest(c, "empty answer for "+a.QuestionID)
		}
		q, err := h.Responses.Question(ctx, ev.ID, a.QuestionID)
		if err != nil {
			return respondError(c, err)
		}
		if err := checkAnswer(q, answer); err != nil {
			return respondError(c, err)
		}
		out = append(out, &model.SurveyResponse{
			EventID:    ev.ID,
			QuestionID: q.ID,
			GuestID:    req.GuestID,
			GuestName:  strings.TrimSpace(req.GuestName),
			Answer:     answer,
		})
	}
	if err := h.Responses.CreateResponses(ctx, out); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"saved": len(out)})
}

// card loads the event's bingo card once the module is open.
func (h *PublicHandler) card(c echo.Context) (*model.Event, *model.BingoCard, error) {
	ev, err := h.event(c)
	if err != nil {
		return nil, nil, err
	}
	if !h.moduleOpen(c, ev, modules.Bingo) {
		return nil, nil, apperr.ErrNotFound
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	card, err := h.Content.BingoCard(ctx, ev.ID)
	if err != nil {
		return nil, nil, err
	}
	return ev, card, nil
}

// BingoBoard returns the guest's board, creating progress on first visit.
func (h *PublicHandler) BingoBoard(c echo.Context) error {
	guestID := c.QueryParam("guest_id")
	if !validID(guestID) {
		return badRequest(c, "guest_id required")
	}
	_, card, err := h.card(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	board, err := h.Bingo.Open(ctx, card.ID, guestID, langOf(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, board)
}

type toggleReq struct {
	GuestID string `json:"guest_id"`
	Index   *int   `json:"index"`
}

// BingoToggle flips one cell. The first completed line publishes a
// bingo.won message.
func (h *PublicHandler) BingoToggle(c echo.Context) error {
	var req toggleReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if !validID(req.GuestID) {
		return badRequest(c, "guest_id required")
	}
	if req.Index == nil {
		return badRequest(c, "index required")
	}
	ev, card, err := h.card(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	res, err := h.Bingo.Toggle(ctx, card.ID, req.GuestID, *req.Index)
	if err != nil {
		return respondError(c, err)
	}
	if res.JustWon {
		h.announceWinner(c.Request().Context(), ev, card, req.GuestID, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PublicHandler) announceWinner(ctx context.Context, ev *model.Event, card *model.BingoCard, guestID string, res *bingo.Result) {
	msg := queue.BingoWonEvent{
		EventID:        ev.ID,
		EventTitle:     ev.Title,
		CardID:         card.ID,
		GuestID:        guestID,
		CompletedItems: res.Completed,
		WonAt:          time.Now().UTC(),
	}
	if err := h.Publisher.PublishBingoWon(ctx, msg); err != nil {
		h.Logger.Warn().Err(err).Str("event_id", ev.ID).Str("guest_id", guestID).Msg("publish bingo.won failed")
		return
	}
	h.Logger.Info().Str("event_id", ev.ID).Str("guest_id", guestID).Msg("bingo winner")
}
