package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/eventpage/internal/apperr"
	"github.com/iliyamo/eventpage/internal/bingo"
	"github.com/iliyamo/eventpage/internal/guestpage"
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/modules"
)

const (
	evID    = "ev-1"
	ownerID = "client-1"
	guestA  = "7f1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
)

func on() model.ModuleFlag { return model.ModuleFlag{Purchased: true, Visible: true} }

func activeWedding() *model.Event {
	return &model.Event{
		ID:         evID,
		ClientID:   ownerID,
		Title:      "Anna & Ben",
		EventType:  model.TypeWedding,
		Status:     model.StatusActive,
		AccessCode: "ABC234",
		Modules: model.ModuleFlags{
			PhotoGallery: on(),
			Schedule:     on(),
			Survey:       on(),
			Bingo:        on(),
			PhotoOverlay: on(),
			Menu:         model.ModuleFlag{Purchased: true, Visible: false},
		},
	}
}

func card() *model.BingoCard {
	items := make([]string, 16)
	for i := range items {
		items[i] = fmt.Sprintf("item %d", i)
	}
	return &model.BingoCard{ID: "card-1", EventID: evID, Items: items}
}

type publicFixture struct {
	h         *PublicHandler
	events    *fakeEvents
	photos    *fakePhotos
	responses *fakeResponses
	pub       *fakePublisher
}

func newPublic(ev *model.Event) publicFixture {
	events := newFakeEvents(ev)
	src := fakeSource{card: card()}
	store := &fakeBingoStore{card: src.card, progress: map[string]*model.BingoProgress{}}
	f := publicFixture{
		events: events,
		photos: &fakePhotos{},
		responses: &fakeResponses{questions: map[string]*model.SurveyQuestion{
			"q-text":   {ID: "q-text", Kind: model.QuestionText},
			"q-choice": {ID: "q-choice", Kind: model.QuestionChoice, Options: []string{"Fisch", "Fleisch"}},
			"q-rating": {ID: "q-rating", Kind: model.QuestionRating},
		}},
		pub: &fakePublisher{},
	}
	f.h = &PublicHandler{
		Events:     events,
		Gate:       fakeGate{events: events},
		Composer:   guestpage.NewComposer(src),
		Content:    src,
		PhotoStore: f.photos,
		Responses:  f.responses,
		Bingo:      bingo.NewEngine(store, bingo.Options{}),
		Publisher:  f.pub,
		Logger:     zerolog.Nop(),
	}
	return f
}

var evParams = map[string]string{"id": evID}

func TestStatusOf(t *testing.T) {
	cases := map[error]int{
		apperr.ErrNotFound:                  http.StatusNotFound,
		apperr.ErrForbidden:                 http.StatusForbidden,
		apperr.ErrUnauthenticated:           http.StatusUnauthorized,
		apperr.Invalid("index 12"):          http.StatusUnprocessableEntity,
		apperr.ErrConflict:                  http.StatusConflict,
		apperr.Store("x", errors.New("io")): http.StatusInternalServerError,
		errors.New("other"):                 http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusOf(err), err.Error())
	}
}

func TestStoreFailureMessageIsHidden(t *testing.T) {
	rec := do(t, func(c echo.Context) error {
		return respondError(c, apperr.Store("event.get", errors.New("dial tcp: refused")))
	}, call{target: "/"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "refused")
}

func TestResolveAccessCode(t *testing.T) {
	f := newPublic(activeWedding())

	rec := do(t, f.h.ResolveAccessCode, call{target: "/", params: map[string]string{"code": "abc234"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, evID, decode[map[string]string](t, rec)["event_id"])

	rec = do(t, f.h.ResolveAccessCode, call{target: "/", params: map[string]string{"code": "nope"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveAccessCodeHidesDrafts(t *testing.T) {
	ev := activeWedding()
	ev.Status = model.StatusDraft
	f := newPublic(ev)

	rec := do(t, f.h.ResolveAccessCode, call{target: "/", params: map[string]string{"code": "ABC234"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, f.h.ResolveAccessCode, call{target: "/", params: map[string]string{"code": "ABC234"}, user: ownerID})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPageUsesRequestedLanguage(t *testing.T) {
	f := newPublic(activeWedding())

	rec := do(t, f.h.Page, call{target: "/?lang=en", params: evParams})
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[guestpage.Page](t, rec)
	assert.Equal(t, modules.LangEN, page.Lang)
	assert.Equal(t, "Upload photos", page.Sections[0].Title)

	rec = do(t, f.h.Page, call{target: "/", params: evParams})
	assert.Equal(t, modules.LangDE, decode[guestpage.Page](t, rec).Lang)
}

func TestModuleEndpointsRespectVisibility(t *testing.T) {
	f := newPublic(activeWedding())

	assert.Equal(t, http.StatusOK, do(t, f.h.Schedule, call{target: "/", params: evParams}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, f.h.Menu, call{target: "/", params: evParams}).Code, "hidden")
	assert.Equal(t, http.StatusNotFound, do(t, f.h.Vendors, call{target: "/", params: evParams}).Code, "not purchased")

	rec := do(t, f.h.Menu, call{target: "/", params: evParams, user: ownerID})
	assert.Equal(t, http.StatusOK, rec.Code, "owners preview hidden modules")

	rec = do(t, f.h.Menu, call{target: "/", params: evParams, user: "someone-else"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVendorsAreWeddingOnly(t *testing.T) {
	ev := activeWedding()
	ev.Modules.Vendors = on()
	f := newPublic(ev)
	assert.Equal(t, http.StatusOK, do(t, f.h.Vendors, call{target: "/", params: evParams}).Code)

	ev = activeWedding()
	ev.Modules.Vendors = on()
	ev.EventType = model.TypeEvent
	f = newPublic(ev)
	assert.Equal(t, http.StatusNotFound, do(t, f.h.Vendors, call{target: "/", params: evParams}).Code)
}

func TestNewGuestIssuesUUID(t *testing.T) {
	f := newPublic(activeWedding())
	rec := do(t, f.h.NewGuest, call{method: http.MethodPost, target: "/", body: `{"name":" Oma "}`, params: evParams})
	require.Equal(t, http.StatusCreated, rec.Code)
	out := decode[map[string]string](t, rec)
	assert.True(t, validID(out["guest_id"]))
	assert.Equal(t, "Oma", out["name"])
}

func TestUploadPhotoCarriesOverlay(t *testing.T) {
	f := newPublic(activeWedding())
	body := `{"guest_id":"` + guestA + `","storage_url":"https://cdn.example/p.jpg","caption":" Prost "}`

	rec := do(t, f.h.UploadPhoto, call{method: http.MethodPost, target: "/", body: body, params: evParams})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, f.photos.saved, 1)
	assert.True(t, f.photos.saved[0].Overlay)
	assert.Equal(t, "Prost", f.photos.saved[0].Caption)
	assert.Equal(t, evID, f.photos.saved[0].EventID)
}

func TestUploadPhotoValidation(t *testing.T) {
	f := newPublic(activeWedding())
	for _, body := range []string{
		`{"storage_url":"ftp://x/p.jpg"}`,
		`{"storage_url":""}`,
		`{"storage_url":"https://cdn/p.jpg","guest_id":"not-a-uuid"}`,
	} {
		rec := do(t, f.h.UploadPhoto, call{method: http.MethodPost, target: "/", body: body, params: evParams})
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, f.photos.saved)
}

func TestSubmitSurvey(t *testing.T) {
	f := newPublic(activeWedding())
	body := `{"guest_id":"` + guestA + `","answers":[
		{"question_id":"q-text","answer":" schön "},
		{"question_id":"q-choice","answer":"Fisch"},
		{"question_id":"q-rating","answer":"5"}]}`

	rec := do(t, f.h.SubmitSurvey, call{method: http.MethodPost, target: "/", body: body, params: evParams})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, f.responses.saved, 3)
	assert.Equal(t, "schön", f.responses.saved[0].Answer)
	assert.Equal(t, guestA, f.responses.saved[2].GuestID)
}

func TestSubmitSurveyRejectsBadAnswers(t *testing.T) {
	cases := map[string]struct {
		answers string
		want    int
	}{
		"unknown option":   {`[{"question_id":"q-choice","answer":"Tofu"}]`, http.StatusUnprocessableEntity},
		"rating too high":  {`[{"question_id":"q-rating","answer":"9"}]`, http.StatusUnprocessableEntity},
		"unknown question": {`[{"question_id":"q-x","answer":"a"}]`, http.StatusNotFound},
		"duplicate":        {`[{"question_id":"q-text","answer":"a"},{"question_id":"q-text","answer":"b"}]`, http.StatusBadRequest},
		"empty":            {`[]`, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newPublic(activeWedding())
			body := `{"guest_id":"` + guestA + `","answers":` + tc.answers + `}`
			rec := do(t, f.h.SubmitSurvey, call{method: http.MethodPost, target: "/", body: body, params: evParams})
			assert.Equal(t, tc.want, rec.Code)
			assert.Empty(t, f.responses.saved)
		})
	}
}

func toggle(t *testing.T, f publicFixture, index int) (int, bingo.Result) {
	t.Helper()
	body := fmt.Sprintf(`{"guest_id":%q,"index":%d}`, guestA, index)
	rec := do(t, f.h.BingoToggle, call{method: http.MethodPost, target: "/", body: body, params: evParams})
	var res bingo.Result
	if rec.Code == http.StatusOK {
		res = decode[bingo.Result](t, rec)
	}
	return rec.Code, res
}

func TestBingoToggleNeedsOpenedBoard(t *testing.T) {
	f := newPublic(activeWedding())
	code, _ := toggle(t, f, 0)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBingoWinIsAnnouncedOnce(t *testing.T) {
	f := newPublic(activeWedding())

	rec := do(t, f.h.BingoBoard, call{target: "/?guest_id=" + guestA + "&lang=en", params: evParams})
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[bingo.Board](t, rec)
	assert.Len(t, board.Cells, bingo.Cells)
	assert.Empty(t, board.Completed)

	for i := 0; i < 4; i++ {
		code, res := toggle(t, f, i)
		require.Equal(t, http.StatusOK, code)
		assert.False(t, res.JustWon)
	}
	code, res := toggle(t, f, 4)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, res.IsWinner)
	assert.True(t, res.JustWon)

	// unmarking and re-marking keeps the winner without a second signal
	_, res = toggle(t, f, 4)
	assert.True(t, res.IsWinner)
	_, res = toggle(t, f, 4)
	assert.False(t, res.JustWon)

	require.Len(t, f.pub.won, 1)
	assert.Equal(t, guestA, f.pub.won[0].GuestID)
	assert.Equal(t, "Anna & Ben", f.pub.won[0].EventTitle)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, f.pub.won[0].CompletedItems)
}

func TestBingoPublishFailureDoesNotFailToggle(t *testing.T) {
	f := newPublic(activeWedding())
	f.pub.err = errors.New("broker down")
	do(t, f.h.BingoBoard, call{target: "/?guest_id=" + guestA, params: evParams})

	for i := 0; i < 4; i++ {
		toggle(t, f, i)
	}
	code, res := toggle(t, f, 4)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, res.JustWon)
}

func TestBingoToggleValidation(t *testing.T) {
	f := newPublic(activeWedding())
	do(t, f.h.BingoBoard, call{target: "/?guest_id=" + guestA, params: evParams})

	code, _ := toggle(t, f, bingo.FreeSpace)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	code, _ = toggle(t, f, 25)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	rec := do(t, f.h.BingoToggle, call{method: http.MethodPost, target: "/", body: `{"guest_id":"` + guestA + `"}`, params: evParams})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing index")

	rec = do(t, f.h.BingoBoard, call{target: "/", params: evParams})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing guest id")
}

func TestBingoHiddenModule(t *testing.T) {
	ev := activeWedding()
	ev.Modules.Bingo.Visible = false
	f := newPublic(ev)
	rec := do(t, f.h.BingoBoard, call{target: "/?guest_id=" + guestA, params: evParams})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
