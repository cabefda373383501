package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/eventpage/internal/apperr"
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/repository"
)

func fieldNames(f fields) []string {
	out := make([]string, 0, len(f))
	for _, e := range f {
		out = append(out, e.Field)
	}
	return out
}

func TestCheckSchedule(t *testing.T) {
	s := &model.ScheduleItem{Time: " 14:00 ", Title: " Trauung "}
	assert.Empty(t, checkSchedule(s))
	assert.Equal(t, "Trauung", s.Title)

	f := checkSchedule(&model.ScheduleItem{Title: strings.Repeat("x", 201)})
	assert.ElementsMatch(t, []string{"time", "title"}, fieldNames(f))
}

func TestCheckQuestion(t *testing.T) {
	q := &model.SurveyQuestion{Question: "Wie war's?"}
	assert.Empty(t, checkQuestion(q))
	assert.Equal(t, model.QuestionText, q.Kind)

	f := checkQuestion(&model.SurveyQuestion{Question: "Essen?", Kind: model.QuestionChoice, Options: []string{"Fisch", " "}})
	assert.Equal(t, []string{"options[1]"}, fieldNames(f))

	f = checkQuestion(&model.SurveyQuestion{Question: "Essen?", Kind: model.QuestionChoice, Options: []string{"Fisch"}})
	assert.Equal(t, []string{"options"}, fieldNames(f))

	f = checkQuestion(&model.SurveyQuestion{Question: "?", Kind: "slider"})
	assert.Equal(t, []string{"kind"}, fieldNames(f))
}

func TestCheckExpense(t *testing.T) {
	bad := "vendor-7"
	f := checkExpense(&model.WeddingExpense{Category: "Blumen", AmountCents: -1, VendorID: &bad})
	assert.ElementsMatch(t, []string{"description", "amount_cents", "vendor_id"}, fieldNames(f))
}

func TestRejectWritesEveryField(t *testing.T) {
	rec := do(t, func(c echo.Context) error {
		done, err := checkChecklist(&model.WeddingChecklistItem{}).reject(c)
		assert.True(t, done)
		return err
	}, call{target: "/"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[struct {
		Error  string       `json:"error"`
		Fields []FieldError `json:"fields"`
	}](t, rec)
	assert.Equal(t, "validation failed", body.Error)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, FieldError{Field: "title", Msg: "required"}, body.Fields[0])
}

type fakeCards struct {
	card    *model.BingoCard
	winners []repository.Winner
}

func (f *fakeCards) CardByEvent(_ context.Context, eventID string) (*model.BingoCard, error) {
	if f.card == nil || f.card.EventID != eventID {
		return nil, apperr.ErrNotFound
	}
	return f.card, nil
}

func (f *fakeCards) UpsertCard(_ context.Context, c *model.BingoCard) error {
	if f.card != nil {
		c.ID = f.card.ID
	} else {
		c.ID = "card-1"
	}
	f.card = c
	return nil
}

func (f *fakeCards) ListWinners(context.Context, string) ([]repository.Winner, error) {
	return f.winners, nil
}

func cardBody(n int, extra string) string {
	items := make([]string, n)
	for i := range items {
		items[i] = `" Punkt ` + string(rune('a'+i)) + ` "`
	}
	return `{"items":[` + strings.Join(items, ",") + `]` + extra + `}`
}

func TestPutCard(t *testing.T) {
	store := &fakeCards{}
	h := &BingoCardHandler{Cards: store}

	rec := do(t, h.PutCard, call{method: http.MethodPut, target: "/", body: cardBody(16, ""), params: evParams})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Punkt a", store.card.Items[0])
	assert.Equal(t, evID, store.card.EventID)

	rec = do(t, h.PutCard, call{method: http.MethodPut, target: "/", body: cardBody(20, ""), params: evParams})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "card-1", store.card.ID, "replacing keeps the id")
	assert.Len(t, store.card.Items, 20)
}

func TestPutCardValidation(t *testing.T) {
	h := &BingoCardHandler{Cards: &fakeCards{}}
	for name, body := range map[string]string{
		"too few items":  cardBody(15, ""),
		"en length":      cardBody(16, `,"items_en":["one"]`),
		"actions length": cardBody(16, `,"actions":["a","b"],"actions_en":["a"]`),
	} {
		rec := do(t, h.PutCard, call{method: http.MethodPut, target: "/", body: body, params: evParams})
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestWinners(t *testing.T) {
	won := time.Date(2026, 6, 20, 21, 5, 0, 0, time.UTC)
	store := &fakeCards{
		card:    &model.BingoCard{ID: "card-1", EventID: evID},
		winners: []repository.Winner{{GuestID: guestA, WonAt: won, MarkedCells: 5}},
	}
	h := &BingoCardHandler{Cards: store}

	rec := do(t, h.Winners, call{target: "/", params: evParams})
	require.Equal(t, http.StatusOK, rec.Code)
	ws := decode[[]repository.Winner](t, rec)
	require.Len(t, ws, 1)
	assert.True(t, won.Equal(ws[0].WonAt))

	rec = do(t, h.Winners, call{target: "/", params: map[string]string{"id": "other"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
