package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventpage/internal/bingo"
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/repository"
)

// CardStore manages an event's bingo card and reports its winners.
type CardStore interface {
	CardByEvent(ctx context.Context, eventID string) (*model.BingoCard, error)
	UpsertCard(ctx context.Context, c *model.BingoCard) error
	ListWinners(ctx context.Context, cardID string) ([]repository.Winner, error)
}

// BingoCardHandler serves the client side of the bingo module.
type BingoCardHandler struct {
	Cards CardStore
}

func (h *BingoCardHandler) GetCard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	card, err := h.Cards.CardByEvent(ctx, eventID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, card)
}

type cardReq struct {
	Items     []string `json:"items"`
	ItemsEN   []string `json:"items_en"`
	Actions   []string `json:"actions"`
	ActionsEN []string `json:"actions_en"`
}

func trimAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func checkCard(req *cardReq) fields {
	var f fields
	req.Items, req.ItemsEN = trimAll(req.Items), trimAll(req.ItemsEN)
	req.Actions, req.ActionsEN = trimAll(req.Actions), trimAll(req.ActionsEN)
	f.check(len(req.Items) >= bingo.MinItems, "items", "at least 16 items required")
	f.check(len(req.ItemsEN) == 0 || len(req.ItemsEN) == len(req.Items), "items_en", "must match items in length")
	f.check(len(req.ActionsEN) == 0 || len(req.ActionsEN) == len(req.Actions), "actions_en", "must match actions in length")
	for _, it := range req.Items {
		f.maxLen("items", it, 120)
	}
	return f
}

// PutCard creates or replaces the card. Progress of guests stays attached
// because the card keeps its id.
func (h *BingoCardHandler) PutCard(c echo.Context) error {
	var req cardReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkCard(&req).reject(c); done {
		return err
	}
	card := &model.BingoCard{
		EventID:   eventID(c),
		Items:     req.Items,
		ItemsEN:   req.ItemsEN,
		Actions:   req.Actions,
		ActionsEN: req.ActionsEN,
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Cards.UpsertCard(ctx, card); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *BingoCardHandler) Winners(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	card, err := h.Cards.CardByEvent(ctx, eventID(c))
	if err != nil {
		return respondError(c, err)
	}
	ws, err := h.Cards.ListWinners(ctx, card.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ws)
}
