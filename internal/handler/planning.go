package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/repository"
)

// PlanningHandler serves the client's private wedding planning tools.
type PlanningHandler struct {
	Planning *repository.PlanningRepo
}

func (h *PlanningHandler) GetBudget(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	sum, err := h.Planning.Summary(ctx, eventID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *PlanningHandler) PutBudget(c echo.Context) error {
	var b model.WeddingBudget
	if err := c.Bind(&b); err != nil {
		return badRequest(c, "invalid body")
	}
	var f fields
	b.Currency = strings.ToUpper(strings.TrimSpace(b.Currency))
	if b.Currency == "" {
		b.Currency = "EUR"
	}
	f.check(b.TotalCents >= 0, "total_cents", "must not be negative")
	f.check(len(b.Currency) == 3, "currency", "must be an ISO 4217 code")
	f.maxLen("notes", b.Notes, 2000)
	if done, err := f.reject(c); done {
		return err
	}
	b.EventID = eventID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Planning.PutBudget(ctx, &b); err != nil {
		return respondError(c, err)
	}
	sum, err := h.Planning.Summary(ctx, b.EventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func checkExpense(e *model.WeddingExpense) fields {
	var f fields
	e.Category, e.Description = strings.TrimSpace(e.Category), strings.TrimSpace(e.Description)
	f.required("category", e.Category)
	f.maxLen("category", e.Category, 100)
	f.required("description", e.Description)
	f.maxLen("description", e.Description, 500)
	f.check(e.AmountCents >= 0, "amount_cents", "must not be negative")
	f.check(e.VendorID == nil || validID(*e.VendorID), "vendor_id", "must be a uuid")
	return f
}

func (h *PlanningHandler) ListExpenses(c echo.Context) error {
	return list(c, h.Planning.Expenses)
}

func (h *PlanningHandler) CreateExpense(c echo.Context) error {
	var e model.WeddingExpense
	if err := c.Bind(&e); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkExpense(&e).reject(c); done {
		return err
	}
	e.EventID = eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Planning.CreateExpense(ctx, &e); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *PlanningHandler) UpdateExpense(c echo.Context) error {
	var e model.WeddingExpense
	if err := c.Bind(&e); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkExpense(&e).reject(c); done {
		return err
	}
	e.ID, e.EventID = c.Param("itemId"), eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Planning.UpdateExpense(ctx, &e); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *PlanningHandler) DeleteExpense(c echo.Context) error {
	return remove(c, h.Planning.DeleteExpense)
}

func checkChecklist(ci *model.WeddingChecklistItem) fields {
	var f fields
	ci.Title = strings.TrimSpace(ci.Title)
	f.required("title", ci.Title)
	f.maxLen("title", ci.Title, 300)
	return f
}

func (h *PlanningHandler) ListChecklist(c echo.Context) error {
	return list(c, h.Planning.Checklist)
}

func (h *PlanningHandler) CreateChecklistItem(c echo.Context) error {
	var ci model.WeddingChecklistItem
	if err := c.Bind(&ci); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkChecklist(&ci).reject(c); done {
		return err
	}
	ci.EventID = eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Planning.CreateChecklistItem(ctx, &ci); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, ci)
}

func (h *PlanningHandler) UpdateChecklistItem(c echo.Context) error {
	var ci model.WeddingChecklistItem
	if err := c.Bind(&ci); err != nil {
		return badRequest(c, "invalid body")
	}
	if done, err := checkChecklist(&ci).reject(c); done {
		return err
	}
	ci.ID, ci.EventID = c.Param("itemId"), eventID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Planning.UpdateChecklistItem(ctx, &ci); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ci)
}

func (h *PlanningHandler) DeleteChecklistItem(c echo.Context) error {
	return remove(c, h.Planning.DeleteChecklistItem)
}
