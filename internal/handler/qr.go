package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	qrMinSize     = 128
	qrMaxSize     = 1024
	qrDefaultSize = 512
)

// qrSize parses ?size= and clamps it to the supported range.
func qrSize(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return qrDefaultSize
	}
	return max(qrMinSize, min(n, qrMaxSize))
}

// QRCode renders a PNG linking guests to the event. target=code (default)
// encodes the access code link, target=page the page by id.
func (h *EventHandler) QRCode(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	ev, err := h.Events.GetByID(ctx, eventID(c))
	if err != nil {
		return respondError(c, err)
	}

	var link string
	switch c.QueryParam("target") {
	case "", "code":
		link = GuestURL(h.BaseURL, ev.AccessCode)
	case "page":
		link = PageURL(h.BaseURL, ev.ID)
	default:
		return badRequest(c, "target must be code or page")
	}

	png, err := qrcode.Encode(link, qrcode.Medium, qrSize(c.QueryParam("size")))
	if err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set("Cache-Control", "private, max-age=300")
	return c.Blob(http.StatusOK, "image/png", png)
}
