package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/eventpage/internal/access"
	"github.com/iliyamo/eventpage/internal/handler"
	"github.com/iliyamo/eventpage/internal/utils"
)

const secret = "router-secret"

// denyAll records the last decision it was asked for and refuses it.
type denyAll struct {
	asked access.Capability
	uid   string
}

func (d *denyAll) Allowed(_ context.Context, c access.Capability, _, uid string) bool {
	d.asked, d.uid = c, uid
	return false
}

func newServer(gate *denyAll) *echo.Echo {
	e := echo.New()
	Register(e, Deps{
		JWTSecret: secret,
		Gate:      gate,
		Auth:      &handler.AuthHandler{},
		Events:    &handler.EventHandler{},
		Content:   &handler.ContentHandler{},
		Planning:  &handler.PlanningHandler{},
		Cards:     &handler.BingoCardHandler{},
		Public:    &handler.PublicHandler{},
	})
	return e
}

func bearerFor(t *testing.T, uid, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, uid, role, 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func serve(e *echo.Echo, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newServer(&denyAll{})
	rec := serve(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesNeedSuperAdmin(t *testing.T) {
	gate := &denyAll{}
	e := newServer(gate)

	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/v1/admin/events", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/v1/admin/events", bearerFor(t, "c-1", "client")).Code)

	rec := serve(e, http.MethodDelete, "/v1/admin/events/ev-1", bearerFor(t, "a-1", "super_admin"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, access.CapDeleteEvent, gate.asked)
	assert.Equal(t, "a-1", gate.uid)
}

func TestClientRoutesCheckWriteCapability(t *testing.T) {
	gate := &denyAll{}
	e := newServer(gate)

	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/v1/events/ev-1/modules", "").Code)

	rec := serve(e, http.MethodGet, "/v1/events/ev-1/modules", bearerFor(t, "c-1", "client"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, access.CapWrite, gate.asked)
}

func TestPublicRoutesHideDeniedEvents(t *testing.T) {
	gate := &denyAll{}
	e := newServer(gate)

	rec := serve(e, http.MethodGet, "/v1/public/events/ev-1/page", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, access.CapRead, gate.asked)
	assert.Empty(t, gate.uid)

	rec = serve(e, http.MethodGet, "/v1/public/events/ev-1/page", bearerFor(t, "c-1", "client"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "c-1", gate.uid, "optional token identifies the caller")
}

func TestRoutesRegistered(t *testing.T) {
	e := newServer(&denyAll{})
	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /v1/auth/login",
		"GET /v1/me",
		"POST /v1/admin/events",
		"PUT /v1/events/:id/modules",
		"GET /v1/events/:id/qr.png",
		"PUT /v1/events/:id/bingo/card",
		"PUT /v1/events/:id/budget",
		"GET /v1/public/access/:code",
		"GET /v1/public/events/:id/page",
		"POST /v1/public/events/:id/bingo/toggle",
	} {
		assert.True(t, have[want], want)
	}
}
