package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/eventpage/internal/access"
	"github.com/iliyamo/eventpage/internal/config"
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/utils"
)

const secret = "test-secret"

func token(t *testing.T, uid, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, uid, role, 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

// serve runs h behind mw for a GET on path with the given Authorization header.
func serve(mw []echo.MiddlewareFunc, route, path, auth string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET(route, h, mw...)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func whoami(c echo.Context) error { return c.String(http.StatusOK, UserID(c)+"|"+Role(c)) }

func TestJWTAuth(t *testing.T) {
	mw := []echo.MiddlewareFunc{JWTAuth(secret)}

	rec := serve(mw, "/me", "/me", "", whoami)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(mw, "/me", "/me", "Bearer garbage", whoami)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(mw, "/me", "/me", token(t, "u1", "client"), whoami)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1|client", rec.Body.String())
}

func TestOptionalJWTLeavesAnonymous(t *testing.T) {
	mw := []echo.MiddlewareFunc{OptionalJWT(secret)}

	rec := serve(mw, "/p", "/p", "", whoami)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "|", rec.Body.String())

	rec = serve(mw, "/p", "/p", "Bearer garbage", whoami)
	assert.Equal(t, "|", rec.Body.String())

	rec = serve(mw, "/p", "/p", token(t, "u2", "guest"), whoami)
	assert.Equal(t, "u2|guest", rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	mw := []echo.MiddlewareFunc{OptionalJWT(secret), RequireRole(model.RoleSuperAdmin)}

	assert.Equal(t, http.StatusUnauthorized, serve(mw, "/a", "/a", "", whoami).Code)
	assert.Equal(t, http.StatusForbidden, serve(mw, "/a", "/a", token(t, "u1", "client"), whoami).Code)
	assert.Equal(t, http.StatusOK, serve(mw, "/a", "/a", token(t, "u1", "super_admin"), whoami).Code)
}

type fakeGate struct {
	allow   bool
	calls   int
	gotCap  access.Capability
	gotEv   string
	gotUser string
}

func (g *fakeGate) Allowed(_ context.Context, c access.Capability, ev, uid string) bool {
	g.calls++
	g.gotCap, g.gotEv, g.gotUser = c, ev, uid
	return g.allow
}

func TestRequireEventCapability(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	cases := []struct {
		name      string
		cap       access.Capability
		auth      bool
		allow     bool
		want      int
		gateCalls int
	}{
		{"anonymous read allowed", access.CapRead, false, true, http.StatusNoContent, 1},
		{"anonymous read denied hides event", access.CapRead, false, false, http.StatusNotFound, 1},
		{"anonymous write", access.CapWrite, false, true, http.StatusUnauthorized, 0},
		{"write denied", access.CapWrite, true, false, http.StatusForbidden, 1},
		{"write allowed", access.CapWrite, true, true, http.StatusNoContent, 1},
		{"delete denied", access.CapDeleteEvent, true, false, http.StatusForbidden, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gate := &fakeGate{allow: tc.allow}
			auth := ""
			if tc.auth {
				auth = token(t, "u9", "client")
			}
			mw := []echo.MiddlewareFunc{OptionalJWT(secret), RequireEventCapability(gate, tc.cap)}

			rec := serve(mw, "/events/:id", "/events/ev7", auth, ok)

			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, tc.gateCalls, gate.calls)
			if tc.gateCalls > 0 {
				assert.Equal(t, tc.cap, gate.gotCap)
				assert.Equal(t, "ev7", gate.gotEv)
			}
		})
	}
}

func TestRequestLoggerWritesLine(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	mw := []echo.MiddlewareFunc{OptionalJWT(secret), RequestLogger(logger)}

	rec := serve(mw, "/x", "/x?y=1", token(t, "u5", "client"), func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"user_id":"u5"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestCacheKeyIsPerCaller(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "page"}
	e := echo.New()
	newCtx := func(uid string) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/public/events/ev/page?lang=en", nil), httptest.NewRecorder())
		c.SetPath("/v1/public/events/:id/page")
		if uid != "" {
			c.Set(ctxUserID, uid)
		}
		return c
	}

	anon := cacheKey(cfg, newCtx(""))
	owner := cacheKey(cfg, newCtx("owner"))

	assert.NotEqual(t, anon, owner)
	assert.Equal(t, anon, cacheKey(cfg, newCtx("")))
	assert.Contains(t, anon, "page:")
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(200, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)

	require.True(t, ok)
	assert.Equal(t, 200, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	mw := []echo.MiddlewareFunc{
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
	}
	rec := serve(mw, "/x", "/x", "", whoami)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/public/events/ev/bingo/toggle", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/public/events/:id/bingo/toggle")

	assert.Equal(t, "rl:ip:10.0.0.1", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:ip:10.0.0.1:user:anon:route:POST /v1/public/events/:id/bingo/toggle",
		rateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}
