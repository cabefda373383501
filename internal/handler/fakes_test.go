package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/eventpage/internal/access"
	"github.com/iliyamo/eventpage/internal/apperr"
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/queue"
)

// ----- events -----

type fakeEvents struct {
	mu      sync.Mutex
	byID    map[string]*model.Event
	updated model.ModuleFlags
	custom  model.Customization
	deleted string
}

func newFakeEvents(evs ...*model.Event) *fakeEvents {
	f := &fakeEvents{byID: map[string]*model.Event{}}
	for _, e := range evs {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) GetByAccessCode(_ context.Context, code string) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.byID {
		if e.AccessCode == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeEvents) ListAll(context.Context) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEvents) ListByClient(_ context.Context, clientID string) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range f.byID {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) UpdateCustomization(_ context.Context, id string, c model.Customization) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	e.Customization = c
	f.custom = c
	return nil
}

func (f *fakeEvents) UpdateModules(_ context.Context, id string, m model.ModuleFlags) error {
	if _, ok := f.byID[id]; !ok {
		return apperr.ErrNotFound
	}
	f.updated = m
	return nil
}

func (f *fakeEvents) UpdateDetails(_ context.Context, e *model.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return apperr.ErrNotFound
	}
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperr.ErrNotFound
	}
	f.deleted = id
	return nil
}

// ----- gate -----

// fakeGate allows reads of active events and writes by the event's client.
type fakeGate struct {
	events *fakeEvents
	admin  string
}

func (g fakeGate) Allowed(ctx context.Context, c access.Capability, eventID, uid string) bool {
	if uid != "" && uid == g.admin {
		return true
	}
	ev, err := g.events.GetByID(ctx, eventID)
	if err != nil {
		return false
	}
	owner := uid != "" && ev.ClientID == uid
	switch c {
	case access.CapRead:
		return ev.Status == model.StatusActive || owner
	case access.CapWrite:
		return owner
	}
	return false
}

// ----- content -----

type fakeSource struct {
	card *model.BingoCard
}

func (fakeSource) Schedule(context.Context, string) ([]*model.ScheduleItem, error) {
	return []*model.ScheduleItem{{Time: "14:00", Title: "Trauung", TitleEN: "Ceremony"}}, nil
}

func (fakeSource) Menu(context.Context, string) ([]*model.MenuItem, error) {
	return []*model.MenuItem{{Course: "main", Name: "Braten"}}, nil
}

func (fakeSource) Questions(context.Context, string) ([]*model.SurveyQuestion, error) {
	return []*model.SurveyQuestion{{ID: "q1", Question: "Wie?", Kind: model.QuestionText}}, nil
}

func (fakeSource) Vendors(context.Context, string) ([]*model.Vendor, error) {
	return []*model.Vendor{{Name: "Blumen"}}, nil
}

func (fakeSource) Photos(context.Context, string, int) ([]*model.Photo, error) {
	return []*model.Photo{}, nil
}

func (f fakeSource) BingoCard(context.Context, string) (*model.BingoCard, error) {
	if f.card == nil {
		return nil, apperr.ErrNotFound
	}
	return f.card, nil
}

type fakePhotos struct{ saved []*model.Photo }

func (f *fakePhotos) Create(_ context.Context, p *model.Photo) error {
	p.ID = "photo-1"
	f.saved = append(f.saved, p)
	return nil
}

type fakeResponses struct {
	questions map[string]*model.SurveyQuestion
	saved     []*model.SurveyResponse
}

func (f *fakeResponses) Question(_ context.Context, _ string, id string) (*model.SurveyQuestion, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return q, nil
}

func (f *fakeResponses) CreateResponses(_ context.Context, rs []*model.SurveyResponse) error {
	f.saved = append(f.saved, rs...)
	return nil
}

// ----- bingo store -----

type fakeBingoStore struct {
	mu       sync.Mutex
	card     *model.BingoCard
	progress map[string]*model.BingoProgress
}

func (s *fakeBingoStore) CardByID(_ context.Context, id string) (*model.BingoCard, error) {
	if s.card == nil || s.card.ID != id {
		return nil, apperr.ErrNotFound
	}
	return s.card, nil
}

func (s *fakeBingoStore) Progress(_ context.Context, cardID, guestID string) (*model.BingoProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[cardID+"/"+guestID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *p
	cp.CompletedItems = append([]int(nil), p.CompletedItems...)
	return &cp, nil
}

func (s *fakeBingoStore) CreateProgress(_ context.Context, p *model.BingoProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := p.BingoCardID + "/" + p.GuestID
	if _, ok := s.progress[key]; ok {
		return apperr.ErrConflict
	}
	cp := *p
	s.progress[key] = &cp
	return nil
}

func (s *fakeBingoStore) SaveProgress(_ context.Context, p *model.BingoProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := p.BingoCardID + "/" + p.GuestID
	cur, ok := s.progress[key]
	if !ok {
		return apperr.ErrNotFound
	}
	if cur.Version != p.Version {
		return apperr.ErrConflict
	}
	p.Version++
	cp := *p
	cp.CompletedItems = append([]int(nil), p.CompletedItems...)
	s.progress[key] = &cp
	return nil
}

// ----- publisher -----

type fakePublisher struct {
	mu          sync.Mutex
	won         []queue.BingoWonEvent
	provisioned []queue.EventProvisionedEvent
	err         error
}

func (p *fakePublisher) PublishBingoWon(_ context.Context, ev queue.BingoWonEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.won = append(p.won, ev)
	return p.err
}

func (p *fakePublisher) PublishEventProvisioned(_ context.Context, ev queue.EventProvisionedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.provisioned = append(p.provisioned, ev)
	return p.err
}

// ----- users and tokens -----

type fakeUsers struct{ byID map[string]*model.User }

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return u, nil
}

type fakeTokens struct {
	live       map[string]string
	revokedAll string
	// racing revokes a token right after it validates, as a second
	// request using the same token would.
	racing bool
}

func (f *fakeTokens) StoreRefresh(_ context.Context, uid, hash string, _ time.Time) error {
	f.live[hash] = uid
	return nil
}

func (f *fakeTokens) ValidateRefresh(_ context.Context, hash string) (string, error) {
	uid, ok := f.live[hash]
	if !ok {
		return "", apperr.ErrNotFound
	}
	if f.racing {
		delete(f.live, hash)
	}
	return uid, nil
}

func (f *fakeTokens) RevokeByHash(_ context.Context, hash string) error {
	if _, ok := f.live[hash]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.live, hash)
	return nil
}

func (f *fakeTokens) RevokeAllForUser(_ context.Context, uid string) error {
	f.revokedAll = uid
	for h, u := range f.live {
		if u == uid {
			delete(f.live, h)
		}
	}
	return nil
}

// ----- request helpers -----

type call struct {
	method string
	target string
	body   string
	params map[string]string
	user   string
	role   string
}

func do(t *testing.T, h echo.HandlerFunc, cl call) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var body io.Reader
	if cl.body != "" {
		body = strings.NewReader(cl.body)
	}
	if cl.method == "" {
		cl.method = http.MethodGet
	}
	req := httptest.NewRequest(cl.method, cl.target, body)
	if cl.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(cl.params) > 0 {
		var names, values []string
		for k, v := range cl.params {
			names, values = append(names, k), append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if cl.user != "" {
		c.Set("user_id", cl.user)
		c.Set("role", cl.role)
	}
	require.NoError(t, h(c))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
