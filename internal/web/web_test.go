package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"Unbewohnte/BoldBriefing/internal/account"
	"Unbewohnte/BoldBriefing/internal/agent"
	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/feed"
	"Unbewohnte/BoldBriefing/internal/journal"
)

type fakeAgent struct {
	mu         sync.Mutex
	autopilot  bool
	regions    []article.Region
	triggerErr error
	triggered  int
	subs       []func(agent.Event)
}

func (f *fakeAgent) Snapshot() agent.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return agent.State{Stage: agent.StageIdle, Autopilot: f.autopilot, Regions: slices.Clone(f.regions)}
}

func (f *fakeAgent) SetAutopilot(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autopilot = on
}

func (f *fakeAgent) ToggleRegion(region article.Region) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := slices.Index(f.regions, region); i >= 0 {
		f.regions = slices.Delete(f.regions, i, i+1)
		return false
	}
	f.regions = append(f.regions, region)
	return true
}

func (f *fakeAgent) Trigger() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggered++
	return f.triggerErr
}

func (f *fakeAgent) Subscribe(fn func(agent.Event)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

func (f *fakeAgent) emit(ev agent.Event) {
	f.mu.Lock()
	subs := slices.Clone(f.subs)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memoryStore) GetSetting(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryStore) SetSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryStore) DeleteSetting(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

type testEnv struct {
	server  *Server
	agent   *fakeAgent
	feed    *feed.Store
	journal *journal.Journal
	cookie  *http.Cookie
}

const testSecret = "test-secret"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	j := journal.New()
	acct, err := account.New(context.Background(), &memoryStore{values: map[string]string{}}, j, account.Config{
		ConnectDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	env := &testEnv{
		agent:   &fakeAgent{regions: []article.Region{article.Kenya}},
		feed:    feed.New(),
		journal: j,
	}
	env.server = New(Config{
		Username:  "editor",
		Password:  "pass",
		JWTSecret: testSecret,
	}, Deps{
		Agent:   env.agent,
		Feed:    env.feed,
		Journal: j,
		Account: acct,
	})
	env.cookie = env.login(t, "editor", "pass")
	return env
}

func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return nil
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == authCookie {
			return c
		}
	}
	t.Fatal("login did not set a cookie")
	return nil
}

func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func sampleBrief(id string) article.Brief {
	return article.Brief{
		ID:                id,
		Headline:          "Rains return",
		Summary:           "**Heavy** rains hit Nairobi.",
		Category:          article.ClimateChange,
		Region:            article.Kenya,
		Timestamp:         time.Now(),
		Sources:           []article.Source{},
		Hashtags:          []string{"#Kenya"},
		VerificationScore: 80,
		TweetDraft:        "Rains return #Kenya",
		Status:            article.StatusPublished,
	}
}

func TestAuthentication(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if c := env.login(t, "editor", "wrong"); c != nil {
		t.Fatal("wrong password accepted")
	}

	env.cookie = nil
	if rec := env.do(http.MethodGet, "/api/state", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous state = %d", rec.Code)
	}

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "editor",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatal(err)
	}
	env.cookie = &http.Cookie{Name: authCookie, Value: signed}
	if rec := env.do(http.MethodGet, "/api/state", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token state = %d", rec.Code)
	}

	rec := env.do(http.MethodPost, "/logout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout = %d", rec.Code)
	}
}

func TestState(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.feed.Prepend(sampleBrief("a"))

	rec := env.do(http.MethodGet, "/api/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("state = %d", rec.Code)
	}
	state := decode[struct {
		Stage      string   `json:"stage"`
		Regions    []string `json:"regions"`
		AllRegions []string `json:"allRegions"`
		Account    struct {
			Handle    string `json:"handle"`
			Connected bool   `json:"connected"`
		} `json:"account"`
	}](t, rec)
	if state.Stage != "IDLE" || len(state.Regions) != 1 || len(state.AllRegions) != 4 {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.Account.Handle != account.DefaultHandle || state.Account.Connected {
		t.Fatalf("unexpected account %+v", state.Account)
	}
}

func TestFeedEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	if list := decode[[]article.Brief](t, env.do(http.MethodGet, "/api/feed", "")); len(list) != 0 {
		t.Fatalf("expected an empty feed, got %d", len(list))
	}

	env.feed.Prepend(sampleBrief("a"))
	env.feed.Prepend(sampleBrief("b"))

	list := decode[[]article.Brief](t, env.do(http.MethodGet, "/api/feed", ""))
	if len(list) != 2 || list[0].ID != "b" {
		t.Fatalf("unexpected feed %v", list)
	}

	rec := env.do(http.MethodGet, "/api/feed/a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("detail = %d", rec.Code)
	}
	detail := decode[briefDetail](t, rec)
	if !strings.Contains(detail.SummaryHTML, "<strong>Heavy</strong>") {
		t.Errorf("summary not rendered: %q", detail.SummaryHTML)
	}
	if detail.ImpactScore != article.DefaultImpactScore || detail.ShareURL != article.ShareIntentURL("Rains return #Kenya") {
		t.Errorf("unexpected detail %+v", detail)
	}

	if rec := env.do(http.MethodGet, "/api/feed/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing brief = %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/api/feed/a/share", "")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != detail.ShareURL {
		t.Fatalf("share = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestLogsEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.journal.Info("one")
	env.journal.Success("two")
	env.journal.Error("three")

	entries := decode[[]journal.Entry](t, env.do(http.MethodGet, "/api/logs?since=1&limit=1", ""))
	if len(entries) != 1 || entries[0].Message != "two" || entries[0].Type != journal.Success {
		t.Fatalf("unexpected page %v", entries)
	}

	entries = decode[[]journal.Entry](t, env.do(http.MethodGet, "/api/logs?since=3", ""))
	if len(entries) != 0 {
		t.Fatalf("expected nothing after the last entry, got %v", entries)
	}

	if rec := env.do(http.MethodGet, "/api/logs?since=abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad since = %d", rec.Code)
	}

	done := make(chan []journal.Entry)
	go func() {
		rec := env.do(http.MethodGet, "/api/logs?since=3&wait=true", "")
		var out []journal.Entry
		json.Unmarshal(rec.Body.Bytes(), &out)
		done <- out
	}()
	time.Sleep(20 * time.Millisecond)
	env.journal.Action("four")

	select {
	case out := <-done:
		if len(out) != 1 || out[0].Message != "four" {
			t.Fatalf("long poll returned %v", out)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("long poll did not return")
	}
}

func TestControls(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	if rec := env.do(http.MethodPost, "/api/autopilot", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty autopilot body = %d", rec.Code)
	}
	rec := env.do(http.MethodPost, "/api/autopilot", `{"enabled":true}`)
	if rec.Code != http.StatusOK || !decode[agent.State](t, rec).Autopilot {
		t.Fatalf("autopilot = %d %s", rec.Code, rec.Body)
	}

	if rec := env.do(http.MethodPost, "/api/regions/mars/toggle", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown region = %d", rec.Code)
	}
	rec = env.do(http.MethodPost, "/api/regions/east-africa/toggle", "")
	toggled := decode[struct {
		Enabled bool     `json:"enabled"`
		Regions []string `json:"regions"`
	}](t, rec)
	if !toggled.Enabled || len(toggled.Regions) != 2 || toggled.Regions[1] != "East Africa" {
		t.Fatalf("unexpected toggle %+v", toggled)
	}

	if rec := env.do(http.MethodPost, "/api/cycle", ""); rec.Code != http.StatusAccepted {
		t.Fatalf("cycle = %d", rec.Code)
	}
	env.agent.mu.Lock()
	env.agent.triggerErr = agent.ErrCycleInProgress
	env.agent.mu.Unlock()
	if rec := env.do(http.MethodPost, "/api/cycle", ""); rec.Code != http.StatusConflict {
		t.Fatalf("busy cycle = %d", rec.Code)
	}
}

func TestAccountEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	if rec := env.do(http.MethodPost, "/api/account/connect", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed connect = %d", rec.Code)
	}

	rec := env.do(http.MethodPost, "/api/account/connect", `{"confirm":true}`)
	if rec.Code != http.StatusOK || !decode[AccountStatus](t, rec).Connected {
		t.Fatalf("connect = %d %s", rec.Code, rec.Body)
	}
	if !decode[AccountStatus](t, env.do(http.MethodGet, "/api/account", "")).Connected {
		t.Fatal("connection not reported")
	}

	rec = env.do(http.MethodPost, "/api/account/disconnect", "")
	if rec.Code != http.StatusOK || decode[AccountStatus](t, rec).Connected {
		t.Fatalf("disconnect = %d %s", rec.Code, rec.Body)
	}

	tail := env.journal.Tail(2)
	if len(tail) != 2 || tail[0].Type != journal.Success || tail[1].Message != "X Account disconnected." {
		t.Fatalf("unexpected journal %v", tail)
	}
}

func TestDownloadXLSX(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.feed.Prepend(sampleBrief("a"))

	rec := env.do(http.MethodGet, "/download/xlsx", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), ".xlsx") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatal("body is not a zip archive")
	}
}

func TestWebSocketEvents(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	srv := httptest.NewServer(env.server.Handler())
	defer srv.Close()

	header := http.Header{}
	header.Add("Cookie", env.cookie.String())
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	if _, resp, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous websocket accepted: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for env.server.Hub().Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	env.journal.Info("[INGESTOR] hello")
	env.agent.emit(agent.Event{Type: agent.EventStage, Stage: agent.StageScanning})
	env.server.Hub().Publish(AccountMessage("@BoldBriefing", true))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got []Message
	for range 3 {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		got = append(got, msg)
	}

	if got[0].Type != "log" || got[0].Data.(map[string]any)["message"] != "[INGESTOR] hello" {
		t.Errorf("unexpected log message %+v", got[0])
	}
	if got[1].Type != "stage" || got[1].Data.(map[string]any)["stage"] != "SCANNING" {
		t.Errorf("unexpected stage message %+v", got[1])
	}
	if got[2].Type != "account" || got[2].Data.(map[string]any)["connected"] != true {
		t.Errorf("unexpected account message %+v", got[2])
	}

	if err := env.server.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if env.server.Hub().Len() != 0 {
		t.Fatal("clients left after shutdown")
	}
}
