package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/tribute-arena/internal/catalog"
	"github.com/talgya/tribute-arena/internal/engine"
	"github.com/talgya/tribute-arena/internal/entropy"
	"github.com/talgya/tribute-arena/internal/world"
)

func newTestServer(t *testing.T, adminKey string) *Server {
	t.Helper()
	sim := engine.NewSimulator(catalog.Builtin(), world.NewArena(world.DefaultRadius), entropy.Seeded(3))
	sim.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	settings := engine.DefaultSettings()
	settings.OddsSimulations = 20
	settings.WeatherSeed = 1
	return &Server{Game: engine.NewGame(sim, settings, nil), AdminKey: adminKey}
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s.Handler(), http.MethodGet, "/api/v1/status", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["stage"] != "Reaping" || body["alive"] != float64(24) {
		t.Fatalf("status = %v", body)
	}
}

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name     string
		adminKey string
		token    string
		want     int
	}{
		{"disabled", "", "anything", http.StatusForbidden},
		{"missing token", "k", "", http.StatusUnauthorized},
		{"wrong token", "k", "x", http.StatusUnauthorized},
		{"ok", "k", "k", http.StatusOK},
	}
	for _, tt := range tests {
		s := newTestServer(t, tt.adminKey)
		rec := do(t, s.Handler(), http.MethodPost, "/api/v1/advance", tt.token, "")
		if rec.Code != tt.want {
			t.Fatalf("%s: code = %d, want %d", tt.name, rec.Code, tt.want)
		}
	}
}

func TestAdvanceMovesStage(t *testing.T) {
	s := newTestServer(t, "k")
	h := s.Handler()
	do(t, h, http.MethodPost, "/api/v1/advance", "k", "")
	if got := s.Game.State().Stage; got != engine.StageTraining {
		t.Fatalf("stage = %v", got)
	}
	rec := do(t, h, http.MethodGet, "/api/v1/logs?since=0", "", "")
	if !strings.Contains(rec.Body.String(), "Let the training begin") {
		t.Fatalf("logs = %s", rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/logs?since=-1", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative since = %d", rec.Code)
	}
}

func TestTributeDetail(t *testing.T) {
	s := newTestServer(t, "")
	h := s.Handler()
	if rec := do(t, h, http.MethodGet, "/api/v1/tribute/d99_m", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing tribute = %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/api/v1/tribute/d1_m", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"district": 1`) {
		t.Fatalf("d1_m = %d %s", rec.Code, rec.Body.String())
	}
}

func TestSponsorEndpoint(t *testing.T) {
	s := newTestServer(t, "k")
	h := s.Handler()
	ctx := context.Background()
	s.Game.Advance(ctx)
	s.Game.Advance(ctx)

	rec := do(t, h, http.MethodPost, "/api/v1/sponsor", "k", `{"tribute_id":"d12_f","item":"water"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"item": "Water"`) {
		t.Fatalf("sponsor = %d %s", rec.Code, rec.Body.String())
	}

	tests := []struct {
		body string
		want int
	}{
		{`{"tribute_id":"nobody"}`, http.StatusNotFound},
		{`{"tribute_id":"d12_f","item":"Sword"}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := do(t, h, http.MethodPost, "/api/v1/sponsor", "k", tt.body); rec.Code != tt.want {
			t.Fatalf("%s: code = %d, want %d", tt.body, rec.Code, tt.want)
		}
	}
}

func TestSpeedWithoutRunner(t *testing.T) {
	s := newTestServer(t, "k")
	if rec := do(t, s.Handler(), http.MethodGet, "/api/v1/speed", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("speed = %d", rec.Code)
	}
}

func TestSpeedWithRunner(t *testing.T) {
	s := newTestServer(t, "k")
	s.Runner = engine.NewRunner(s.Game, time.Second)
	rec := do(t, s.Handler(), http.MethodPost, "/api/v1/speed", "k", `{"speed": 4}`)
	if rec.Code != http.StatusOK || s.Runner.Speed() != 4 {
		t.Fatalf("speed = %d %v", rec.Code, s.Runner.Speed())
	}
	if rec := do(t, s.Handler(), http.MethodPost, "/api/v1/speed", "k", `{"speed": 500}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range speed = %d", rec.Code)
	}
}

func TestDeathStatsWithoutDB(t *testing.T) {
	s := newTestServer(t, "")
	if rec := do(t, s.Handler(), http.MethodGet, "/api/v1/stats/deaths", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestStreamPushesEntries(t *testing.T) {
	s := newTestServer(t, "")
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := s.Game.Advance(context.Background()); err != nil {
		t.Fatal(err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var e engine.LogEntry
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatalf("read: %v", err)
	}
	if e.Text != "The Tributes have been reaped. Let the training begin!" || e.ID == "" {
		t.Fatalf("entry = %+v", e)
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatalf("first two requests refused")
	}
	if rl.Allow("a") {
		t.Fatalf("third request allowed")
	}
	if !rl.Allow("b") {
		t.Fatalf("other client refused")
	}
	if got := rl.RetryAfter("a"); got != 61 {
		t.Fatalf("RetryAfter = %d", got)
	}
	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatalf("window did not reset")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := clientIP(req); got != "10.0.0.1" {
		t.Fatalf("clientIP = %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("clientIP behind proxy = %q", got)
	}
}
