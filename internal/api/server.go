// Package api serves the contest to spectators over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
// The live narrative is pushed over a websocket.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/tribute-arena/internal/engine"
	"github.com/talgya/tribute-arena/internal/persistence"
)

const (
	maxStreamConns = 16
	streamCatchUp  = 50
	streamBuffer   = 256
	writeWait      = 5 * time.Second
	pingEvery      = 15 * time.Second
	readWait       = 60 * time.Second
)

// Server serves a running contest over HTTP.
type Server struct {
	Game     *engine.Game
	Runner   *engine.Runner  // optional; enables /speed
	DB       *persistence.DB // optional; enables /stats/deaths
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	streamConns atomic.Int32
	upgrader    websocket.Upgrader
	sponsorRate *RateLimiter
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4 * 1024,
		WriteBufferSize: 16 * 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	if s.sponsorRate == nil {
		s.sponsorRate = NewRateLimiter(10, time.Minute)
	}

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/tributes", s.handleTributes)
	mux.HandleFunc("GET /api/v1/tribute/{id}", s.handleTribute)
	mux.HandleFunc("GET /api/v1/history", s.handleHistory)
	mux.HandleFunc("GET /api/v1/logs", s.handleLogs)
	mux.HandleFunc("GET /api/v1/fallen", s.handleFallen)
	mux.HandleFunc("GET /api/v1/alliances", s.handleAlliances)
	mux.HandleFunc("GET /api/v1/summary", s.handleSummary)
	mux.HandleFunc("GET /api/v1/stats/deaths", s.handleDeathStats)
	mux.HandleFunc("GET /api/v1/stream", s.handleStream)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("POST /api/v1/advance", s.adminOnly(s.handleAdvance))
	mux.HandleFunc("POST /api/v1/sponsor", s.adminOnly(RateLimitMiddleware(s.sponsorRate, s.handleSponsor)))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))

	return corsMiddleware(mux)
}

// Start serves the API until ctx is cancelled.
func (s *Server) Start(ctx context.Context) *http.Server {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	return srv
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list; localhost dev servers are
// always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no ARENA_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := s.Game.State()
	status := map[string]any{
		"name":                  "Tribute Arena",
		"stage":                 state.Stage,
		"day":                   state.Day,
		"weather":               state.Weather,
		"forecast":              state.Weather.Description(),
		"alive":                 state.Alive,
		"total":                 state.Total,
		"days_since_last_death": state.DaysSinceLastDeath,
		"sponsor_points":        state.SponsorPoints,
		"rounds":                state.Rounds,
	}
	if state.Stage == engine.StageFallen {
		status["pending"] = state.Pending
	}
	if state.Winner != "" {
		status["winner"] = state.Winner
	}
	if s.Runner != nil {
		status["speed"] = s.Runner.Speed()
	}
	writeJSON(w, status)
}

func (s *Server) handleTributes(w http.ResponseWriter, r *http.Request) {
	roster := s.Game.Tributes()
	if r.URL.Query().Get("alive") == "true" {
		writeJSON(w, roster.Living())
		return
	}
	writeJSON(w, roster)
}

func (s *Server) handleTribute(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t := s.Game.Tribute(id)
	if t == nil {
		http.Error(w, "tribute not found", http.StatusNotFound)
		return
	}

	var story []engine.LogEntry
	for _, e := range s.Game.Logs() {
		if e.Involves(id) {
			story = append(story, e)
		}
	}
	writeJSON(w, map[string]any{
		"tribute": t,
		"story":   story,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Game.History())
}

// handleLogs returns entries after the given offset (?since=N).
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	logs := s.Game.Logs()
	since := 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "since must be a non-negative integer", http.StatusBadRequest)
			return
		}
		since = min(n, len(logs))
	}
	writeJSON(w, map[string]any{
		"next": len(logs),
		"logs": logs[since:],
	})
}

func (s *Server) handleFallen(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Game.Fallen())
}

func (s *Server) handleAlliances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Game.Alliances())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Game.Summary())
}

func (s *Server) handleDeathStats(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	tally, err := s.DB.DeathsByDay()
	if err != nil {
		slog.Error("death stats query failed", "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, tally)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	stage, err := s.Game.Advance(r.Context())
	if errors.Is(err, engine.ErrGameOver) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("advanced by admin", "stage", stage.String())
	writeJSON(w, s.Game.State())
}

func (s *Server) handleSponsor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TributeID string `json:"tribute_id"`
		Item      string `json:"item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	item, err := s.Game.Sponsor(req.TributeID, req.Item)
	switch {
	case errors.Is(err, engine.ErrNoSuchTribute):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, engine.ErrTributeDead), errors.Is(err, engine.ErrUnknownGift):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	writeJSON(w, map[string]any{
		"tribute_id":     req.TributeID,
		"item":           item,
		"sponsor_points": s.Game.State().SponsorPoints,
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if s.Runner == nil {
		http.Error(w, "contest is not auto-playing", http.StatusServiceUnavailable)
		return
	}
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 100 {
			http.Error(w, "speed must be 0-100", http.StatusBadRequest)
			return
		}
		s.Runner.SetSpeed(req.Speed)
		slog.Info("speed changed", "speed", req.Speed)
	}
	writeJSON(w, map[string]float64{"speed": s.Runner.Speed()})
}

// handleStream upgrades to a websocket and pushes log entries as they
// happen, after a catch-up of the most recent ones.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if current := s.streamConns.Add(1); current > maxStreamConns {
		s.streamConns.Add(-1)
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}
	defer s.streamConns.Add(-1)

	ch, unsubscribe, err := s.Game.Subscribe(streamBuffer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	logs := s.Game.Logs()
	for _, e := range logs[max(0, len(logs)-streamCatchUp):] {
		if err := writeEntry(conn, e); err != nil {
			return
		}
	}
	slog.Info("stream client connected", "remote", r.RemoteAddr)

	// Reader: spectators send nothing, but reading surfaces the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingEvery)
	defer ping.Stop()

	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEntry(conn, e); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			slog.Info("stream client disconnected", "remote", r.RemoteAddr)
			return
		case <-r.Context().Done():
			return
		}
	}
}

func writeEntry(conn *websocket.Conn, e engine.LogEntry) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(e)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
