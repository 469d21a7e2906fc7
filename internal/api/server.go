// Package api serves read-only HTTP observation of a running engine.
// It never mutates the simulation; commands and UIs drive the engine
// through its Go API and only watch it from here.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/geosim/internal/engine"
	"github.com/talgya/geosim/internal/metrics"
)

// Server exposes engine state over HTTP.
type Server struct {
	Eng  *engine.Engine
	Port int
}

// Start begins serving in a goroutine and returns the http.Server so
// the caller can shut it down.
func (s *Server) Start() *http.Server {
	mux := http.NewServeMux()

	historyLimit := NewRateLimiter(30, time.Minute)

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/metrics", s.handleMetrics)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/rankings", s.handleRankings)
	mux.HandleFunc("/api/v1/sessions", s.handleSessions)
	mux.HandleFunc("/api/v1/history", historyLimit.Middleware(s.handleHistory))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api server stopped", "error", err)
		}
	}()
	slog.Info("api listening", "port", s.Port)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	world := s.Eng.World()
	if world == nil {
		http.Error(w, "no world loaded", http.StatusServiceUnavailable)
		return
	}

	var totalPop int64
	for _, rid := range world.RegionIDs() {
		totalPop += world.Regions[rid].Population
	}

	writeJSON(w, map[string]any{
		"session_id":   s.Eng.SessionID(),
		"current_tick": s.Eng.CurrentTick(),
		"factions":     len(world.Factions),
		"active":       len(world.ActiveFactionIDs()),
		"regions":      len(world.Regions),
		"population":   humanize.Comma(totalPop),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	report, err := s.Eng.Metrics()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, report)
}

// handleEvents returns the most recent narrative events of the current
// session; ?limit=N caps the count (default 50).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.Eng.SessionID() == "" {
		http.Error(w, "no session", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	events, err := s.Eng.Store().GetRecentEvents(s.Eng.SessionID(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, events)
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	world := s.Eng.World()
	if world == nil {
		http.Error(w, "no world loaded", http.StatusServiceUnavailable)
		return
	}

	var rows []metrics.Ranking
	switch by := r.URL.Query().Get("by"); by {
	case "", "power":
		rows = metrics.PowerRankings(world)
	case "wealth":
		rows = metrics.EconomicRankings(world)
	case "stability":
		rows = metrics.StabilityRankings(world)
	default:
		http.Error(w, "unknown ranking: "+by, http.StatusBadRequest)
		return
	}
	writeJSON(w, rows)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.Eng.Store().ListSessions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, sessions)
}

// handleHistory returns sampled snapshots of the current session for
// charting; ?max=N caps the number of points (default 50).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.Eng.SessionID() == "" {
		http.Error(w, "no session", http.StatusServiceUnavailable)
		return
	}

	maxPoints := 50
	if q := r.URL.Query().Get("max"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			http.Error(w, "invalid max", http.StatusBadRequest)
			return
		}
		maxPoints = n
	}

	snaps, err := s.Eng.Store().GetSampledSnapshots(s.Eng.SessionID(), maxPoints)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Re-encode each world document so the response is structured JSON
	// rather than a string of escaped JSON.
	type point struct {
		Tick  int64           `json:"tick"`
		World json.RawMessage `json:"world"`
	}
	points := make([]point, 0, len(snaps))
	for _, snap := range snaps {
		points = append(points, point{Tick: snap.Tick, World: json.RawMessage(snap.WorldJSON)})
	}
	writeJSON(w, points)
}
