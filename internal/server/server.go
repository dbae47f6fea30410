// Package server exposes the tracked events over HTTP: list, per-city
// refresh with cache fallback, and dashboard analytics. Statuses are
// recomputed at read time for every response; stored status is never
// served as authoritative.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/adhruv/bms-events/internal/event"
	"github.com/adhruv/bms-events/internal/logger"
	"github.com/adhruv/bms-events/internal/tracker"
)

// Refresher triggers a live refresh for one city. Implemented by
// tracker.Tracker; tests inject fakes.
type Refresher interface {
	RefreshCity(ctx context.Context, city string) (tracker.Result, error)
	Events(ctx context.Context, city string) ([]event.Event, error)
}

// Server handles the HTTP API.
type Server struct {
	refresher Refresher
	cities    []string
	mux       *http.ServeMux
}

// New builds the server and its routes.
func New(refresher Refresher, cities []string) *Server {
	s := &Server{refresher: refresher, cities: cities, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /cities", s.handleCities)
	s.mux.HandleFunc("GET /events", s.handleEvents)
	s.mux.HandleFunc("POST /refresh-events", s.handleRefresh)
	s.mux.HandleFunc("GET /analytics", s.handleAnalytics)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"cities": s.cities})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	city := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("city")))
	events, err := s.refresher.Events(r.Context(), city)
	if err != nil {
		logger.Error("listing events", logger.Fields{"city": city}, err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to load events"})
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	city := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("city")))
	if city == "" || !slices.Contains(s.cities, city) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid city"})
		return
	}

	result, err := s.refresher.RefreshCity(r.Context(), city)
	if err != nil && len(result.Events) == 0 {
		logger.Error("refresh failed", logger.Fields{"city": city}, err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to refresh events"})
		return
	}
	if err != nil {
		// The scrape succeeded but persistence didn't; serve the
		// in-memory result and let the next run retry the write.
		logger.Error("refresh persisted with errors", logger.Fields{"city": city}, err)
	}

	events := result.Events
	if events == nil {
		events = []event.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"refreshed":   len(events),
		"events":      events,
		"source":      result.Source,
		"refreshedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	all, err := s.refresher.Events(r.Context(), "")
	if err != nil {
		logger.Error("computing analytics", logger.Fields{}, err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to load events"})
		return
	}
	writeJSON(w, http.StatusOK, computeAnalytics(all))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("encoding response", nil, err)
	}
}
