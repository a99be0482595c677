// Package api exposes the overlay pipeline over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/banshee-data/suitability.report/internal/config"
	"github.com/banshee-data/suitability.report/internal/geo"
	"github.com/banshee-data/suitability.report/internal/monitoring"
	"github.com/banshee-data/suitability.report/internal/overlay"
	"github.com/banshee-data/suitability.report/internal/raster"
	"github.com/banshee-data/suitability.report/internal/report"
	"github.com/banshee-data/suitability.report/internal/store"
)

// LayerStore is the store surface the server needs: grid resolution for the
// pipeline plus layer listing for the catalogue endpoint.
type LayerStore interface {
	overlay.GridStore
	List() ([]store.LayerMeta, error)
}

// Server wires the overlay pipeline and layer store into HTTP handlers.
type Server struct {
	store    LayerStore
	pipeline *overlay.Pipeline
	settings *config.Settings
}

// NewServer builds a Server around the given store and settings.
func NewServer(ls LayerStore, settings *config.Settings) *Server {
	p := overlay.NewPipeline(ls)
	p.ScoreMin = settings.GetScoreMin()
	p.ScoreMax = settings.GetScoreMax()
	p.Workers = settings.GetWorkers()
	return &Server{store: ls, pipeline: p, settings: settings}
}

// ServeMux returns the route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/overlay", s.handleOverlay)
	mux.HandleFunc("/api/layers", s.handleLayers)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	layers, err := s.store.List()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list layers: %v", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"layers": layers})
}

// overlayResponse is the success payload for POST /api/overlay.
type overlayResponse struct {
	RunID       string              `json:"run_id"`
	Stats       raster.Stats        `json:"stats"`
	Artifacts   map[string]string   `json:"artifacts,omitempty"`
	Diagnostics overlay.Diagnostics `json:"diagnostics"`
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req overlay.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	res, err := s.pipeline.Run(r.Context(), req)
	if err != nil {
		s.writeJSONError(w, statusForRunError(err), err.Error())
		return
	}

	artifacts, err := report.WriteArtifacts(s.settings.GetOutputDir(), res, req, s.settings.GetLayerDescriptions())
	if err != nil {
		monitoring.Logf("[api] run %s succeeded but artifact writing failed: %v", res.RunID, err)
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to write artifacts: %v", err))
		return
	}

	s.writeJSON(w, http.StatusOK, overlayResponse{
		RunID:       res.RunID,
		Stats:       res.Diagnostics.Stats,
		Artifacts:   artifacts,
		Diagnostics: res.Diagnostics,
	})
}

// statusForRunError maps pipeline error kinds onto HTTP statuses. Bad inputs
// are the caller's fault; everything else is ours.
func statusForRunError(err error) int {
	switch {
	case errors.Is(err, overlay.ErrUnknownLayer):
		return http.StatusNotFound
	case errors.Is(err, geo.ErrInvalidGeometry),
		errors.Is(err, overlay.ErrEmptyWeightTable),
		errors.Is(err, overlay.ErrUnknownPolarity),
		errors.Is(err, raster.ErrMisalignedGrid),
		errors.Is(err, raster.ErrDegenerateRange):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		monitoring.Logf("[api] failed to encode response: %v", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
