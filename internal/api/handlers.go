// SPDX-License-Identifier: MIT

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campuslib/mvol-validate/internal/log"
	"github.com/campuslib/mvol-validate/internal/store"
	"github.com/campuslib/mvol-validate/internal/validate"
)

type statusResponse struct {
	Version   string `json:"version"`
	UptimeSec int64  `json:"uptime_seconds"`
	Root      string `json:"root"`
	Chunk     string `json:"chunk"`
	Scanning  bool   `json:"scanning"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !s.ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Version:   s.version,
		UptimeSec: int64(time.Since(s.startTime).Seconds()),
		Root:      s.cfg.Root,
		Chunk:     s.cfg.Chunk,
		Scanning:  s.scanning.Load(),
	})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	report, err := s.Scan(r.Context())
	if errors.Is(err, ErrScanInProgress) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		logger := log.WithComponent("api")
		logger.Error().Err(err).Str("event", "scan.failed").Msg("scan failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.history.ListRuns(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.history.GetRun(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRunFindings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.history.GetRun(r.Context(), id); errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	findings, err := s.history.FindingsForRun(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if findings == nil {
		findings = []validate.Finding{}
	}
	writeJSON(w, http.StatusOK, findings)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := log.WithComponent("api")
		logger.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
