// internal/app/features/importruns/handler.go

// Package importruns exposes the audit trail of bulk provisioning runs.
package importruns

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	runstore "github.com/campusbridge/precollegehub/internal/app/store/importruns"
	"github.com/campusbridge/precollegehub/internal/app/system/timeouts"
	"github.com/campusbridge/precollegehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Runs *runstore.Store
	Log  *zap.Logger
}

func NewHandler(runs *runstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Runs: runs, Log: logger}
}

// ServeList handles GET /import-runs with an optional ?limit=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list import runs")
	defer cancel()

	runs, err := h.Runs.List(ctx, limit)
	if err != nil {
		h.Log.Error("list import runs failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []models.ImportRun{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(runs)
}

// ServeGet handles GET /import-runs/{run_id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "run_id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get import run")
	defer cancel()

	run, err := h.Runs.GetByRunID(ctx, runID)
	if errors.Is(err, runstore.ErrNotFound) {
		http.Error(w, "import run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("get import run failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(run)
}
