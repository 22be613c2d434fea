// Package history serves a user's saved slope analyses.
package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"Slope/internal/auth"
	"Slope/internal/repo"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 50
	maxLimit     = 500
)

type Handler struct {
	Repo repo.AnalysisStore
	Log  *zap.SugaredLogger
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLimit)
	}

	items, err := h.Repo.ListAnalyses(r.Context(), userID, limit)
	if err != nil {
		h.dbError(w, "list analyses", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "Analysis not found", http.StatusNotFound)
		return
	}

	a, err := h.Repo.GetAnalysis(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Analysis not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.dbError(w, "get analysis", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}

func (h *Handler) dbError(w http.ResponseWriter, msg string, err error) {
	if h.Log != nil {
		h.Log.Errorw(msg, "error", err)
	}
	http.Error(w, "DB error", http.StatusInternalServerError)
}
