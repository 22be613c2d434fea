package batch

import (
	"encoding/json"
	"net/http"

	"Slope/internal/calc/slope"
)

type Handler struct {
	Searcher slope.Searcher
}

func (h *Handler) Slopes(w http.ResponseWriter, r *http.Request) {
	var input SlopeBatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Slopes(r.Context(), h.Searcher, input)
	if err != nil {
		slope.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) Circles(w http.ResponseWriter, r *http.Request) {
	var input CircleBatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Circles(input)
	if err != nil {
		slope.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
