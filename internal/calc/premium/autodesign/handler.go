package autodesign

import (
	"encoding/json"
	"errors"
	"net/http"

	"Slope/internal/calc/slope"
)

type Handler struct {
	Searcher slope.Searcher
}

func (h *Handler) Slope(w http.ResponseWriter, r *http.Request) {
	var input SlopeAutoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Slope(r.Context(), h.Searcher, input)
	if errors.Is(err, ErrTargetUnreachable) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		slope.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
