package slope

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"Slope/internal/auth"
	"Slope/internal/repo"

	"go.uber.org/zap"
)

type Handler struct {
	Searcher Searcher
	// Store, when set, receives every successful calculation made by an
	// authenticated user.
	Store repo.AnalysisStore
	Log   *zap.SugaredLogger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.Searcher.Calculate(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.save(r.Context(), input, res)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) FoS(w http.ResponseWriter, r *http.Request) {
	var input CircleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := CalculateCircle(input)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	WriteError(w, err)
	if h.Log != nil {
		h.Log.Warnw("slope calculation failed", "error", err)
	}
}

// WriteError maps calculation errors to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNoSurface):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "Calculation timed out", http.StatusServiceUnavailable)
	default:
		http.Error(w, "Calculation error", http.StatusInternalServerError)
	}
}

func (h *Handler) save(ctx context.Context, in Input, res Result) {
	if h.Store == nil {
		return
	}
	userID, ok := auth.UserID(ctx)
	if !ok {
		return
	}
	_, err := h.Store.SaveAnalysis(ctx, repo.Analysis{
		UserID:        userID,
		HeightM:       in.HeightM,
		SlopeAngleDeg: in.SlopeAngleDeg,
		CohesionKPa:   in.CohesionKPa,
		FrictionDeg:   in.FrictionAngleDeg,
		UnitWeight:    in.UnitWeightKNM3,
		CenterX:       res.Center.X,
		CenterY:       res.Center.Y,
		RadiusM:       res.RadiusM,
		FoS:           res.FoS,
	})
	if err != nil && h.Log != nil {
		h.Log.Errorw("save analysis", "user_id", userID, "error", err)
	}
}
