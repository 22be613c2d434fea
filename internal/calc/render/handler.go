package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"Slope/internal/calc/slope"

	"go.uber.org/zap"
)

// Request is a slope to draw. Without a circle the critical circle is
// searched for first.
type Request struct {
	slope.Input
	Title  string        `json:"title"`
	Circle *slope.Circle `json:"circle,omitempty"`
}

type Handler struct {
	Searcher slope.Searcher
	Log      *zap.SugaredLogger
}

// Scene validates req and resolves it to a drawable scene.
func (h *Handler) Scene(ctx context.Context, req Request) (Scene, error) {
	if err := req.Validate(); err != nil {
		return Scene{}, err
	}
	s := Scene{Title: req.Title, Profile: req.Profile(), Circle: req.Circle, Slices: slope.ClampSlices(req.Slices)}
	if s.Circle != nil {
		if !(s.Circle.Radius > 0) {
			return Scene{}, fmt.Errorf("%w: radius must be positive", slope.ErrInvalidInput)
		}
		return s, nil
	}
	res, err := h.Searcher.Calculate(ctx, req.Input)
	if err != nil {
		return Scene{}, err
	}
	s.Circle = &slope.Circle{CenterX: res.Center.X, CenterY: res.Center.Y, Radius: res.RadiusM}
	if s.Title == "" {
		s.Title = fmt.Sprintf("Critical circle, FoS = %.3f", res.FoS)
	}
	return s, nil
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Scene, bool) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return Scene{}, false
	}
	s, err := h.Scene(r.Context(), req)
	if err != nil {
		slope.WriteError(w, err)
		return Scene{}, false
	}
	return s, true
}

func (h *Handler) PNG(w http.ResponseWriter, r *http.Request) {
	s, ok := h.decode(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := PNG(w, s); err != nil {
		h.logError("render png", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
	}
}

func (h *Handler) DXF(w http.ResponseWriter, r *http.Request) {
	s, ok := h.decode(w, r)
	if !ok {
		return
	}

	f, err := os.CreateTemp("", "slope-*.dxf")
	if err != nil {
		h.logError("dxf temp file", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := DXF(path, s); err != nil {
		h.logError("render dxf", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	out, err := os.Open(path)
	if err != nil {
		h.logError("reopen dxf", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	defer out.Close()

	w.Header().Set("Content-Type", "application/dxf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"slope.dxf\"")
	io.Copy(w, out)
}

func (h *Handler) logError(msg string, err error) {
	if h.Log != nil {
		h.Log.Errorw(msg, "error", err)
	}
}
