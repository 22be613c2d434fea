package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"Slope/internal/calc/render"
	"Slope/internal/calc/slope"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

type Input struct {
	Project string      `json:"project"`
	Author  string      `json:"author"`
	Title   string      `json:"title"`
	Notes   string      `json:"notes"`
	Slope   slope.Input `json:"slope"`
}

type Handler struct {
	Searcher slope.Searcher
	Log      *zap.SugaredLogger
	// Now stamps the report date; nil means time.Now.
	Now func() time.Time
}

// Write runs the analysis described by in and writes the PDF report to w.
func (h *Handler) Write(ctx context.Context, w io.Writer, in Input) error {
	if in.Title == "" {
		in.Title = "Slope Stability Report"
	}
	res, err := h.Searcher.Calculate(ctx, in.Slope)
	if err != nil {
		return err
	}

	var img bytes.Buffer
	scene := render.Scene{
		Title:   fmt.Sprintf("Critical circle, FoS = %.3f", res.FoS),
		Profile: in.Slope.Profile(),
		Circle:  &slope.Circle{CenterX: res.Center.X, CenterY: res.Center.Y, Radius: res.RadiusM},
		Slices:  slope.DefaultSlices,
	}
	if err := render.PNG(&img, scene); err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	pdf := h.document(in, res, &img)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return pdf.Output(w)
}

// document lays out the report. User-supplied text goes through the cp1252
// translator of the core fonts.
func (h *Handler) document(in Input, res slope.Result, img io.Reader) *gofpdf.Fpdf {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(in.Title, true)
	pdf.SetAuthor(in.Author, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(in.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", in.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", in.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now().Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Input")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Slope height, m", fmt.Sprintf("%.2f", in.Slope.HeightM)},
		{"Slope angle, deg", fmt.Sprintf("%.1f", in.Slope.SlopeAngleDeg)},
		{"Cohesion, kPa", fmt.Sprintf("%.1f", in.Slope.CohesionKPa)},
		{"Friction angle, deg", fmt.Sprintf("%.1f", in.Slope.FrictionAngleDeg)},
		{"Unit weight, kN/m3", fmt.Sprintf("%.1f", in.Slope.UnitWeightKNM3)},
	}
	table(pdf, rows)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Critical failure surface")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	verdict := "STABLE"
	if !res.Stable {
		verdict = "UNSTABLE"
	}
	table(pdf, [][2]string{
		{"Center x, m", fmt.Sprintf("%.3f", res.Center.X)},
		{"Center y, m", fmt.Sprintf("%.3f", res.Center.Y)},
		{"Radius, m", fmt.Sprintf("%.3f", res.RadiusM)},
		{"Factor of safety", fmt.Sprintf("%.3f", res.FoS)},
		{"Circles evaluated", fmt.Sprintf("%d (%d feasible)", res.Evaluated, res.Feasible)},
		{"Verdict", verdict},
	})

	pdf.Ln(4)
	pdf.RegisterImageOptionsReader("plot", gofpdf.ImageOptions{ImageType: "PNG"}, img)
	pdf.ImageOptions("plot", 35, pdf.GetY(), 140, 140, true, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if in.Notes != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(in.Notes), "", "L", false)
	}
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, res.Notes, "", "L", false)
	return pdf
}

func table(pdf *gofpdf.Fpdf, rows [][2]string) {
	for _, row := range rows {
		pdf.CellFormat(70, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, row[1], "1", 1, "R", false, 0, "")
	}
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.Write(r.Context(), &buf, input); err != nil {
		if h.Log != nil {
			h.Log.Warnw("report generation failed", "error", err)
		}
		slope.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}
