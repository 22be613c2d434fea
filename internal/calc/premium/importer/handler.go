package importer

import (
	"encoding/json"
	"net/http"

	"Slope/internal/calc/premium/batch"
	"Slope/internal/calc/slope"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Searcher slope.Searcher
}

type SlopeImportResult struct {
	Count   int               `json:"count"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
	Results []batch.SlopeItem `json:"results"`
}

func (h *Handler) Slopes(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	parsed, err := ReadSlopes(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	res, err := batch.Slopes(r.Context(), h.Searcher, batch.SlopeBatchInput{Items: parsed.Items})
	if err != nil {
		slope.WriteError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", "attachment; filename=\"slopes.xlsx\"")
		if err := WriteResults(w, parsed.Items, res); err != nil {
			http.Error(w, "Export error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SlopeImportResult{
		Count:   len(res.Results) - res.Failed,
		Skipped: parsed.Skipped,
		Failed:  res.Failed,
		Results: res.Results,
	})
}
