package handler

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/tcosta/corptravel/internal/domain"
)

// exportCSVHeader is the fixed column order of the CSV export.
var exportCSVHeader = []string{
	"id", "requester_name", "destination", "departure_date", "return_date",
	"status", "approved_at", "cancelled_at", "created_at",
}

// ExportTravelRequests handles GET /v1/travel-requests/export.
// It returns the actor's own requests as JSON, or CSV with ?format=csv.
// The same filters as listing apply; there is no pagination.
func (s *Server) ExportTravelRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	f, err := parseListFilter(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}

	rows, err := s.exports.Export(r.Context(), actor, f)
	if err != nil {
		respondError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeExportCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}

func writeExportCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="travel-requests.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(exportCSVHeader)
	for _, row := range rows {
		_ = cw.Write([]string{
			row.ID,
			row.RequesterName,
			row.Destination,
			row.DepartureDate,
			row.ReturnDate,
			row.Status,
			formatOptionalTime(row.ApprovedAt),
			formatOptionalTime(row.CancelledAt),
			row.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
