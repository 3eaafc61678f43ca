package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcosta/corptravel/internal/domain"
)

func sampleExportRows() []domain.ExportRow {
	approvedAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []domain.ExportRow{
		{
			ID:            uuid.NewString(),
			RequesterName: "Ana Souza",
			Destination:   "São Paulo",
			DepartureDate: "2026-03-10",
			ReturnDate:    "2026-03-14",
			Status:        "APPROVED",
			ApprovedAt:    &approvedAt,
			CreatedAt:     time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:            uuid.NewString(),
			RequesterName: "Ana Souza",
			Destination:   "Recife",
			DepartureDate: "2026-04-02",
			ReturnDate:    "2026-04-05",
			Status:        "REQUESTED",
			CreatedAt:     time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportTravelRequests_JSON(t *testing.T) {
	actor := domain.Actor{ID: uuid.New(), Name: "Ana Souza"}
	rows := sampleExportRows()

	exports := &mockExportServicer{
		export: func(_ context.Context, a domain.Actor, _ domain.ListFilter) ([]domain.ExportRow, error) {
			require.Equal(t, actor.ID, a.ID)
			return rows, nil
		},
	}
	h := newTestRouter(nil, exports)

	rec := doRequest(h, http.MethodGet, "/v1/travel-requests/export", "", actor)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.ExportRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "2026-03-10", resp.Data[0].DepartureDate)
	assert.Equal(t, "APPROVED", resp.Data[0].Status)
}

func TestExportTravelRequests_CSV(t *testing.T) {
	actor := domain.Actor{ID: uuid.New(), Name: "Ana Souza"}
	rows := sampleExportRows()

	exports := &mockExportServicer{
		export: func(_ context.Context, _ domain.Actor, _ domain.ListFilter) ([]domain.ExportRow, error) {
			return rows, nil
		},
	}
	h := newTestRouter(nil, exports)

	rec := doRequest(h, http.MethodGet, "/v1/travel-requests/export?format=csv", "", actor)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "travel-requests.csv")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one line per row")
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "São Paulo", records[1][2])
	assert.Equal(t, "", records[2][6], "approved_at empty for a REQUESTED row")
}

func TestExportTravelRequests_FilterApplied(t *testing.T) {
	actor := domain.Actor{ID: uuid.New(), Name: "Ana Souza"}

	var gotFilter domain.ListFilter
	exports := &mockExportServicer{
		export: func(_ context.Context, _ domain.Actor, f domain.ListFilter) ([]domain.ExportRow, error) {
			gotFilter = f
			return []domain.ExportRow{}, nil
		},
	}
	h := newTestRouter(nil, exports)

	rec := doRequest(h, http.MethodGet, "/v1/travel-requests/export?status=CANCELLED", "", actor)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotFilter.Status)
	assert.Equal(t, domain.StatusCancelled, *gotFilter.Status)
}
