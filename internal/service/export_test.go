package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcosta/corptravel/internal/domain"
	"github.com/tcosta/corptravel/internal/service"
)

func TestExport_MapsRows(t *testing.T) {
	requester := domain.Actor{ID: uuid.New(), Name: "Ana"}
	tr := pendingRequest(requester)
	tr.DepartureDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tr.ReturnDate = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	approvedAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	tr.Status = domain.StatusApproved
	tr.ApprovedAt = &approvedAt

	var scopedTo uuid.UUID
	svc := service.NewExportService(&mockTravelRequestRepo{
		list: func(_ context.Context, requesterID uuid.UUID, _ domain.ListFilter) ([]domain.TravelRequest, error) {
			scopedTo = requesterID
			return []domain.TravelRequest{tr}, nil
		},
	})

	rows, err := svc.Export(context.Background(), requester, domain.ListFilter{})

	require.NoError(t, err)
	assert.Equal(t, requester.ID, scopedTo)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, tr.ID.String(), row.ID)
	assert.Equal(t, "2026-03-10", row.DepartureDate)
	assert.Equal(t, "2026-03-14", row.ReturnDate)
	assert.Equal(t, "APPROVED", row.Status)
	require.NotNil(t, row.ApprovedAt)
	assert.True(t, row.ApprovedAt.Equal(approvedAt))
	assert.Nil(t, row.CancelledAt)
}

func TestExport_EmptyIsNonNil(t *testing.T) {
	svc := service.NewExportService(&mockTravelRequestRepo{
		list: func(_ context.Context, _ uuid.UUID, _ domain.ListFilter) ([]domain.TravelRequest, error) {
			return nil, nil
		},
	})

	rows, err := svc.Export(context.Background(), domain.Actor{ID: uuid.New()}, domain.ListFilter{})

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExport_InvalidRange(t *testing.T) {
	svc := service.NewExportService(&mockTravelRequestRepo{})

	f := domain.ListFilter{CreatedAt: &domain.DateRange{
		From: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	_, err := svc.Export(context.Background(), domain.Actor{ID: uuid.New()}, f)

	assert.ErrorIs(t, err, domain.ErrValidation)
}
