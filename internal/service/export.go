package service

import (
	"context"
	"fmt"

	"github.com/tcosta/corptravel/internal/domain"
	"github.com/tcosta/corptravel/internal/repo"
)

// ExportService assembles a flat export of a user's travel requests.
// The same ownership scope as listing applies: a user only ever exports
// their own requests.
type ExportService struct {
	repo repo.TravelRequestRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(r repo.TravelRequestRepo) *ExportService {
	return &ExportService{repo: r}
}

// Export returns one ExportRow per travel request owned by the actor that
// passes the filter, newest-created first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExportService) Export(ctx context.Context, actor domain.Actor, f domain.ListFilter) ([]domain.ExportRow, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	requests, err := s.repo.List(ctx, actor.ID, f)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(requests))
	for _, tr := range requests {
		rows = append(rows, domain.ExportRow{
			ID:            tr.ID.String(),
			RequesterName: tr.RequesterName,
			Destination:   tr.Destination,
			DepartureDate: tr.DepartureDate.Format("2006-01-02"),
			ReturnDate:    tr.ReturnDate.Format("2006-01-02"),
			Status:        string(tr.Status),
			ApprovedAt:    tr.ApprovedAt,
			CancelledAt:   tr.CancelledAt,
			CreatedAt:     tr.CreatedAt,
		})
	}
	return rows, nil
}
