// Package service contains the business logic for the corporate travel API.
// Services validate inputs, evaluate the authorization policy, and
// orchestrate repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tcosta/corptravel/internal/authz"
	"github.com/tcosta/corptravel/internal/domain"
	"github.com/tcosta/corptravel/internal/notify"
	"github.com/tcosta/corptravel/internal/repo"
)

// maxFieldLen caps requester_name and destination, matching the column
// limits enforced at the API boundary.
const maxFieldLen = 255

// CreateInput carries the caller-supplied fields for a new travel request.
// There is deliberately no status field: every request starts as REQUESTED.
type CreateInput struct {
	RequesterName string
	Destination   string
	DepartureDate time.Time
	ReturnDate    time.Time
}

// UpdateInput carries a partial content update. Nil fields are left
// unchanged. Status and audit fields are not updatable through this path.
type UpdateInput struct {
	RequesterName *string
	Destination   *string
	DepartureDate *time.Time
	ReturnDate    *time.Time
}

// TravelRequestService implements the travel request business operations:
// CRUD plus the status transition orchestration.
type TravelRequestService struct {
	repo     repo.TravelRequestRepo
	policy   authz.Policy
	notifier notify.Notifier
}

// NewTravelRequestService constructs a TravelRequestService.
func NewTravelRequestService(r repo.TravelRequestRepo, p authz.Policy, n notify.Notifier) *TravelRequestService {
	return &TravelRequestService{repo: r, policy: p, notifier: n}
}

// Create validates and persists a new travel request owned by the actor.
// The stored status is always REQUESTED regardless of input.
func (s *TravelRequestService) Create(ctx context.Context, actor domain.Actor, in CreateInput) (domain.TravelRequest, error) {
	if d := s.policy.CanCreate(actor); !d.Allowed {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.Create: %w", forbidden(d))
	}
	if err := validateContent(in.RequesterName, in.Destination, in.DepartureDate, in.ReturnDate, true); err != nil {
		return domain.TravelRequest{}, err
	}

	result, err := s.repo.Create(ctx, domain.TravelRequest{
		RequesterID:   actor.ID,
		RequesterName: in.RequesterName,
		Destination:   in.Destination,
		DepartureDate: in.DepartureDate,
		ReturnDate:    in.ReturnDate,
	})
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.Create: %w", err)
	}
	return result, nil
}

// Get returns a single travel request by ID. Only the requester may view it;
// anyone else gets domain.ErrForbidden, never a not-found masquerade.
func (s *TravelRequestService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.TravelRequest, error) {
	tr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.Get: %w", err)
	}
	if d := s.policy.CanView(actor, tr); !d.Allowed {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.Get: %w", forbidden(d))
	}
	return tr, nil
}

// List returns one page of the actor's own travel requests, filtered and
// ordered newest-created first, plus the total match count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TravelRequestService) List(ctx context.Context, actor domain.Actor, f domain.ListFilter, p domain.PaginationParams) ([]domain.TravelRequest, int64, error) {
	if err := f.Validate(); err != nil {
		return nil, 0, err
	}
	requests, total, err := s.repo.ListPaged(ctx, actor.ID, f, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TravelRequestService.List: %w", err)
	}
	if requests == nil {
		requests = []domain.TravelRequest{}
	}
	return requests, total, nil
}

// Update applies a partial content update to a travel request.
// Only the requester may update, and only while the request is REQUESTED.
func (s *TravelRequestService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, in UpdateInput) (domain.TravelRequest, error) {
	tr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.Update: %w", err)
	}
	if d := s.policy.CanUpdate(actor, tr); !d.Allowed {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.Update: %w", forbidden(d))
	}

	if in.RequesterName != nil {
		tr.RequesterName = *in.RequesterName
	}
	if in.Destination != nil {
		tr.Destination = *in.Destination
	}
	if in.DepartureDate != nil {
		tr.DepartureDate = *in.DepartureDate
	}
	if in.ReturnDate != nil {
		tr.ReturnDate = *in.ReturnDate
	}

	// The departure-not-in-the-past rule only applies when the caller is
	// actually moving the departure date; the return/departure ordering is
	// re-checked against the effective values either way.
	if err := validateContent(tr.RequesterName, tr.Destination, tr.DepartureDate, tr.ReturnDate, in.DepartureDate != nil); err != nil {
		return domain.TravelRequest{}, err
	}

	result, err := s.repo.Update(ctx, tr)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.Update: %w", err)
	}
	return result, nil
}

// ChangeStatus transitions a travel request to APPROVED or CANCELLED.
//
// The policy is evaluated first against the loaded request; the repo then
// re-checks the transition under a row lock, so a concurrent conflicting
// change surfaces as domain.ErrConflict. On success exactly one
// status-change signal is emitted; notification failures never surface here.
func (s *TravelRequestService) ChangeStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, next domain.Status) (domain.TravelRequest, error) {
	if next != domain.StatusApproved && next != domain.StatusCancelled {
		return domain.TravelRequest{}, fmt.Errorf("%w: status must be either APPROVED or CANCELLED", domain.ErrValidation)
	}

	tr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.ChangeStatus: %w", err)
	}

	var d authz.Decision
	if next == domain.StatusApproved {
		d = s.policy.CanApprove(actor, tr)
	} else {
		d = s.policy.CanCancel(actor, tr)
	}
	if !d.Allowed {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.ChangeStatus: %w", forbidden(d))
	}

	updated, oldStatus, err := s.repo.ChangeStatus(ctx, id, next, actor.ID)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.ChangeStatus: %w", err)
	}

	s.notifier.Notify(ctx, statusChange(updated, oldStatus, actor))

	return updated, nil
}

// Delete removes a travel request. Only the requester may delete, and only
// while the request is still REQUESTED. Hard delete — no undo.
func (s *TravelRequestService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	tr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.TravelRequestService.Delete: %w", err)
	}
	if d := s.policy.CanDelete(actor, tr); !d.Allowed {
		return fmt.Errorf("service.TravelRequestService.Delete: %w", forbidden(d))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TravelRequestService.Delete: %w", err)
	}
	return nil
}

// forbidden converts a policy deny into a wrapped domain.ErrForbidden
// carrying the human-readable reason.
func forbidden(d authz.Decision) error {
	return fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
}

// statusChange builds the outbound signal for a committed transition.
// ChangedAt comes from the audit pair the transition just stamped.
func statusChange(tr domain.TravelRequest, oldStatus domain.Status, actor domain.Actor) notify.StatusChange {
	changedAt := tr.UpdatedAt
	if tr.Status == domain.StatusApproved && tr.ApprovedAt != nil {
		changedAt = *tr.ApprovedAt
	} else if tr.Status == domain.StatusCancelled && tr.CancelledAt != nil {
		changedAt = *tr.CancelledAt
	}

	return notify.StatusChange{
		RequestID:     tr.ID,
		Destination:   tr.Destination,
		DepartureDate: tr.DepartureDate,
		ReturnDate:    tr.ReturnDate,
		OldStatus:     oldStatus,
		NewStatus:     tr.Status,
		RequesterID:   tr.RequesterID,
		RequesterName: tr.RequesterName,
		ChangedBy:     actor.ID,
		ChangedAt:     changedAt,
	}
}

// validateContent enforces the field rules shared by Create and Update.
//   - requester name and destination must be non-empty and at most 255 chars.
//   - return date must be strictly after the departure date.
//   - when checkDeparture is set, the departure date must not be in the past.
func validateContent(requesterName, destination string, departure, ret time.Time, checkDeparture bool) error {
	if strings.TrimSpace(requesterName) == "" {
		return fmt.Errorf("%w: requester name is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(requesterName) > maxFieldLen {
		return fmt.Errorf("%w: requester name must be at most %d characters", domain.ErrValidation, maxFieldLen)
	}
	if strings.TrimSpace(destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(destination) > maxFieldLen {
		return fmt.Errorf("%w: destination must be at most %d characters", domain.ErrValidation, maxFieldLen)
	}
	if checkDeparture && departure.Before(startOfToday()) {
		return fmt.Errorf("%w: departure date must be today or a future date", domain.ErrValidation)
	}
	if !ret.After(departure) {
		return fmt.Errorf("%w: return date must be after the departure date", domain.ErrValidation)
	}
	return nil
}

// startOfToday returns midnight UTC of the current day, the reference point
// for the departure-not-in-the-past rule.
func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
