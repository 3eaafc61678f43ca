package domain

import "fmt"

// Status is the lifecycle state of a travel request.
//
// Transitions are one-directional:
//
//	REQUESTED → APPROVED
//	REQUESTED → CANCELLED
//	APPROVED  → CANCELLED
//
// CANCELLED is terminal. The predicates below only report legality of a
// transition; applying one is the job of the repo's ChangeStatus.
type Status string

const (
	StatusRequested Status = "REQUESTED"
	StatusApproved  Status = "APPROVED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every valid status value, in lifecycle order.
var Statuses = []Status{StatusRequested, StatusApproved, StatusCancelled}

// ParseStatus converts a raw string into a Status.
// Returns ErrValidation (wrapped) for anything outside the enum.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusRequested, StatusApproved, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
}

// CanBeApproved reports whether a request in this status may be approved.
// Only REQUESTED requests can be approved.
func (s Status) CanBeApproved() bool {
	return s == StatusRequested
}

// CanBeCancelled reports whether a request in this status may be cancelled.
// Both REQUESTED and APPROVED requests can be cancelled.
func (s Status) CanBeCancelled() bool {
	return s == StatusRequested || s == StatusApproved
}

// Label returns the human-readable form used in API responses.
func (s Status) Label() string {
	switch s {
	case StatusRequested:
		return "Requested"
	case StatusApproved:
		return "Approved"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}
