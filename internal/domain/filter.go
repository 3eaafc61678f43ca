package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateRange is an inclusive [From, To] interval. Both ends are always set —
// the HTTP layer drops half-specified ranges before they reach the filter.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether d falls within the range, bounds included.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// ListFilter is the set of optional predicate stages applied when listing
// travel requests. Stages compose with AND; a nil/empty stage is skipped.
// The ownership scope (requester only sees their own requests) is not part
// of the filter — the repo applies it unconditionally.
//
// The same stages are rendered to SQL by the repo; Matches is the in-memory
// reference semantics used for unit tests.
type ListFilter struct {
	// Status restricts results to one exact status value.
	Status *Status

	// Destination restricts results to destinations containing this
	// substring, case-insensitively.
	Destination string

	// Departure restricts departure_date to an inclusive range.
	Departure *DateRange

	// Return restricts return_date to an inclusive range.
	Return *DateRange

	// CreatedAt restricts created_at to an inclusive range.
	CreatedAt *DateRange

	// Travel matches requests whose [departure, return] interval overlaps
	// the range: departure in range, OR return in range, OR the request's
	// interval fully encloses the range.
	Travel *DateRange
}

// Validate checks that every populated range is well ordered (To >= From).
// Returns ErrValidation (wrapped) naming the offending range.
func (f ListFilter) Validate() error {
	for _, r := range []struct {
		name string
		rng  *DateRange
	}{
		{"departure", f.Departure},
		{"return", f.Return},
		{"created", f.CreatedAt},
		{"travel", f.Travel},
	} {
		if r.rng != nil && r.rng.To.Before(r.rng.From) {
			return fmt.Errorf("%w: %s range end must not be before its start", ErrValidation, r.name)
		}
	}
	return nil
}

// Matches reports whether a travel request passes every populated stage.
func (f ListFilter) Matches(tr TravelRequest) bool {
	if f.Status != nil && tr.Status != *f.Status {
		return false
	}
	if f.Destination != "" &&
		!strings.Contains(strings.ToLower(tr.Destination), strings.ToLower(f.Destination)) {
		return false
	}
	if f.Departure != nil && !f.Departure.Contains(tr.DepartureDate) {
		return false
	}
	if f.Return != nil && !f.Return.Contains(tr.ReturnDate) {
		return false
	}
	if f.CreatedAt != nil && !f.CreatedAt.Contains(tr.CreatedAt) {
		return false
	}
	if f.Travel != nil && !travelOverlaps(tr, *f.Travel) {
		return false
	}
	return true
}

// travelOverlaps implements the three-way overlap rule:
// departure falls within the range, or return falls within the range, or the
// request's travel interval fully encloses the range.
func travelOverlaps(tr TravelRequest, r DateRange) bool {
	if r.Contains(tr.DepartureDate) || r.Contains(tr.ReturnDate) {
		return true
	}
	return !tr.DepartureDate.After(r.From) && !tr.ReturnDate.Before(r.To)
}
