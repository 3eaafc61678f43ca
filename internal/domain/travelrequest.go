// Package domain contains the core data types for the corporate travel API.
// This package has zero framework dependencies and is imported by every other
// internal package (authz, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TravelRequest is a single corporate travel request.
//
// RequesterID and RequesterName are captured at creation; RequesterID never
// changes afterwards. ApprovedBy/ApprovedAt and CancelledBy/CancelledAt are
// independent audit pairs, each set exactly once by their transition and never
// cleared — cancelling an approved request keeps the approval pair intact.
//
// DepartureDate and ReturnDate are calendar dates (midnight UTC); ReturnDate
// is always strictly after DepartureDate.
type TravelRequest struct {
	ID            uuid.UUID
	RequesterID   uuid.UUID
	RequesterName string
	Destination   string
	DepartureDate time.Time
	ReturnDate    time.Time
	Status        Status
	ApprovedBy    *uuid.UUID
	ApprovedAt    *time.Time
	CancelledBy   *uuid.UUID
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsRequester reports whether the given user created this request.
func (tr TravelRequest) IsRequester(userID uuid.UUID) bool {
	return tr.RequesterID == userID
}

// Actor is the pre-authenticated identity attached to every operation.
// Authentication itself happens upstream (API gateway); the core never
// validates credentials, it only consumes the resolved identity.
type Actor struct {
	ID   uuid.UUID
	Name string
}
