package domain

import "time"

// ExportRow is a single row in the flat export of a user's travel requests.
// It is a denormalized, presentation-ready view: dates are pre-formatted as
// "2006-01-02" strings so both the CSV and JSON encoders can use them as-is.
type ExportRow struct {
	ID            string `json:"id"`
	RequesterName string `json:"requester_name"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
	Status        string `json:"status"`

	// Audit timestamps — nil when the transition never happened.
	ApprovedAt  *time.Time `json:"approved_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
}
