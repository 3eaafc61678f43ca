package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tcosta/corptravel/internal/domain"
)

// subjectPrefix is the NATS subject namespace for travel notifications.
// The new status is appended lowercased, e.g. notifications.travel.approved.
const subjectPrefix = "notifications.travel."

// statusChangeEvent is the JSON schema published to NATS. Dates are
// "2006-01-02" strings; timestamps are RFC 3339.
type statusChangeEvent struct {
	RequestID     string    `json:"request_id"`
	Destination   string    `json:"destination"`
	DepartureDate string    `json:"departure_date"`
	ReturnDate    string    `json:"return_date"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	RequesterID   string    `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	ChangedBy     string    `json:"changed_by"`
	ChangedAt     time.Time `json:"changed_at"`
}

// NATSNotifier publishes status-change signals to a NATS subject for
// consumption by the external notification service. Publish errors are
// logged at warn level and swallowed — the status change is already durable.
type NATSNotifier struct {
	conn *nats.Conn
	log  *slog.Logger
}

// NewNATSNotifier constructs a notifier backed by the given NATS connection.
func NewNATSNotifier(conn *nats.Conn, log *slog.Logger) *NATSNotifier {
	return &NATSNotifier{conn: conn, log: log}
}

// Notify publishes the status change to notifications.travel.<new_status>.
func (n *NATSNotifier) Notify(ctx context.Context, change StatusChange) {
	data, err := json.Marshal(encodeStatusChange(change))
	if err != nil {
		n.log.WarnContext(ctx, "notify: failed to marshal status change",
			"request_id", change.RequestID, "error", err)
		return
	}

	subject := SubjectFor(change.NewStatus)
	if err := n.conn.Publish(subject, data); err != nil {
		n.log.WarnContext(ctx, "notify: failed to publish status change",
			"subject", subject, "request_id", change.RequestID, "error", err)
		return
	}

	n.log.DebugContext(ctx, "notify: status change published",
		"subject", subject, "request_id", change.RequestID)
}

// SubjectFor returns the NATS subject for a given target status.
func SubjectFor(status domain.Status) string {
	return subjectPrefix + strings.ToLower(string(status))
}

// encodeStatusChange maps the domain signal onto the wire schema.
func encodeStatusChange(c StatusChange) statusChangeEvent {
	return statusChangeEvent{
		RequestID:     c.RequestID.String(),
		Destination:   c.Destination,
		DepartureDate: c.DepartureDate.Format("2006-01-02"),
		ReturnDate:    c.ReturnDate.Format("2006-01-02"),
		OldStatus:     string(c.OldStatus),
		NewStatus:     string(c.NewStatus),
		RequesterID:   c.RequesterID.String(),
		RequesterName: c.RequesterName,
		ChangedBy:     c.ChangedBy.String(),
		ChangedAt:     c.ChangedAt,
	}
}
