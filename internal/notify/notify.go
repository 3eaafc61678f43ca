// Package notify delivers status-change signals to the outbound notification
// channel. Delivery is fire-and-forget: the status change is already
// committed by the time a signal is emitted, so a channel failure is logged
// and never propagated to the caller.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tcosta/corptravel/internal/domain"
)

// StatusChange is the signal emitted after a travel request reaches APPROVED
// or CANCELLED. It carries everything the notification service needs to
// message the requester without querying back.
type StatusChange struct {
	RequestID     uuid.UUID
	Destination   string
	DepartureDate time.Time
	ReturnDate    time.Time
	OldStatus     domain.Status
	NewStatus     domain.Status
	RequesterID   uuid.UUID
	RequesterName string
	ChangedBy     uuid.UUID
	ChangedAt     time.Time
}

// Notifier is the capability the transition orchestrator depends on.
// Implementations must not block the request path on delivery problems and
// must not return errors — best effort only.
type Notifier interface {
	Notify(ctx context.Context, change StatusChange)
}

// LogNotifier writes status changes to the structured log instead of an
// external channel. It is the fallback when no NATS_URL is configured, and
// keeps local development working without a running broker.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier constructs a LogNotifier writing to the given logger.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the status change at info level.
func (n *LogNotifier) Notify(ctx context.Context, change StatusChange) {
	n.log.InfoContext(ctx, "travel request status changed",
		"request_id", change.RequestID,
		"destination", change.Destination,
		"old_status", change.OldStatus,
		"new_status", change.NewStatus,
		"requester_id", change.RequesterID,
		"changed_by", change.ChangedBy,
	)
}
