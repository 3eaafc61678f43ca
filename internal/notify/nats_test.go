package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcosta/corptravel/internal/domain"
)

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "notifications.travel.approved", SubjectFor(domain.StatusApproved))
	assert.Equal(t, "notifications.travel.cancelled", SubjectFor(domain.StatusCancelled))
}

func TestEncodeStatusChange(t *testing.T) {
	requestID := uuid.New()
	requesterID := uuid.New()
	approverID := uuid.New()
	changedAt := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

	change := StatusChange{
		RequestID:     requestID,
		Destination:   "Lisboa",
		DepartureDate: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		ReturnDate:    time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
		OldStatus:     domain.StatusRequested,
		NewStatus:     domain.StatusApproved,
		RequesterID:   requesterID,
		RequesterName: "Ana Souza",
		ChangedBy:     approverID,
		ChangedAt:     changedAt,
	}

	data, err := json.Marshal(encodeStatusChange(change))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, requestID.String(), got["request_id"])
	assert.Equal(t, "Lisboa", got["destination"])
	assert.Equal(t, "2026-04-10", got["departure_date"])
	assert.Equal(t, "2026-04-20", got["return_date"])
	assert.Equal(t, "REQUESTED", got["old_status"])
	assert.Equal(t, "APPROVED", got["new_status"])
	assert.Equal(t, requesterID.String(), got["requester_id"])
	assert.Equal(t, approverID.String(), got["changed_by"])
}
