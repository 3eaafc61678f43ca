package authz_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tcosta/corptravel/internal/authz"
	"github.com/tcosta/corptravel/internal/domain"
)

func actors() (requester, other domain.Actor) {
	return domain.Actor{ID: uuid.New(), Name: "Ana Souza"},
		domain.Actor{ID: uuid.New(), Name: "Bruno Lima"}
}

func request(requesterID uuid.UUID, status domain.Status) domain.TravelRequest {
	return domain.TravelRequest{
		ID:          uuid.New(),
		RequesterID: requesterID,
		Status:      status,
	}
}

func TestCanView(t *testing.T) {
	requester, other := actors()
	tr := request(requester.ID, domain.StatusRequested)
	p := authz.Policy{}

	assert.True(t, p.CanView(requester, tr).Allowed)

	d := p.CanView(other, tr)
	assert.False(t, d.Allowed)
	assert.NotEmpty(t, d.Reason)
}

func TestCanCreate_AnyAuthenticatedActor(t *testing.T) {
	requester, other := actors()
	p := authz.Policy{}

	assert.True(t, p.CanCreate(requester).Allowed)
	assert.True(t, p.CanCreate(other).Allowed)
}

func TestCanUpdate(t *testing.T) {
	requester, other := actors()
	p := authz.Policy{}

	assert.True(t, p.CanUpdate(requester, request(requester.ID, domain.StatusRequested)).Allowed)

	d := p.CanUpdate(other, request(requester.ID, domain.StatusRequested))
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "your own")

	// Owner, but no longer editable once approved.
	d = p.CanUpdate(requester, request(requester.ID, domain.StatusApproved))
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "REQUESTED status")
}

func TestCanApprove(t *testing.T) {
	requester, other := actors()
	p := authz.Policy{}

	assert.True(t, p.CanApprove(other, request(requester.ID, domain.StatusRequested)).Allowed)

	d := p.CanApprove(other, request(requester.ID, domain.StatusApproved))
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "REQUESTED status")

	d = p.CanApprove(other, request(requester.ID, domain.StatusCancelled))
	assert.False(t, d.Allowed)
}

// TestCanApprove_SelfApprovalCheckedFirst verifies the requester is denied
// with the self-approval reason in every status, including statuses where the
// status check would also fail.
func TestCanApprove_SelfApprovalCheckedFirst(t *testing.T) {
	requester, _ := actors()
	p := authz.Policy{}

	for _, status := range domain.Statuses {
		d := p.CanApprove(requester, request(requester.ID, status))
		assert.False(t, d.Allowed, "status %s", status)
		assert.Contains(t, d.Reason, "your own", "status %s", status)
	}
}

func TestCanCancel_DefaultPolicy(t *testing.T) {
	requester, other := actors()
	p := authz.Policy{}

	// Another user can cancel REQUESTED and APPROVED requests.
	assert.True(t, p.CanCancel(other, request(requester.ID, domain.StatusRequested)).Allowed)
	assert.True(t, p.CanCancel(other, request(requester.ID, domain.StatusApproved)).Allowed)

	// CANCELLED is terminal.
	d := p.CanCancel(other, request(requester.ID, domain.StatusCancelled))
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "cannot be cancelled")

	// Default policy: requesters may not cancel their own requests.
	d = p.CanCancel(requester, request(requester.ID, domain.StatusRequested))
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "your own")
}

func TestCanCancel_RequesterMayCancelVariant(t *testing.T) {
	requester, other := actors()
	p := authz.Policy{RequesterMayCancel: true}

	assert.True(t, p.CanCancel(requester, request(requester.ID, domain.StatusRequested)).Allowed)
	assert.True(t, p.CanCancel(requester, request(requester.ID, domain.StatusApproved)).Allowed)
	assert.True(t, p.CanCancel(other, request(requester.ID, domain.StatusApproved)).Allowed)

	// Terminal status still denies regardless of ownership.
	assert.False(t, p.CanCancel(requester, request(requester.ID, domain.StatusCancelled)).Allowed)
}

func TestCanDelete(t *testing.T) {
	requester, other := actors()
	p := authz.Policy{}

	assert.True(t, p.CanDelete(requester, request(requester.ID, domain.StatusRequested)).Allowed)

	assert.False(t, p.CanDelete(other, request(requester.ID, domain.StatusRequested)).Allowed)
	assert.False(t, p.CanDelete(requester, request(requester.ID, domain.StatusApproved)).Allowed)
	assert.False(t, p.CanDelete(requester, request(requester.ID, domain.StatusCancelled)).Allowed)
}
