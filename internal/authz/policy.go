// Package authz implements the per-action authorization rules for travel
// requests. Every check is a pure function over (actor, request) returning a
// Decision; no I/O happens here. The service layer converts a deny into
// domain.ErrForbidden so it surfaces as 403, never as 404.
package authz

import "github.com/tcosta/corptravel/internal/domain"

// Decision is the outcome of a policy check: an allow/deny flag plus a
// human-readable reason when denied. It is a value, not an error, so callers
// can distinguish a deliberate deny from an unexpected failure.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns an allowing Decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a denying Decision carrying the given reason.
func Deny(reason string) Decision { return Decision{Reason: reason} }

// Policy evaluates what an actor may do to a travel request.
//
// The zero value is the default policy: status changes (approve and cancel)
// are reserved for users other than the requester. Setting
// RequesterMayCancel restores the older behavior where requesters could
// cancel their own requests.
type Policy struct {
	// RequesterMayCancel permits a requester to cancel their own request.
	// Approvals always require a different user regardless of this flag.
	RequesterMayCancel bool
}

// CanView allows a user to see only their own travel requests.
func (p Policy) CanView(actor domain.Actor, tr domain.TravelRequest) Decision {
	if !tr.IsRequester(actor.ID) {
		return Deny("you can only view your own travel requests")
	}
	return Allow()
}

// CanCreate allows any authenticated user to create a travel request.
func (p Policy) CanCreate(actor domain.Actor) Decision {
	return Allow()
}

// CanUpdate allows the requester to change content fields (destination,
// dates, requester name), and only while the request is still REQUESTED.
func (p Policy) CanUpdate(actor domain.Actor, tr domain.TravelRequest) Decision {
	if !tr.IsRequester(actor.ID) {
		return Deny("you can only update your own travel requests")
	}
	if tr.Status != domain.StatusRequested {
		return Deny("you can only update travel requests that are in REQUESTED status")
	}
	return Allow()
}

// CanApprove allows a user other than the requester to approve a REQUESTED
// request. The self-approval check runs first: a requester is denied even
// when the request is in a status that could not be approved anyway.
func (p Policy) CanApprove(actor domain.Actor, tr domain.TravelRequest) Decision {
	if tr.IsRequester(actor.ID) {
		return Deny("you cannot approve your own travel request")
	}
	if !tr.Status.CanBeApproved() {
		return Deny("only travel requests in REQUESTED status can be approved")
	}
	return Allow()
}

// CanCancel allows cancelling a REQUESTED or APPROVED request. Under the
// default policy the requester may not cancel their own request, mirroring
// CanApprove; RequesterMayCancel lifts that restriction.
func (p Policy) CanCancel(actor domain.Actor, tr domain.TravelRequest) Decision {
	if !p.RequesterMayCancel && tr.IsRequester(actor.ID) {
		return Deny("you cannot cancel your own travel request")
	}
	if !tr.Status.CanBeCancelled() {
		return Deny("this travel request cannot be cancelled")
	}
	return Allow()
}

// CanDelete allows the requester to hard-delete their own request while it
// is still REQUESTED. There is no soft delete or undo.
func (p Policy) CanDelete(actor domain.Actor, tr domain.TravelRequest) Decision {
	if !tr.IsRequester(actor.ID) {
		return Deny("you can only delete your own travel requests")
	}
	if tr.Status != domain.StatusRequested {
		return Deny("you can only delete travel requests that are in REQUESTED status")
	}
	return Allow()
}
