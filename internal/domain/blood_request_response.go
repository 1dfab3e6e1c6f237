package domain

import (
	"time"

	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

// ResponseStatus enumerates lifecycle states for donor responses.
type ResponseStatus string

const (
	ResponseStatusPending   ResponseStatus = "PENDING"
	ResponseStatusAccepted  ResponseStatus = "ACCEPTED"
	ResponseStatusDeclined  ResponseStatus = "DECLINED"
	ResponseStatusCompleted ResponseStatus = "COMPLETED"
)

// Valid reports whether s is a known response status.
func (s ResponseStatus) Valid() bool {
	_, ok := responseTransitions[s]
	return ok
}

// MaxResponseMessage bounds the optional donor message.
const MaxResponseMessage = 500

// BloodRequestResponse is a donor's offer to satisfy a blood request.
type BloodRequestResponse struct {
	ID           string
	RequestID    string
	DonorID      string
	Status       ResponseStatus
	Message      string
	ResponseDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ResponseCounts summarises the responses a blood request has received.
type ResponseCounts struct {
	Total    int
	Pending  int
	Accepted int
}

// Add tallies one response.
func (c *ResponseCounts) Add(status ResponseStatus) {
	c.Total++
	switch status {
	case ResponseStatusPending:
		c.Pending++
	case ResponseStatusAccepted:
		c.Accepted++
	}
}

var responseTransitions = map[ResponseStatus][]ResponseStatus{
	ResponseStatusPending:   {ResponseStatusAccepted, ResponseStatusDeclined},
	ResponseStatusAccepted:  {ResponseStatusCompleted},
	ResponseStatusDeclined:  {},
	ResponseStatusCompleted: {},
}

// CanTransitionResponse reports whether a response may move from one status to another.
func CanTransitionResponse(from, to ResponseStatus) bool {
	for _, candidate := range responseTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// CheckRespond guards the role and request state for a new response.
// Duplicate detection belongs to the store.
func CheckRespond(actor Actor, request *BloodRequest, message string) error {
	if !actor.Can(CapRespond) {
		return apperrors.NewForbidden("only donors can respond to blood requests")
	}
	if request.Status != RequestStatusActive {
		return apperrors.NewInvalidState("blood request is no longer active",
			map[string]any{"status": request.Status})
	}
	if len(message) > MaxResponseMessage {
		return apperrors.NewValidationError("message too long", map[string]any{"message": "max 500 characters"})
	}
	return nil
}

// CheckCompatibility rejects donors whose blood cannot satisfy the request.
func CheckCompatibility(donor BloodType, request *BloodRequest) error {
	if !IsCompatible(donor, request.BloodType) {
		return apperrors.NewIncompatible("donor blood type is not compatible with this request",
			map[string]any{"donor_blood_type": donor, "requested_blood_type": request.BloodType})
	}
	return nil
}

// CheckDonorCancel guards a donor withdrawing their own pending response.
func (r *BloodRequestResponse) CheckDonorCancel(actor Actor) error {
	if !actor.Can(CapRespond) || actor.ID != r.DonorID {
		return apperrors.NewForbidden("not the owner of this response")
	}
	if r.Status != ResponseStatusPending {
		return apperrors.NewInvalidState("only pending responses can be cancelled",
			map[string]any{"status": r.Status})
	}
	return nil
}

// CheckReview guards a hospital accepting, declining or completing a response on one
// of its own requests.
func (r *BloodRequestResponse) CheckReview(actor Actor, parent *BloodRequest, to ResponseStatus) error {
	if !actor.Can(CapReviewResponses) || parent == nil || parent.ID != r.RequestID || actor.ID != parent.HospitalID {
		return apperrors.NewForbidden("not the owner of the blood request for this response")
	}
	if !CanTransitionResponse(r.Status, to) {
		return apperrors.NewInvalidState("response cannot change status",
			map[string]any{"status": r.Status, "target": to})
	}
	return nil
}

// StampsResponseDate reports whether moving to the status records the hospital decision time.
func StampsResponseDate(to ResponseStatus) bool {
	return to == ResponseStatusAccepted || to == ResponseStatusDeclined
}
