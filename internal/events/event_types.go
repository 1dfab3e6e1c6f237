package events

import (
	"time"

	"github.com/spec-kit/blood-donation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated        EventType = "blood_request_created"
	EventRequestUpdated        EventType = "blood_request_updated"
	EventRequestStatusChanged  EventType = "blood_request_status_changed"
	EventResponseCreated       EventType = "response_created"
	EventResponseStatusChanged EventType = "response_status_changed"
	EventResponseWithdrawn     EventType = "response_withdrawn"
)

// Actor encapsulates actor metadata for an event. System-driven events carry an empty ID.
type Actor struct {
	ID   string      `json:"id,omitempty"`
	Role domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	BloodType domain.BloodType    `json:"blood_type"`
	Urgency   domain.UrgencyLevel `json:"urgency_level"`
	Deadline  time.Time           `json:"deadline"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	OldStatus domain.RequestStatus `json:"old_status"`
	NewStatus domain.RequestStatus `json:"new_status"`
}

// ResponseCreatedPayload payload.
type ResponseCreatedPayload struct {
	ResponseID string `json:"response_id"`
	DonorID    string `json:"donor_id"`
}

// ResponseStatusChangedPayload payload.
type ResponseStatusChangedPayload struct {
	ResponseID string                `json:"response_id"`
	OldStatus  domain.ResponseStatus `json:"old_status"`
	NewStatus  domain.ResponseStatus `json:"new_status"`
}
