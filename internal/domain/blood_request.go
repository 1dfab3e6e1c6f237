package domain

import (
	"time"

	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

// RequestStatus enumerates lifecycle states for blood requests.
type RequestStatus string

const (
	RequestStatusActive    RequestStatus = "ACTIVE"
	RequestStatusCompleted RequestStatus = "COMPLETED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
	RequestStatusExpired   RequestStatus = "EXPIRED"
)

// UrgencyLevel enumerates how quickly a request must be satisfied.
type UrgencyLevel string

const (
	UrgencyNormal   UrgencyLevel = "NORMAL"
	UrgencyUrgent   UrgencyLevel = "URGENT"
	UrgencyCritical UrgencyLevel = "CRITICAL"
)

// Rank orders urgency levels; higher is more urgent.
func (u UrgencyLevel) Rank() int {
	switch u {
	case UrgencyCritical:
		return 3
	case UrgencyUrgent:
		return 2
	case UrgencyNormal:
		return 1
	}
	return 0
}

// Valid reports whether u is a known urgency level.
func (u UrgencyLevel) Valid() bool {
	return u.Rank() > 0
}

// Request field limits.
const (
	MinSearchRadiusKm    = 1
	MaxSearchRadiusKm    = 500
	MaxDescriptionLength = 1000
	MaxNotesLength       = 1000
	MaxAddressLength     = 500
	MaxHospitalName      = 200
)

// BloodRequest is a hospital's call for donors of a given blood type.
type BloodRequest struct {
	ID              string
	HospitalID      string
	BloodType       BloodType
	QuantityML      float64
	Urgency         UrgencyLevel
	Description     string
	Latitude        float64
	Longitude       float64
	SearchRadiusKm  int
	HospitalName    string
	HospitalAddress string
	ContactPhone    string
	ContactEmail    string
	Deadline        time.Time
	Status          RequestStatus
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusActive:    {RequestStatusCompleted, RequestStatusCancelled, RequestStatusExpired},
	RequestStatusCompleted: {},
	RequestStatusCancelled: {},
	RequestStatusExpired:   {},
}

// CanTransitionRequest reports whether a request may move from one status to another.
func CanTransitionRequest(from, to RequestStatus) bool {
	for _, candidate := range requestTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ValidateRequest checks the fields shared by creation and edits. The deadline must be
// strictly after now.
func ValidateRequest(r *BloodRequest, now time.Time) error {
	details := map[string]any{}
	if !r.BloodType.Valid() {
		details["blood_type"] = "unknown blood type"
	}
	if !(r.QuantityML > 0) {
		details["quantity_ml"] = "must be greater than 0"
	}
	if !r.Urgency.Valid() {
		details["urgency_level"] = "must be NORMAL, URGENT or CRITICAL"
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		details["latitude"] = "must be within [-90, 90]"
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		details["longitude"] = "must be within [-180, 180]"
	}
	if r.SearchRadiusKm < MinSearchRadiusKm || r.SearchRadiusKm > MaxSearchRadiusKm {
		details["search_radius_km"] = "must be within [1, 500]"
	}
	if !r.Deadline.After(now) {
		details["deadline"] = "must be in the future"
	}
	CheckLength(details, "description", r.Description, MaxDescriptionLength)
	CheckLength(details, "notes", r.Notes, MaxNotesLength)
	CheckLength(details, "hospital_address", r.HospitalAddress, MaxAddressLength)
	CheckLength(details, "hospital_name", r.HospitalName, MaxHospitalName)
	CheckLength(details, "contact_phone", r.ContactPhone, MaxPhoneLength)
	CheckEmail(details, "contact_email", r.ContactEmail)
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid blood request", details)
	}
	return nil
}

// CheckCreate ensures the actor may post requests.
func CheckCreate(actor Actor) error {
	if !actor.Can(CapManageRequests) {
		return apperrors.NewForbidden("only hospitals can create blood requests")
	}
	return nil
}

// AuthorizeOwner ensures the actor is the hospital that owns the request.
func (r *BloodRequest) AuthorizeOwner(actor Actor) error {
	if !actor.Can(CapManageRequests) || actor.ID != r.HospitalID {
		return apperrors.NewForbidden("not the owner of this blood request")
	}
	return nil
}

// CheckEditable guards field edits: owner first, then ACTIVE.
func (r *BloodRequest) CheckEditable(actor Actor) error {
	if err := r.AuthorizeOwner(actor); err != nil {
		return err
	}
	if r.Status != RequestStatusActive {
		return apperrors.NewInvalidState("only active blood requests can be modified",
			map[string]any{"status": r.Status})
	}
	return nil
}

// CheckTransition guards an owner-driven status change (cancel or complete).
func (r *BloodRequest) CheckTransition(actor Actor, to RequestStatus) error {
	if err := r.AuthorizeOwner(actor); err != nil {
		return err
	}
	if !CanTransitionRequest(r.Status, to) {
		return apperrors.NewInvalidState("blood request cannot change status",
			map[string]any{"status": r.Status, "target": to})
	}
	return nil
}

// IsOverdue reports whether the sweep should expire the request.
func (r *BloodRequest) IsOverdue(now time.Time) bool {
	return r.Status == RequestStatusActive && r.Deadline.Before(now)
}
