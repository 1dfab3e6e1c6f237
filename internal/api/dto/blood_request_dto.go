package dto

import (
	"time"

	"github.com/spec-kit/blood-donation-service/internal/domain"
)

// CreateBloodRequestRequest payload.
type CreateBloodRequestRequest struct {
	BloodType       string              `json:"blood_type"`
	QuantityML      float64             `json:"quantity_ml"`
	Urgency         domain.UrgencyLevel `json:"urgency_level"`
	Description     string              `json:"description"`
	Latitude        *float64            `json:"latitude"`
	Longitude       *float64            `json:"longitude"`
	SearchRadiusKm  int                 `json:"search_radius_km"`
	HospitalName    string              `json:"hospital_name"`
	HospitalAddress string              `json:"hospital_address"`
	ContactPhone    string              `json:"contact_phone"`
	ContactEmail    string              `json:"contact_email"`
	Deadline        time.Time           `json:"deadline"`
	Notes           string              `json:"notes"`
}

// UpdateBloodRequestRequest carries optional field edits.
type UpdateBloodRequestRequest struct {
	BloodType       *string              `json:"blood_type"`
	QuantityML      *float64             `json:"quantity_ml"`
	Urgency         *domain.UrgencyLevel `json:"urgency_level"`
	Description     *string              `json:"description"`
	Latitude        *float64             `json:"latitude"`
	Longitude       *float64             `json:"longitude"`
	SearchRadiusKm  *int                 `json:"search_radius_km"`
	HospitalName    *string              `json:"hospital_name"`
	HospitalAddress *string              `json:"hospital_address"`
	ContactPhone    *string              `json:"contact_phone"`
	ContactEmail    *string              `json:"contact_email"`
	Deadline        *time.Time           `json:"deadline"`
	Notes           *string              `json:"notes"`
}

// BloodRequestResponse describes a blood request.
type BloodRequestResponse struct {
	ID              string               `json:"id"`
	HospitalID      string               `json:"hospital_id"`
	BloodType       domain.BloodType     `json:"blood_type"`
	QuantityML      float64              `json:"quantity_ml"`
	Urgency         domain.UrgencyLevel  `json:"urgency_level"`
	Description     string               `json:"description,omitempty"`
	Latitude        float64              `json:"latitude"`
	Longitude       float64              `json:"longitude"`
	SearchRadiusKm  int                  `json:"search_radius_km"`
	HospitalName    string               `json:"hospital_name,omitempty"`
	HospitalAddress string               `json:"hospital_address,omitempty"`
	ContactPhone    string               `json:"contact_phone,omitempty"`
	ContactEmail    string               `json:"contact_email,omitempty"`
	Deadline        time.Time            `json:"deadline"`
	Status          domain.RequestStatus `json:"status"`
	Notes           string               `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`

	ResponseCount         int `json:"response_count"`
	PendingResponseCount  int `json:"pending_response_count"`
	AcceptedResponseCount int `json:"accepted_response_count"`
}

// RespondRequest payload for a donor response.
type RespondRequest struct {
	Message string `json:"message"`
}

// DonorResponse describes a donor's response to a blood request.
type DonorResponse struct {
	ID           string                `json:"id"`
	RequestID    string                `json:"blood_request_id"`
	DonorID      string                `json:"donor_id"`
	Status       domain.ResponseStatus `json:"status"`
	Message      string                `json:"message,omitempty"`
	ResponseDate *time.Time            `json:"response_date"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`

	DonorName      string           `json:"donor_name,omitempty"`
	DonorEmail     string           `json:"donor_email,omitempty"`
	DonorPhone     string           `json:"donor_phone,omitempty"`
	DonorBloodType domain.BloodType `json:"donor_blood_type,omitempty"`

	RequestDescription string `json:"blood_request_description,omitempty"`
	HospitalName       string `json:"hospital_name,omitempty"`
}
