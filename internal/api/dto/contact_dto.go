package dto

import (
	"time"

	"github.com/spec-kit/blood-donation-service/internal/domain"
)

// ContactRequest payload for create and update.
type ContactRequest struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	PhoneNumber  string  `json:"phone_number"`
	BirthDate    *string `json:"birth_date"`
	BloodType    string  `json:"blood_type"`
	Relationship string  `json:"relationship"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	PostalCode   string  `json:"postal_code"`
	Notes        string  `json:"notes"`
}

// ContactResponse describes an address-book entry.
type ContactResponse struct {
	ID           string           `json:"id"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Email        string           `json:"email,omitempty"`
	PhoneNumber  string           `json:"phone_number,omitempty"`
	BirthDate    *string          `json:"birth_date,omitempty"`
	BloodType    domain.BloodType `json:"blood_type"`
	Relationship string           `json:"relationship,omitempty"`
	Address      string           `json:"address,omitempty"`
	City         string           `json:"city,omitempty"`
	PostalCode   string           `json:"postal_code,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
