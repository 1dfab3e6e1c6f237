package dto

import (
	"time"

	"github.com/spec-kit/blood-donation-service/internal/domain"
)

// UserRegisterRequest payload for new accounts.
type UserRegisterRequest struct {
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	PhoneNumber  string   `json:"phone_number"`
	BirthDate    *string  `json:"birth_date"`
	BloodType    string   `json:"blood_type"`
	Role         string   `json:"role"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	PostalCode   string   `json:"postal_code"`
	HospitalName string   `json:"hospital_name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UpdateProfileRequest carries optional profile edits.
type UpdateProfileRequest struct {
	FirstName    *string  `json:"first_name"`
	LastName     *string  `json:"last_name"`
	PhoneNumber  *string  `json:"phone_number"`
	BirthDate    *string  `json:"birth_date"`
	BloodType    *string  `json:"blood_type"`
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	PostalCode   *string  `json:"postal_code"`
	HospitalName *string  `json:"hospital_name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID           string           `json:"id"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Email        string           `json:"email"`
	PhoneNumber  string           `json:"phone_number,omitempty"`
	BirthDate    *string          `json:"birth_date,omitempty"`
	BloodType    domain.BloodType `json:"blood_type"`
	Role         domain.Role      `json:"role"`
	Address      string           `json:"address,omitempty"`
	City         string           `json:"city,omitempty"`
	PostalCode   string           `json:"postal_code,omitempty"`
	HospitalName string           `json:"hospital_name,omitempty"`
	Latitude     *float64         `json:"latitude,omitempty"`
	Longitude    *float64         `json:"longitude,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
