package domain

import "time"

// User is a donor, hospital or administrator account.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	PhoneNumber  string
	BirthDate    *time.Time
	BloodType    BloodType
	Role         Role
	Address      string
	City         string
	PostalCode   string
	HospitalName string
	Latitude     *float64
	Longitude    *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor returns the user as an operation caller.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
