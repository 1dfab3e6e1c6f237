package domain

import "time"

// Contact is an entry in a user's personal address book of known donors.
type Contact struct {
	ID           string
	OwnerID      string
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	BirthDate    *time.Time
	BloodType    BloodType
	Relationship string
	Address      string
	City         string
	PostalCode   string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
