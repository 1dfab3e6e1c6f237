package domain

import (
	"fmt"
	"net/mail"
	"unicode/utf8"
)

// Column widths of the person and contact fields in the schema.
const (
	MaxNameLength         = 100
	MaxEmailLength        = 255
	MaxPhoneLength        = 30
	MaxCityLength         = 100
	MaxPostalCodeLength   = 20
	MaxRelationshipLength = 50
)

// CheckLength records field in details when value is longer than max characters.
func CheckLength(details map[string]any, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		details[field] = fmt.Sprintf("max %d characters", max)
	}
}

// CheckEmail records field in details when a non-empty value is not a bare address.
func CheckEmail(details map[string]any, field, value string) {
	if value == "" {
		return
	}
	if utf8.RuneCountInString(value) > MaxEmailLength {
		details[field] = fmt.Sprintf("max %d characters", MaxEmailLength)
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		details[field] = "invalid email"
	}
}

// CheckPerson validates the name, phone and address fields shared by users and contacts.
func CheckPerson(details map[string]any, firstName, lastName, phone, address, city, postalCode string) {
	CheckLength(details, "first_name", firstName, MaxNameLength)
	CheckLength(details, "last_name", lastName, MaxNameLength)
	CheckLength(details, "phone_number", phone, MaxPhoneLength)
	CheckLength(details, "address", address, MaxAddressLength)
	CheckLength(details, "city", city, MaxCityLength)
	CheckLength(details, "postal_code", postalCode, MaxPostalCodeLength)
}
