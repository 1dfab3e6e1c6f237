package domain

import (
	"fmt"
	"strings"
)

// BloodType enumerates the eight ABO/Rh groups. Values use the display form.
type BloodType string

const (
	BloodTypeONegative  BloodType = "O-"
	BloodTypeOPositive  BloodType = "O+"
	BloodTypeANegative  BloodType = "A-"
	BloodTypeAPositive  BloodType = "A+"
	BloodTypeBNegative  BloodType = "B-"
	BloodTypeBPositive  BloodType = "B+"
	BloodTypeABNegative BloodType = "AB-"
	BloodTypeABPositive BloodType = "AB+"
)

// AllBloodTypes lists every supported blood type.
var AllBloodTypes = []BloodType{
	BloodTypeONegative,
	BloodTypeOPositive,
	BloodTypeANegative,
	BloodTypeAPositive,
	BloodTypeBNegative,
	BloodTypeBPositive,
	BloodTypeABNegative,
	BloodTypeABPositive,
}

var bloodTypeAliases = map[string]BloodType{
	"O_NEGATIVE":  BloodTypeONegative,
	"O_POSITIVE":  BloodTypeOPositive,
	"A_NEGATIVE":  BloodTypeANegative,
	"A_POSITIVE":  BloodTypeAPositive,
	"B_NEGATIVE":  BloodTypeBNegative,
	"B_POSITIVE":  BloodTypeBPositive,
	"AB_NEGATIVE": BloodTypeABNegative,
	"AB_POSITIVE": BloodTypeABPositive,
}

// Valid reports whether b is one of the eight known types.
func (b BloodType) Valid() bool {
	for _, t := range AllBloodTypes {
		if t == b {
			return true
		}
	}
	return false
}

// ParseBloodType accepts the display form ("AB+") or the enum name ("AB_POSITIVE"),
// case-insensitively. A trailing space is read as "+" since query strings decode it that way.
func ParseBloodType(raw string) (BloodType, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if bt, ok := bloodTypeAliases[value]; ok {
		return bt, nil
	}
	if value != "" && strings.HasSuffix(raw, " ") && !strings.HasSuffix(value, "+") && !strings.HasSuffix(value, "-") {
		value += "+"
	}
	if bt := BloodType(value); bt.Valid() {
		return bt, nil
	}
	return "", fmt.Errorf("invalid blood type: %q", raw)
}
