package domain

// donorsFor lists the donor types that may supply each requested type.
// AB+ is absent on purpose: it is handled explicitly in IsCompatible.
var donorsFor = map[BloodType][]BloodType{
	BloodTypeONegative:  {BloodTypeONegative},
	BloodTypeOPositive:  {BloodTypeONegative, BloodTypeOPositive},
	BloodTypeANegative:  {BloodTypeONegative, BloodTypeANegative},
	BloodTypeAPositive:  {BloodTypeONegative, BloodTypeOPositive, BloodTypeANegative, BloodTypeAPositive},
	BloodTypeBNegative:  {BloodTypeONegative, BloodTypeBNegative},
	BloodTypeBPositive:  {BloodTypeONegative, BloodTypeOPositive, BloodTypeBNegative, BloodTypeBPositive},
	BloodTypeABNegative: {BloodTypeONegative, BloodTypeANegative, BloodTypeBNegative, BloodTypeABNegative},
}

// IsCompatible reports whether blood of the donor type may satisfy a request for the
// requested type.
func IsCompatible(donor, requested BloodType) bool {
	if !donor.Valid() || !requested.Valid() {
		return false
	}
	// universal recipient
	if requested == BloodTypeABPositive {
		return true
	}
	for _, candidate := range donorsFor[requested] {
		if candidate == donor {
			return true
		}
	}
	return false
}

// RecipientTypesFor returns every requested type the donor can supply, in AllBloodTypes order.
func RecipientTypesFor(donor BloodType) []BloodType {
	result := make([]BloodType, 0, len(AllBloodTypes))
	for _, requested := range AllBloodTypes {
		if IsCompatible(donor, requested) {
			result = append(result, requested)
		}
	}
	return result
}
