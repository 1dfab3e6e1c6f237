package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCompatibleMatchesTransfusionTable(t *testing.T) {
	eligible := map[BloodType][]BloodType{
		BloodTypeONegative:  {BloodTypeONegative},
		BloodTypeOPositive:  {BloodTypeONegative, BloodTypeOPositive},
		BloodTypeANegative:  {BloodTypeONegative, BloodTypeANegative},
		BloodTypeAPositive:  {BloodTypeONegative, BloodTypeOPositive, BloodTypeANegative, BloodTypeAPositive},
		BloodTypeBNegative:  {BloodTypeONegative, BloodTypeBNegative},
		BloodTypeBPositive:  {BloodTypeONegative, BloodTypeOPositive, BloodTypeBNegative, BloodTypeBPositive},
		BloodTypeABNegative: {BloodTypeONegative, BloodTypeANegative, BloodTypeBNegative, BloodTypeABNegative},
		BloodTypeABPositive: AllBloodTypes,
	}

	for _, requested := range AllBloodTypes {
		for _, donor := range AllBloodTypes {
			want := false
			for _, e := range eligible[requested] {
				if e == donor {
					want = true
				}
			}
			assert.Equalf(t, want, IsCompatible(donor, requested), "donor %s requested %s", donor, requested)
		}
	}
}

func TestIsCompatibleExamples(t *testing.T) {
	assert.True(t, IsCompatible(BloodTypeONegative, BloodTypeABPositive))
	assert.False(t, IsCompatible(BloodTypeAPositive, BloodTypeONegative))
	assert.True(t, IsCompatible(BloodTypeABPositive, BloodTypeABPositive))
	assert.False(t, IsCompatible(BloodTypeBPositive, BloodTypeAPositive))
}

func TestIsCompatibleRejectsUnknownTypes(t *testing.T) {
	assert.False(t, IsCompatible("C+", BloodTypeABPositive))
	assert.False(t, IsCompatible(BloodTypeONegative, ""))
}

func TestRecipientTypesFor(t *testing.T) {
	assert.Equal(t, AllBloodTypes, RecipientTypesFor(BloodTypeONegative))
	assert.Equal(t, []BloodType{BloodTypeABPositive}, RecipientTypesFor(BloodTypeABPositive))
	assert.Equal(t,
		[]BloodType{BloodTypeAPositive, BloodTypeABPositive},
		RecipientTypesFor(BloodTypeAPositive))
}

func TestParseBloodType(t *testing.T) {
	cases := map[string]BloodType{
		"O-":          BloodTypeONegative,
		"ab+":         BloodTypeABPositive,
		"AB_NEGATIVE": BloodTypeABNegative,
		" b- ":        BloodTypeBNegative,
		"A ":          BloodTypeAPositive,
	}
	for raw, want := range cases {
		got, err := ParseBloodType(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseBloodType("Z+")
	assert.Error(t, err)
	_, err = ParseBloodType("")
	assert.Error(t, err)
}
