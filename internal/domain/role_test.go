package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesFor(t *testing.T) {
	donor := CapabilitiesFor(RoleUser)
	assert.True(t, donor.Has(CapRespond))
	assert.True(t, donor.Has(CapSearchNearby))
	assert.False(t, donor.Has(CapManageRequests))
	assert.False(t, donor.Has(CapReviewResponses))

	hospital := CapabilitiesFor(RoleHospital)
	assert.True(t, hospital.Has(CapManageRequests))
	assert.True(t, hospital.Has(CapReviewResponses))
	assert.False(t, hospital.Has(CapRespond))

	admin := CapabilitiesFor(RoleAdmin)
	assert.True(t, admin.Has(CapListUsers))
	assert.True(t, admin.Has(CapManageUsers))
	assert.False(t, hospital.Has(CapManageUsers))
	assert.False(t, admin.Has(CapManageRequests))
	assert.False(t, admin.Has(CapRespond))

	for _, role := range []Role{RoleUser, RoleHospital, RoleAdmin} {
		assert.True(t, CapabilitiesFor(role).Has(CapManageContacts), role)
	}

	assert.Empty(t, CapabilitiesFor("GUEST"))
}

func TestCapabilitiesAreIndependentCopies(t *testing.T) {
	caps := CapabilitiesFor(RoleUser)
	caps[CapManageRequests] = struct{}{}
	assert.False(t, CapabilitiesFor(RoleUser).Has(CapManageRequests))
}
