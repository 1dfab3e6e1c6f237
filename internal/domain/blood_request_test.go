package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

func validRequest(now time.Time) *BloodRequest {
	return &BloodRequest{
		ID:             "req-1",
		HospitalID:     "hosp-1",
		BloodType:      BloodTypeAPositive,
		QuantityML:     450,
		Urgency:        UrgencyUrgent,
		Latitude:       48.85,
		Longitude:      2.35,
		SearchRadiusKm: 25,
		Deadline:       now.Add(24 * time.Hour),
		Status:         RequestStatusActive,
	}
}

func TestValidateRequest(t *testing.T) {
	now := time.Now()

	t.Run("accepts a well formed request", func(t *testing.T) {
		require.NoError(t, ValidateRequest(validRequest(now), now))
	})

	t.Run("rejects a past deadline", func(t *testing.T) {
		r := validRequest(now)
		r.Deadline = now.Add(-time.Minute)
		err := ValidateRequest(r, now)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	})

	t.Run("rejects a deadline equal to now", func(t *testing.T) {
		r := validRequest(now)
		r.Deadline = now
		assert.True(t, apperrors.HasCode(ValidateRequest(r, now), apperrors.CodeValidation))
	})

	t.Run("rejects radius outside bounds", func(t *testing.T) {
		for _, radius := range []int{0, 501, -3} {
			r := validRequest(now)
			r.SearchRadiusKm = radius
			assert.True(t, apperrors.HasCode(ValidateRequest(r, now), apperrors.CodeValidation), radius)
		}
		for _, radius := range []int{1, 500} {
			r := validRequest(now)
			r.SearchRadiusKm = radius
			assert.NoError(t, ValidateRequest(r, now), radius)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		r := validRequest(now)
		r.QuantityML = 0
		err := ValidateRequest(r, now)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Contains(t, domainErr.Details, "quantity_ml")
	})

	t.Run("rejects contact fields wider than their columns", func(t *testing.T) {
		r := validRequest(now)
		r.ContactPhone = strings.Repeat("9", MaxPhoneLength+1)
		r.ContactEmail = "not-an-email"
		err := ValidateRequest(r, now)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Contains(t, domainErr.Details, "contact_phone")
		assert.Contains(t, domainErr.Details, "contact_email")

		r = validRequest(now)
		r.ContactPhone = strings.Repeat("9", MaxPhoneLength)
		r.ContactEmail = "blood.bank@chu-fann.sn"
		assert.NoError(t, ValidateRequest(r, now))
	})
}

func TestRequestTransitions(t *testing.T) {
	assert.True(t, CanTransitionRequest(RequestStatusActive, RequestStatusCancelled))
	assert.True(t, CanTransitionRequest(RequestStatusActive, RequestStatusCompleted))
	assert.True(t, CanTransitionRequest(RequestStatusActive, RequestStatusExpired))
	for _, terminal := range []RequestStatus{RequestStatusCompleted, RequestStatusCancelled, RequestStatusExpired} {
		for _, to := range []RequestStatus{RequestStatusActive, RequestStatusCompleted, RequestStatusCancelled, RequestStatusExpired} {
			assert.False(t, CanTransitionRequest(terminal, to), "%s -> %s", terminal, to)
		}
	}
}

func TestCheckTransitionAuthorizesBeforeState(t *testing.T) {
	now := time.Now()
	owner := Actor{ID: "hosp-1", Role: RoleHospital}
	stranger := Actor{ID: "hosp-2", Role: RoleHospital}
	donor := Actor{ID: "hosp-1", Role: RoleUser}

	for _, status := range []RequestStatus{RequestStatusActive, RequestStatusCancelled, RequestStatusExpired} {
		r := validRequest(now)
		r.Status = status
		assert.True(t, apperrors.HasCode(r.CheckTransition(stranger, RequestStatusCancelled), apperrors.CodeForbidden), status)
		assert.True(t, apperrors.HasCode(r.CheckTransition(donor, RequestStatusCancelled), apperrors.CodeForbidden), status)
	}

	r := validRequest(now)
	require.NoError(t, r.CheckTransition(owner, RequestStatusCancelled))
	r.Status = RequestStatusCompleted
	assert.True(t, apperrors.HasCode(r.CheckTransition(owner, RequestStatusCancelled), apperrors.CodeInvalidState))
	assert.True(t, apperrors.HasCode(r.CheckEditable(owner), apperrors.CodeInvalidState))
	assert.True(t, apperrors.HasCode(r.CheckEditable(stranger), apperrors.CodeForbidden))
}

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	r := validRequest(now)
	assert.False(t, r.IsOverdue(now))
	r.Deadline = now.Add(-time.Second)
	assert.True(t, r.IsOverdue(now))
	r.Status = RequestStatusCancelled
	assert.False(t, r.IsOverdue(now))
}

func TestUrgencyRank(t *testing.T) {
	assert.Greater(t, UrgencyCritical.Rank(), UrgencyUrgent.Rank())
	assert.Greater(t, UrgencyUrgent.Rank(), UrgencyNormal.Rank())
	assert.False(t, UrgencyLevel("LOW").Valid())
}
