package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/blood-donation-service/internal/domain"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

type UserServiceSuite struct {
	serviceSuite
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) TestUpdateProfile() {
	donor := s.newUser(domain.RoleUser, domain.BloodTypeOPositive)

	s.Run("updates editable fields", func() {
		city := "Saint-Louis"
		bt := domain.BloodTypeBPositive
		lat, lon := 16.0179, -16.4896
		user, err := s.users.UpdateProfile(s.ctx, donor, ProfileUpdateInput{City: &city, BloodType: &bt, Latitude: &lat, Longitude: &lon})
		s.Require().NoError(err)
		s.Equal("Saint-Louis", user.City)
		s.Equal(domain.BloodTypeBPositive, user.BloodType)

		stored, err := s.users.Get(s.ctx, donor.ID)
		s.Require().NoError(err)
		s.Equal(domain.RoleUser, stored.Role)
		s.Require().NotNil(stored.Latitude)
		s.InDelta(16.0179, *stored.Latitude, 1e-9)
	})

	s.Run("rejects a blank name", func() {
		blank := "  "
		_, err := s.users.UpdateProfile(s.ctx, donor, ProfileUpdateInput{FirstName: &blank})
		s.True(apperrors.HasCode(err, apperrors.CodeValidation))
	})

	s.Run("rejects fields wider than their columns", func() {
		city := strings.Repeat("x", domain.MaxCityLength+1)
		phone := strings.Repeat("7", domain.MaxPhoneLength+1)
		_, err := s.users.UpdateProfile(s.ctx, donor, ProfileUpdateInput{City: &city, PhoneNumber: &phone})
		var domainErr *apperrors.DomainError
		s.Require().ErrorAs(err, &domainErr)
		s.Contains(domainErr.Details, "city")
		s.Contains(domainErr.Details, "phone_number")
	})

	s.Run("rejects a half position", func() {
		lat := 10.0
		_, err := s.users.UpdateProfile(s.ctx, donor, ProfileUpdateInput{Latitude: &lat})
		s.True(apperrors.HasCode(err, apperrors.CodeValidation))
	})

	s.Run("unknown user", func() {
		_, err := s.users.Get(s.ctx, "missing")
		s.True(apperrors.HasCode(err, apperrors.CodeNotFound))
	})
}

func (s *UserServiceSuite) TestSearchDonors() {
	hospital := s.newUser(domain.RoleHospital, domain.BloodTypeAPositive)
	admin := s.newUser(domain.RoleAdmin, domain.BloodTypeAPositive)
	dakar := s.newUser(domain.RoleUser, domain.BloodTypeONegative)
	thies := s.newUser(domain.RoleUser, domain.BloodTypeONegative)
	s.newUser(domain.RoleUser, domain.BloodTypeAPositive)

	city := "Dakar"
	_, err := s.users.UpdateProfile(s.ctx, dakar, ProfileUpdateInput{City: &city})
	s.Require().NoError(err)
	other := "Thiès"
	_, err = s.users.UpdateProfile(s.ctx, thies, ProfileUpdateInput{City: &other})
	s.Require().NoError(err)

	bt := domain.BloodTypeONegative
	donors, err := s.users.SearchDonors(s.ctx, hospital, DonorSearch{BloodType: &bt})
	s.Require().NoError(err)
	s.Len(donors, 2)

	lower := "dakar"
	donors, err = s.users.SearchDonors(s.ctx, admin, DonorSearch{BloodType: &bt, City: &lower})
	s.Require().NoError(err)
	s.Require().Len(donors, 1)
	s.Equal(dakar.ID, donors[0].ID)

	all, err := s.users.SearchDonors(s.ctx, hospital, DonorSearch{})
	s.Require().NoError(err)
	s.Len(all, 3)

	_, err = s.users.SearchDonors(s.ctx, dakar, DonorSearch{})
	s.True(apperrors.HasCode(err, apperrors.CodeForbidden))
}

func (s *UserServiceSuite) TestListIsAdminOnly() {
	admin := s.newUser(domain.RoleAdmin, domain.BloodTypeAPositive)
	hospital := s.newUser(domain.RoleHospital, domain.BloodTypeAPositive)

	users, err := s.users.List(s.ctx, admin, nil, 0, 0)
	s.Require().NoError(err)
	s.Len(users, 2)

	role := domain.RoleHospital
	users, err = s.users.List(s.ctx, admin, &role, 0, 0)
	s.Require().NoError(err)
	s.Len(users, 1)

	_, err = s.users.List(s.ctx, hospital, nil, 0, 0)
	s.True(apperrors.HasCode(err, apperrors.CodeForbidden))
}

func (s *UserServiceSuite) TestGetByEmail() {
	admin := s.newUser(domain.RoleAdmin, domain.BloodTypeAPositive)
	donor := s.newUser(domain.RoleUser, domain.BloodTypeOPositive)
	stored, err := s.users.Get(s.ctx, donor.ID)
	s.Require().NoError(err)

	found, err := s.users.GetByEmail(s.ctx, admin, strings.ToUpper(stored.Email))
	s.Require().NoError(err)
	s.Equal(donor.ID, found.ID)

	_, err = s.users.GetByEmail(s.ctx, admin, "nobody@example.com")
	s.True(apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = s.users.GetByEmail(s.ctx, donor, stored.Email)
	s.True(apperrors.HasCode(err, apperrors.CodeForbidden))
}

func (s *UserServiceSuite) TestDelete() {
	admin := s.newUser(domain.RoleAdmin, domain.BloodTypeAPositive)
	hospital := s.newUser(domain.RoleHospital, domain.BloodTypeAPositive)
	donor := s.newUser(domain.RoleUser, domain.BloodTypeONegative)
	other := s.newUser(domain.RoleUser, domain.BloodTypeONegative)

	s.Run("another donor cannot delete", func() {
		err := s.users.Delete(s.ctx, other, donor.ID)
		s.True(apperrors.HasCode(err, apperrors.CodeForbidden))
	})

	s.Run("hospital with requests is refused", func() {
		s.createRequest(hospital, domain.BloodTypeAPositive)
		err := s.users.Delete(s.ctx, hospital, hospital.ID)
		s.True(apperrors.HasCode(err, apperrors.CodeConflict))
	})

	s.Run("donor deletes themself", func() {
		s.Require().NoError(s.users.Delete(s.ctx, donor, donor.ID))
		_, err := s.users.Get(s.ctx, donor.ID)
		s.True(apperrors.HasCode(err, apperrors.CodeNotFound))
	})

	s.Run("admin deletes anyone", func() {
		s.Require().NoError(s.users.Delete(s.ctx, admin, other.ID))
		err := s.users.Delete(s.ctx, admin, other.ID)
		s.True(apperrors.HasCode(err, apperrors.CodeNotFound))
	})
}
