package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/blood-donation-service/internal/domain"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

type ContactServiceSuite struct {
	serviceSuite
	owner domain.Actor
}

func TestContactServiceSuite(t *testing.T) {
	suite.Run(t, new(ContactServiceSuite))
}

func (s *ContactServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.owner = s.newUser(domain.RoleUser, domain.BloodTypeAPositive)
}

func (s *ContactServiceSuite) add(first string, bt domain.BloodType) *domain.Contact {
	contact, err := s.contacts.Create(s.ctx, s.owner, ContactInput{FirstName: first, LastName: "Diop", BloodType: bt, Relationship: "cousin"})
	s.Require().NoError(err)
	return contact
}

func (s *ContactServiceSuite) TestCRUD() {
	contact := s.add("Moussa", domain.BloodTypeOPositive)
	s.Equal(s.owner.ID, contact.OwnerID)

	s.Run("update replaces fields", func() {
		updated, err := s.contacts.Update(s.ctx, s.owner, contact.ID, ContactInput{
			FirstName: "Moussa", LastName: "Diop", BloodType: domain.BloodTypeONegative, Notes: "weekends only",
		})
		s.Require().NoError(err)
		s.Equal(domain.BloodTypeONegative, updated.BloodType)
		s.Equal("weekends only", updated.Notes)
	})

	s.Run("validation", func() {
		_, err := s.contacts.Create(s.ctx, s.owner, ContactInput{FirstName: "X", LastName: "Y", BloodType: "Z"})
		s.True(apperrors.HasCode(err, apperrors.CodeValidation))
	})

	s.Run("rejects malformed email and oversized fields", func() {
		_, err := s.contacts.Create(s.ctx, s.owner, ContactInput{
			FirstName:    "Aminata",
			LastName:     "Ba",
			BloodType:    domain.BloodTypeAPositive,
			Email:        "aminata.at.example.com",
			Relationship: strings.Repeat("r", domain.MaxRelationshipLength+1),
			PostalCode:   strings.Repeat("1", domain.MaxPostalCodeLength+1),
		})
		var domainErr *apperrors.DomainError
		s.Require().ErrorAs(err, &domainErr)
		s.Contains(domainErr.Details, "email")
		s.Contains(domainErr.Details, "relationship")
		s.Contains(domainErr.Details, "postal_code")
	})

	s.Run("other users cannot see it", func() {
		stranger := s.newUser(domain.RoleUser, domain.BloodTypeAPositive)
		_, err := s.contacts.Get(s.ctx, stranger, contact.ID)
		s.True(apperrors.HasCode(err, apperrors.CodeNotFound))
		err = s.contacts.Delete(s.ctx, stranger, contact.ID)
		s.True(apperrors.HasCode(err, apperrors.CodeNotFound))
	})

	s.Run("delete", func() {
		s.Require().NoError(s.contacts.Delete(s.ctx, s.owner, contact.ID))
		_, err := s.contacts.Get(s.ctx, s.owner, contact.ID)
		s.True(apperrors.HasCode(err, apperrors.CodeNotFound))
	})
}

func (s *ContactServiceSuite) TestListing() {
	s.add("Aminata", domain.BloodTypeAPositive)
	s.add("Babacar", domain.BloodTypeAPositive)
	s.add("Cheikh", domain.BloodTypeBNegative)

	all, err := s.contacts.List(s.ctx, s.owner, nil)
	s.Require().NoError(err)
	s.Len(all, 3)

	bt := domain.BloodTypeBNegative
	byType, err := s.contacts.List(s.ctx, s.owner, &bt)
	s.Require().NoError(err)
	s.Require().Len(byType, 1)
	s.Equal("Cheikh", byType[0].FirstName)

	same, err := s.contacts.ListSameBloodType(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Len(same, 2)
}
