package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/blood-donation-service/internal/auth"
	"github.com/spec-kit/blood-donation-service/internal/config"
	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/repository"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

type AuthServiceSuite struct {
	suite.Suite
	ctx     context.Context
	revoked *auth.MemoryRevocationList
	service *AuthService
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.revoked = auth.NewMemoryRevocationList()
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 10, BcryptCost: 4}}
	s.service = NewAuthService(cfg, AuthDependencies{
		UserRepo:       repository.NewMemoryStore().Users(),
		RevocationList: s.revoked,
	})
}

func (s *AuthServiceSuite) registration() RegisterInput {
	return RegisterInput{
		FirstName: "Fatou",
		LastName:  "Sow",
		Email:     "Fatou@Example.com",
		Password:  "secret1",
		BloodType: domain.BloodTypeOPositive,
	}
}

func (s *AuthServiceSuite) TestRegister() {
	s.Run("defaults to donor role and normalizes email", func() {
		session, err := s.service.Register(s.ctx, s.registration())
		s.Require().NoError(err)
		s.Equal(domain.RoleUser, session.User.Role)
		s.Equal("fatou@example.com", session.User.Email)
		s.NotEqual("secret1", session.User.PasswordHash)
		s.NotEmpty(session.Token)
	})

	s.Run("rejects malformed email and oversized phone", func() {
		input := s.registration()
		input.Email = "fatou at example.com"
		input.PhoneNumber = strings.Repeat("7", domain.MaxPhoneLength+1)
		_, err := s.service.Register(s.ctx, input)
		var domainErr *apperrors.DomainError
		s.Require().ErrorAs(err, &domainErr)
		s.Equal(apperrors.CodeValidation, domainErr.Code)
		s.Contains(domainErr.Details, "email")
		s.Contains(domainErr.Details, "phone_number")
	})

	s.Run("email taken", func() {
		_, err := s.service.Register(s.ctx, s.registration())
		s.True(apperrors.HasCode(err, apperrors.CodeConflict))
	})

	s.Run("admin cannot self register", func() {
		in := s.registration()
		in.Email = "admin@example.com"
		in.Role = domain.RoleAdmin
		_, err := s.service.Register(s.ctx, in)
		s.True(apperrors.HasCode(err, apperrors.CodeValidation))
	})

	s.Run("hospital needs a name", func() {
		in := s.registration()
		in.Email = "hospital@example.com"
		in.Role = domain.RoleHospital
		_, err := s.service.Register(s.ctx, in)
		s.True(apperrors.HasCode(err, apperrors.CodeValidation))

		in.HospitalName = "CHU Fann"
		session, err := s.service.Register(s.ctx, in)
		s.Require().NoError(err)
		s.Equal(domain.RoleHospital, session.User.Role)
	})

	s.Run("short password", func() {
		in := s.registration()
		in.Email = "short@example.com"
		in.Password = "12345"
		_, err := s.service.Register(s.ctx, in)
		s.True(apperrors.HasCode(err, apperrors.CodeValidation))
	})
}

func (s *AuthServiceSuite) TestLoginLogout() {
	_, err := s.service.Register(s.ctx, s.registration())
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "fatou@example.com", "wrong-password")
	s.True(apperrors.HasCode(err, apperrors.CodeUnauthorized))
	_, err = s.service.Login(s.ctx, "nobody@example.com", "secret1")
	s.True(apperrors.HasCode(err, apperrors.CodeUnauthorized))

	session, err := s.service.Login(s.ctx, " FATOU@example.com ", "secret1")
	s.Require().NoError(err)

	claims, err := s.service.TokenManager().ParseToken(session.Token)
	s.Require().NoError(err)
	s.Equal(session.User.ID, claims.Subject)

	s.Require().NoError(s.service.Logout(s.ctx, claims))
	revoked, err := s.revoked.IsRevoked(s.ctx, claims.ID)
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *AuthServiceSuite) TestChangePassword() {
	session, err := s.service.Register(s.ctx, s.registration())
	s.Require().NoError(err)
	actor := session.User.Actor()

	err = s.service.ChangePassword(s.ctx, actor, "wrong", "newsecret")
	s.True(apperrors.HasCode(err, apperrors.CodeUnauthorized))

	s.Require().NoError(s.service.ChangePassword(s.ctx, actor, "secret1", "newsecret"))
	_, err = s.service.Login(s.ctx, "fatou@example.com", "newsecret")
	s.NoError(err)
}
