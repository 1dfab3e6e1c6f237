package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/blood-donation-service/internal/auth"
	"github.com/spec-kit/blood-donation-service/internal/config"
	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/repository"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users      repository.UserRepository
	revoked    auth.RevocationList
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	RevocationList auth.RevocationList
}

// RegisterInput describes a self-registration.
type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	PhoneNumber  string
	BirthDate    *time.Time
	BloodType    domain.BloodType
	Role         domain.Role
	Address      string
	City         string
	PostalCode   string
	HospitalName string
	Latitude     *float64
	Longitude    *float64
}

// Session is an issued access token.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		revoked:    deps.RevocationList,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a USER or HOSPITAL account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, emailTaken(input.Email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        input.Email,
		PasswordHash: hash,
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		BirthDate:    input.BirthDate,
		BloodType:    input.BloodType,
		Role:         input.Role,
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		PostalCode:   strings.TrimSpace(input.PostalCode),
		HospitalName: strings.TrimSpace(input.HospitalName),
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, emailTaken(input.Email)
		}
		return nil, err
	}
	return s.issue(user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(user)
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoked == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, actor domain.Actor, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"new_password": "min 6 characters"})
	}
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return mapStoreError(err, "user", actor.ID)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func validateRegistration(in RegisterInput) error {
	details := map[string]any{}
	if strings.TrimSpace(in.FirstName) == "" {
		details["first_name"] = "required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		details["last_name"] = "required"
	}
	if in.Email == "" {
		details["email"] = "required"
	} else {
		domain.CheckEmail(details, "email", in.Email)
	}
	domain.CheckPerson(details, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName),
		strings.TrimSpace(in.PhoneNumber), strings.TrimSpace(in.Address), strings.TrimSpace(in.City), strings.TrimSpace(in.PostalCode))
	domain.CheckLength(details, "hospital_name", strings.TrimSpace(in.HospitalName), domain.MaxHospitalName)
	if len(in.Password) < MinPasswordLength {
		details["password"] = "min 6 characters"
	}
	if !in.BloodType.Valid() {
		details["blood_type"] = "unknown blood type"
	}
	switch in.Role {
	case domain.RoleUser:
	case domain.RoleHospital:
		if strings.TrimSpace(in.HospitalName) == "" {
			details["hospital_name"] = "required for hospitals"
		}
	default:
		details["role"] = "must be USER or HOSPITAL"
	}
	validateCoordinates(details, in.Latitude, in.Longitude)
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration", details)
	}
	return nil
}

func validateCoordinates(details map[string]any, lat, lon *float64) {
	if (lat == nil) != (lon == nil) {
		details["coordinates"] = "latitude and longitude go together"
		return
	}
	if lat != nil && (*lat < -90 || *lat > 90) {
		details["latitude"] = "must be within [-90, 90]"
	}
	if lon != nil && (*lon < -180 || *lon > 180) {
		details["longitude"] = "must be within [-180, 180]"
	}
}

func emailTaken(email string) error {
	return apperrors.NewConflict("email already registered", map[string]any{"email": email})
}
