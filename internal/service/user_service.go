package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/repository"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

// UserService exposes profile and donor search operations.
type UserService struct {
	users repository.UserRepository
}

// ProfileUpdateInput carries optional profile edits. Email and role are immutable.
type ProfileUpdateInput struct {
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	BirthDate    *time.Time
	BloodType    *domain.BloodType
	Address      *string
	City         *string
	PostalCode   *string
	HospitalName *string
	Latitude     *float64
	Longitude    *float64
}

// DonorSearch narrows the donor directory.
type DonorSearch struct {
	BloodType *domain.BloodType
	City      *string
	Limit     int
	Offset    int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Get returns a user profile by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "user", id)
	}
	return user, nil
}

// UpdateProfile edits the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	details := map[string]any{}
	if input.FirstName != nil {
		if strings.TrimSpace(*input.FirstName) == "" {
			details["first_name"] = "required"
		}
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		if strings.TrimSpace(*input.LastName) == "" {
			details["last_name"] = "required"
		}
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.BloodType != nil {
		if !input.BloodType.Valid() {
			details["blood_type"] = "unknown blood type"
		}
		user.BloodType = *input.BloodType
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.BirthDate != nil {
		user.BirthDate = input.BirthDate
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		user.City = strings.TrimSpace(*input.City)
	}
	if input.PostalCode != nil {
		user.PostalCode = strings.TrimSpace(*input.PostalCode)
	}
	if input.HospitalName != nil {
		user.HospitalName = strings.TrimSpace(*input.HospitalName)
		if user.Role == domain.RoleHospital && user.HospitalName == "" {
			details["hospital_name"] = "required for hospitals"
		}
	}
	if input.Latitude != nil || input.Longitude != nil {
		validateCoordinates(details, input.Latitude, input.Longitude)
		user.Latitude, user.Longitude = input.Latitude, input.Longitude
	}
	domain.CheckPerson(details, user.FirstName, user.LastName, user.PhoneNumber, user.Address, user.City, user.PostalCode)
	domain.CheckLength(details, "hospital_name", user.HospitalName, domain.MaxHospitalName)
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid profile", details)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapStoreError(err, "user", actor.ID)
	}
	return user, nil
}

// SearchDonors lists donor accounts by blood type and city.
func (s *UserService) SearchDonors(ctx context.Context, actor domain.Actor, search DonorSearch) ([]domain.User, error) {
	if !actor.Can(domain.CapSearchDonors) {
		return nil, apperrors.NewForbidden("donor search requires hospital or admin role")
	}
	filter := repository.UserFilter{
		Roles:  []domain.Role{domain.RoleUser},
		City:   search.City,
		Limit:  search.Limit,
		Offset: search.Offset,
	}
	if search.BloodType != nil {
		if !search.BloodType.Valid() {
			return nil, apperrors.NewValidationError("invalid blood type", map[string]any{"blood_type": *search.BloodType})
		}
		filter.BloodTypes = []domain.BloodType{*search.BloodType}
	}
	return s.users.ListWithFilter(ctx, filter)
}

// GetByEmail looks an account up by email, case-insensitively. Admin only.
func (s *UserService) GetByEmail(ctx context.Context, actor domain.Actor, email string) (*domain.User, error) {
	if !actor.Can(domain.CapListUsers) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, mapStoreError(err, "user", email)
	}
	return user, nil
}

// Delete removes an account with its contacts and responses. Users may delete
// themselves; admins may delete anyone. Hospitals still owning blood requests are kept.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if actor.ID != id && !actor.Can(domain.CapManageUsers) {
		return apperrors.NewForbidden("cannot delete another account")
	}
	err := s.users.Delete(ctx, id)
	if errors.Is(err, repository.ErrReferenced) {
		return apperrors.NewConflict("hospital still owns blood requests", map[string]any{"id": id})
	}
	return mapStoreError(err, "user", id)
}

// List returns every account. Admin only.
func (s *UserService) List(ctx context.Context, actor domain.Actor, role *domain.Role, limit, offset int) ([]domain.User, error) {
	if !actor.Can(domain.CapListUsers) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	filter := repository.UserFilter{Limit: limit, Offset: offset}
	if role != nil {
		filter.Roles = []domain.Role{*role}
	}
	return s.users.ListWithFilter(ctx, filter)
}
