package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood-donation-service/internal/api/dto"
	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/service"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

// UsersHandler exposes profile and donor directory endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateMe PUT /users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	bloodType, err := parseOptionalBloodType("blood_type", req.BloodType)
	if err != nil {
		return err
	}
	birthDate, err := parseDate("birth_date", req.BirthDate)
	if err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.UserContext(), actor, service.ProfileUpdateInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		BirthDate:    birthDate,
		BloodType:    bloodType,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		HospitalName: req.HospitalName,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// GetByEmail GET /users/email/:email.
func (h *UsersHandler) GetByEmail(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return apperrors.NewValidationError("invalid email", map[string]any{"email": "invalid encoding"})
	}
	user, err := h.users.GetByEmail(c.UserContext(), actor, email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Delete DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SearchDonors GET /users/donors?blood_type=&city=.
func (h *UsersHandler) SearchDonors(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	search := service.DonorSearch{}
	search.Limit, search.Offset = pagination(c)
	if raw := c.Query("blood_type"); raw != "" {
		search.BloodType, err = parseOptionalBloodType("blood_type", &raw)
		if err != nil {
			return err
		}
	}
	if city := strings.TrimSpace(c.Query("city")); city != "" {
		search.City = &city
	}

	users, err := h.users.SearchDonors(c.UserContext(), actor, search)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userList(users)})
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var role *domain.Role
	if raw := strings.ToUpper(c.Query("role")); raw != "" {
		r := domain.Role(raw)
		role = &r
	}
	limit, offset := pagination(c)
	users, err := h.users.List(c.UserContext(), actor, role, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userList(users)})
}
