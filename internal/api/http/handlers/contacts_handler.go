package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood-donation-service/internal/api/dto"
	"github.com/spec-kit/blood-donation-service/internal/service"
)

// ContactsHandler manages the caller's address book.
type ContactsHandler struct {
	service *service.ContactService
}

// NewContactsHandler constructs handler.
func NewContactsHandler(contactService *service.ContactService) *ContactsHandler {
	return &ContactsHandler{service: contactService}
}

// Create POST /contacts.
func (h *ContactsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	input, err := parseContact(c)
	if err != nil {
		return err
	}
	contact, err := h.service.Create(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": contactResponse(contact)})
}

// List GET /contacts?blood_type=.
func (h *ContactsHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	raw := c.Query("blood_type")
	bloodType, err := parseOptionalBloodType("blood_type", &raw)
	if err != nil {
		return err
	}
	contacts, err := h.service.List(c.UserContext(), actor, bloodType)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contactList(contacts)})
}

// ListSameBloodType GET /contacts/same-blood-type.
func (h *ContactsHandler) ListSameBloodType(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	contacts, err := h.service.ListSameBloodType(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contactList(contacts)})
}

// Get GET /contacts/:id.
func (h *ContactsHandler) Get(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	contact, err := h.service.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contactResponse(contact)})
}

// Update PUT /contacts/:id.
func (h *ContactsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	input, err := parseContact(c)
	if err != nil {
		return err
	}
	contact, err := h.service.Update(c.UserContext(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contactResponse(contact)})
}

// Delete DELETE /contacts/:id.
func (h *ContactsHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseContact(c *fiber.Ctx) (service.ContactInput, error) {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ContactInput{}, invalidPayload()
	}
	bloodType, err := parseBloodType("blood_type", req.BloodType)
	if err != nil {
		return service.ContactInput{}, err
	}
	birthDate, err := parseDate("birth_date", req.BirthDate)
	if err != nil {
		return service.ContactInput{}, err
	}
	return service.ContactInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		BirthDate:    birthDate,
		BloodType:    bloodType,
		Relationship: req.Relationship,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Notes:        req.Notes,
	}, nil
}
