package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood-donation-service/internal/api/dto"
	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/service"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

// BloodRequestsHandler manages blood request endpoints.
type BloodRequestsHandler struct {
	service *service.BloodRequestService
}

// NewBloodRequestsHandler constructs handler.
func NewBloodRequestsHandler(requestService *service.BloodRequestService) *BloodRequestsHandler {
	return &BloodRequestsHandler{service: requestService}
}

// Create POST /blood-requests.
func (h *BloodRequestsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateBloodRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	bloodType, err := parseBloodType("blood_type", req.BloodType)
	if err != nil {
		return err
	}

	request, err := h.service.Create(c.UserContext(), actor, service.BloodRequestInput{
		BloodType:       bloodType,
		QuantityML:      req.QuantityML,
		Urgency:         domain.UrgencyLevel(strings.ToUpper(string(req.Urgency))),
		Description:     req.Description,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		SearchRadiusKm:  req.SearchRadiusKm,
		HospitalName:    req.HospitalName,
		HospitalAddress: req.HospitalAddress,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
		Deadline:        req.Deadline,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}
	return h.renderOne(c.Status(http.StatusCreated), request)
}

// Get GET /blood-requests/:id.
func (h *BloodRequestsHandler) Get(c *fiber.Ctx) error {
	request, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.renderOne(c, request)
}

// Update PUT /blood-requests/:id.
func (h *BloodRequestsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateBloodRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	bloodType, err := parseOptionalBloodType("blood_type", req.BloodType)
	if err != nil {
		return err
	}
	if req.Urgency != nil {
		upper := domain.UrgencyLevel(strings.ToUpper(string(*req.Urgency)))
		req.Urgency = &upper
	}

	request, err := h.service.Update(c.UserContext(), actor, c.Params("id"), service.BloodRequestUpdateInput{
		BloodType:       bloodType,
		QuantityML:      req.QuantityML,
		Urgency:         req.Urgency,
		Description:     req.Description,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		SearchRadiusKm:  req.SearchRadiusKm,
		HospitalName:    req.HospitalName,
		HospitalAddress: req.HospitalAddress,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
		Deadline:        req.Deadline,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}
	return h.renderOne(c, request)
}

// Cancel POST /blood-requests/:id/cancel.
func (h *BloodRequestsHandler) Cancel(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	request, err := h.service.Cancel(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return h.renderOne(c, request)
}

// Complete POST /blood-requests/:id/complete.
func (h *BloodRequestsHandler) Complete(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	request, err := h.service.Complete(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return h.renderOne(c, request)
}

// ListMine GET /blood-requests/mine?active=.
func (h *BloodRequestsHandler) ListMine(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	requests, err := h.service.ListMine(c.UserContext(), actor, parseBoolQuery(c, "active", false), limit, offset)
	if err != nil {
		return err
	}
	return h.renderList(c, requests)
}

// ListActive GET /blood-requests/active.
func (h *BloodRequestsHandler) ListActive(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	requests, err := h.service.ListActive(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return h.renderList(c, requests)
}

// ListByBloodType GET /blood-requests/blood-type/:type.
func (h *BloodRequestsHandler) ListByBloodType(c *fiber.Ctx) error {
	bloodType, err := parseBloodType("type", c.Params("type"))
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	requests, err := h.service.ListByBloodType(c.UserContext(), bloodType, limit, offset)
	if err != nil {
		return err
	}
	return h.renderList(c, requests)
}

// ListByUrgency GET /blood-requests/urgency/:level.
func (h *BloodRequestsHandler) ListByUrgency(c *fiber.Ctx) error {
	level := domain.UrgencyLevel(strings.ToUpper(c.Params("level")))
	limit, offset := pagination(c)
	requests, err := h.service.ListByUrgency(c.UserContext(), level, limit, offset)
	if err != nil {
		return err
	}
	return h.renderList(c, requests)
}

// Nearby GET /blood-requests/nearby?lat=&lon=&blood_type=.
func (h *BloodRequestsHandler) Nearby(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	lat, err := parseFloatQuery(c, "lat")
	if err != nil {
		return err
	}
	lon, err := parseFloatQuery(c, "lon")
	if err != nil {
		return err
	}
	if (lat == nil) != (lon == nil) {
		return apperrors.NewValidationError("lat and lon go together", nil)
	}
	input := service.NearbyInput{Latitude: lat, Longitude: lon, Limit: parseIntQuery(c, "limit", 50)}
	if raw := c.Query("blood_type"); raw != "" {
		input.BloodType, err = parseOptionalBloodType("blood_type", &raw)
		if err != nil {
			return err
		}
	}

	requests, err := h.service.Nearby(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return h.renderList(c, requests)
}

func (h *BloodRequestsHandler) renderOne(c *fiber.Ctx, request *domain.BloodRequest) error {
	counts, err := h.service.ResponseCounts(c.UserContext(), *request)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bloodRequestResponse(request, counts[request.ID])})
}

func (h *BloodRequestsHandler) renderList(c *fiber.Ctx, requests []domain.BloodRequest) error {
	counts, err := h.service.ResponseCounts(c.UserContext(), requests...)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bloodRequestList(requests, counts)})
}
