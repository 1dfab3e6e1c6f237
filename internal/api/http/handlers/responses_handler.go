package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood-donation-service/internal/api/dto"
	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/service"
)

// ResponsesHandler manages donor response endpoints.
type ResponsesHandler struct {
	service *service.ResponseService
}

// NewResponsesHandler constructs handler.
func NewResponsesHandler(responseService *service.ResponseService) *ResponsesHandler {
	return &ResponsesHandler{service: responseService}
}

// Respond POST /blood-requests/:id/responses.
func (h *ResponsesHandler) Respond(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.RespondRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidPayload()
		}
	}
	response, err := h.service.Respond(c.UserContext(), actor, c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return h.renderOne(c.Status(http.StatusCreated), response)
}

// ListForRequest GET /blood-requests/:id/responses.
func (h *ResponsesHandler) ListForRequest(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	responses, err := h.service.ListForRequest(c.UserContext(), actor, c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	return h.renderList(c, responses)
}

// ListMine GET /responses/mine.
func (h *ResponsesHandler) ListMine(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	responses, err := h.service.ListMine(c.UserContext(), actor, limit, offset)
	if err != nil {
		return err
	}
	return h.renderList(c, responses)
}

// ListForHospital GET /responses/hospital?status=.
func (h *ResponsesHandler) ListForHospital(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var statuses []domain.ResponseStatus
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			statuses = append(statuses, domain.ResponseStatus(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	limit, offset := pagination(c)
	responses, err := h.service.ListForHospital(c.UserContext(), actor, statuses, limit, offset)
	if err != nil {
		return err
	}
	return h.renderList(c, responses)
}

// Cancel DELETE /responses/:id.
func (h *ResponsesHandler) Cancel(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	if err := h.service.CancelByDonor(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Accept POST /responses/:id/accept.
func (h *ResponsesHandler) Accept(c *fiber.Ctx) error {
	return h.review(c, h.service.Accept)
}

// Decline POST /responses/:id/decline.
func (h *ResponsesHandler) Decline(c *fiber.Ctx) error {
	return h.review(c, h.service.Decline)
}

// Complete POST /responses/:id/complete.
func (h *ResponsesHandler) Complete(c *fiber.Ctx) error {
	return h.review(c, h.service.Complete)
}

type reviewFunc func(ctx context.Context, actor domain.Actor, id string) (*domain.BloodRequestResponse, error)

func (h *ResponsesHandler) review(c *fiber.Ctx, apply reviewFunc) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	response, err := apply(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return h.renderOne(c, response)
}

func (h *ResponsesHandler) renderOne(c *fiber.Ctx, response *domain.BloodRequestResponse) error {
	details, err := h.service.Describe(c.UserContext(), *response)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": donorResponse(details[0])})
}

func (h *ResponsesHandler) renderList(c *fiber.Ctx, responses []domain.BloodRequestResponse) error {
	details, err := h.service.Describe(c.UserContext(), responses...)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": donorResponseList(details)})
}
