package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/events"
	"github.com/spec-kit/blood-donation-service/internal/observability"
	"github.com/spec-kit/blood-donation-service/internal/repository"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

const resourceResponse = "response"

// ResponseService coordinates donor responses to blood requests.
type ResponseService struct {
	responses  repository.ResponseRepository
	requests   repository.BloodRequestRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// ResponseDependencies bundles collaborators for the response service.
type ResponseDependencies struct {
	ResponseRepo repository.ResponseRepository
	RequestRepo  repository.BloodRequestRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Clock        func() time.Time
}

// ResponseDetails is a response together with the request it answers and the donor who
// sent it. Either may be nil when the row disappeared between reads.
type ResponseDetails struct {
	Response domain.BloodRequestResponse
	Request  *domain.BloodRequest
	Donor    *domain.User
}

// NewResponseService constructs the service.
func NewResponseService(deps ResponseDependencies) *ResponseService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseService{
		responses:  deps.ResponseRepo,
		requests:   deps.RequestRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        clock,
	}
}

// Respond records a donor's PENDING offer for an ACTIVE request.
func (s *ResponseService) Respond(ctx context.Context, actor domain.Actor, requestID, message string) (*domain.BloodRequestResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, mapStoreError(err, resourceBloodRequest, requestID)
	}
	message = strings.TrimSpace(message)
	if err := domain.CheckRespond(actor, request, message); err != nil {
		return nil, err
	}

	if _, err := s.responses.GetByRequestAndDonor(ctx, requestID, actor.ID); err == nil {
		return nil, duplicateResponse(requestID)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	donor, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, mapStoreError(err, "user", actor.ID)
	}
	if err := domain.CheckCompatibility(donor.BloodType, request); err != nil {
		return nil, err
	}

	response := &domain.BloodRequestResponse{
		RequestID: requestID,
		DonorID:   actor.ID,
		Status:    domain.ResponseStatusPending,
		Message:   message,
	}
	if err := s.responses.Create(ctx, response); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateResponse(requestID)
		}
		return nil, err
	}

	s.metrics.RecordTransition("response", string(response.Status))
	s.publishEvent(ctx, events.Event{
		Type:      events.EventResponseCreated,
		RequestID: requestID,
		Actor:     eventActor(actor),
		Payload:   events.ResponseCreatedPayload{ResponseID: response.ID, DonorID: actor.ID},
	})
	return response, nil
}

// CancelByDonor withdraws the caller's own PENDING response by deleting it.
func (s *ResponseService) CancelByDonor(ctx context.Context, actor domain.Actor, id string) error {
	response, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := response.CheckDonorCancel(actor); err != nil {
		return err
	}
	if err := s.responses.DeleteIfStatus(ctx, id, domain.ResponseStatusPending); err != nil {
		return mapStoreError(err, resourceResponse, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventResponseWithdrawn,
		RequestID: response.RequestID,
		Actor:     eventActor(actor),
		Payload:   events.ResponseCreatedPayload{ResponseID: id, DonorID: actor.ID},
	})
	return nil
}

// Accept approves a PENDING response on one of the caller's requests.
func (s *ResponseService) Accept(ctx context.Context, actor domain.Actor, id string) (*domain.BloodRequestResponse, error) {
	return s.review(ctx, actor, id, domain.ResponseStatusAccepted)
}

// Decline rejects a PENDING response on one of the caller's requests.
func (s *ResponseService) Decline(ctx context.Context, actor domain.Actor, id string) (*domain.BloodRequestResponse, error) {
	return s.review(ctx, actor, id, domain.ResponseStatusDeclined)
}

// Complete records that an ACCEPTED donor has donated.
func (s *ResponseService) Complete(ctx context.Context, actor domain.Actor, id string) (*domain.BloodRequestResponse, error) {
	return s.review(ctx, actor, id, domain.ResponseStatusCompleted)
}

func (s *ResponseService) review(ctx context.Context, actor domain.Actor, id string, to domain.ResponseStatus) (*domain.BloodRequestResponse, error) {
	response, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	parent, err := s.requests.GetByID(ctx, response.RequestID)
	if err != nil {
		return nil, mapStoreError(err, resourceBloodRequest, response.RequestID)
	}
	if err := response.CheckReview(actor, parent, to); err != nil {
		return nil, err
	}

	var respondedAt *time.Time
	if domain.StampsResponseDate(to) {
		now := s.now()
		respondedAt = &now
	}
	from := response.Status
	if err := s.responses.TransitionStatus(ctx, id, from, to, respondedAt); err != nil {
		return nil, mapStoreError(err, resourceResponse, id)
	}
	response.Status = to
	if respondedAt != nil {
		response.ResponseDate = respondedAt
	}
	response.UpdatedAt = s.now()

	s.metrics.RecordTransition("response", string(to))
	s.publishEvent(ctx, events.Event{
		Type:      events.EventResponseStatusChanged,
		RequestID: response.RequestID,
		Actor:     eventActor(actor),
		Payload:   events.ResponseStatusChangedPayload{ResponseID: id, OldStatus: from, NewStatus: to},
	})
	return response, nil
}

// ListForRequest lists every response to a request owned by the caller.
func (s *ResponseService) ListForRequest(ctx context.Context, actor domain.Actor, requestID string, limit, offset int) ([]domain.BloodRequestResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, mapStoreError(err, resourceBloodRequest, requestID)
	}
	if err := request.AuthorizeOwner(actor); err != nil {
		return nil, err
	}
	return s.responses.ListWithFilter(ctx, repository.ResponseFilter{RequestID: &requestID, Limit: limit, Offset: offset})
}

// ListMine lists the caller's own responses.
func (s *ResponseService) ListMine(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.BloodRequestResponse, error) {
	if !actor.Can(domain.CapRespond) {
		return nil, apperrors.NewForbidden("only donors have responses")
	}
	return s.responses.ListWithFilter(ctx, repository.ResponseFilter{DonorID: &actor.ID, Limit: limit, Offset: offset})
}

// ListForHospital lists responses to any request owned by the caller, optionally by status.
func (s *ResponseService) ListForHospital(ctx context.Context, actor domain.Actor, statuses []domain.ResponseStatus, limit, offset int) ([]domain.BloodRequestResponse, error) {
	if !actor.Can(domain.CapReviewResponses) {
		return nil, apperrors.NewForbidden("only hospitals review responses")
	}
	for _, status := range statuses {
		if !status.Valid() {
			return nil, apperrors.NewValidationError("invalid response status",
				map[string]any{"status": status})
		}
	}
	return s.responses.ListWithFilter(ctx, repository.ResponseFilter{
		HospitalID: &actor.ID,
		Statuses:   statuses,
		Limit:      limit,
		Offset:     offset,
	})
}

// Describe loads the parent request and donor of each response, reading every distinct
// request and donor once.
func (s *ResponseService) Describe(ctx context.Context, responses ...domain.BloodRequestResponse) ([]ResponseDetails, error) {
	requests := map[string]*domain.BloodRequest{}
	donors := map[string]*domain.User{}
	details := make([]ResponseDetails, 0, len(responses))

	for _, response := range responses {
		request, seen := requests[response.RequestID]
		if !seen {
			found, err := s.requests.GetByID(ctx, response.RequestID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			request = found
			requests[response.RequestID] = found
		}
		donor, seen := donors[response.DonorID]
		if !seen {
			found, err := s.users.GetByID(ctx, response.DonorID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			donor = found
			donors[response.DonorID] = found
		}
		details = append(details, ResponseDetails{Response: response, Request: request, Donor: donor})
	}
	return details, nil
}

func (s *ResponseService) get(ctx context.Context, id string) (*domain.BloodRequestResponse, error) {
	response, err := s.responses.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, resourceResponse, id)
	}
	return response, nil
}

func (s *ResponseService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, s.now, event)
}

func duplicateResponse(requestID string) error {
	return apperrors.NewDuplicate("donor already responded to this blood request",
		map[string]any{"blood_request_id": requestID})
}
