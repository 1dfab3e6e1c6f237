package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/events"
	"github.com/spec-kit/blood-donation-service/internal/observability"
	"github.com/spec-kit/blood-donation-service/internal/repository"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

const resourceBloodRequest = "blood request"

// BloodRequestService coordinates hospital blood request workflows.
type BloodRequestService struct {
	requests   repository.BloodRequestRepository
	responses  repository.ResponseRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// BloodRequestDependencies bundles collaborators for the request service.
type BloodRequestDependencies struct {
	RequestRepo  repository.BloodRequestRepository
	ResponseRepo repository.ResponseRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Clock        func() time.Time
}

// BloodRequestInput describes a new blood request.
type BloodRequestInput struct {
	BloodType       domain.BloodType
	QuantityML      float64
	Urgency         domain.UrgencyLevel
	Description     string
	Latitude        *float64
	Longitude       *float64
	SearchRadiusKm  int
	HospitalName    string
	HospitalAddress string
	ContactPhone    string
	ContactEmail    string
	Deadline        time.Time
	Notes           string
}

// BloodRequestUpdateInput carries optional field edits; nil fields are left unchanged.
type BloodRequestUpdateInput struct {
	BloodType       *domain.BloodType
	QuantityML      *float64
	Urgency         *domain.UrgencyLevel
	Description     *string
	Latitude        *float64
	Longitude       *float64
	SearchRadiusKm  *int
	HospitalName    *string
	HospitalAddress *string
	ContactPhone    *string
	ContactEmail    *string
	Deadline        *time.Time
	Notes           *string
}

// NearbyInput locates requests around a donor. Coordinates come as a pair and default to
// the donor's stored position; BloodType narrows the search to one requested type.
type NearbyInput struct {
	Latitude  *float64
	Longitude *float64
	BloodType *domain.BloodType
	Limit     int
}

// NewBloodRequestService constructs the service.
func NewBloodRequestService(deps BloodRequestDependencies) *BloodRequestService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BloodRequestService{
		requests:   deps.RequestRepo,
		responses:  deps.ResponseRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        clock,
	}
}

// Create posts a new ACTIVE request on behalf of a hospital.
func (s *BloodRequestService) Create(ctx context.Context, actor domain.Actor, input BloodRequestInput) (*domain.BloodRequest, error) {
	if err := domain.CheckCreate(actor); err != nil {
		return nil, err
	}
	if input.Latitude == nil || input.Longitude == nil {
		return nil, apperrors.NewValidationError("invalid blood request",
			map[string]any{"latitude": "required", "longitude": "required"})
	}

	request := &domain.BloodRequest{
		HospitalID:      actor.ID,
		BloodType:       input.BloodType,
		QuantityML:      input.QuantityML,
		Urgency:         input.Urgency,
		Description:     strings.TrimSpace(input.Description),
		Latitude:        *input.Latitude,
		Longitude:       *input.Longitude,
		SearchRadiusKm:  input.SearchRadiusKm,
		HospitalName:    strings.TrimSpace(input.HospitalName),
		HospitalAddress: strings.TrimSpace(input.HospitalAddress),
		ContactPhone:    strings.TrimSpace(input.ContactPhone),
		ContactEmail:    strings.TrimSpace(input.ContactEmail),
		Deadline:        input.Deadline,
		Status:          domain.RequestStatusActive,
		Notes:           strings.TrimSpace(input.Notes),
	}
	if request.Urgency == "" {
		request.Urgency = domain.UrgencyNormal
	}
	if request.HospitalName == "" && s.users != nil {
		if hospital, err := s.users.GetByID(ctx, actor.ID); err == nil {
			request.HospitalName = hospital.HospitalName
		}
	}

	if err := domain.ValidateRequest(request, s.now()); err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	s.metrics.RecordTransition("blood_request", string(request.Status))
	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: request.ID,
		Actor:     eventActor(actor),
		Payload: events.RequestCreatedPayload{
			BloodType: request.BloodType,
			Urgency:   request.Urgency,
			Deadline:  request.Deadline,
		},
	})
	return request, nil
}

// Get returns a request by id. Any authenticated user may read a request.
func (s *BloodRequestService) Get(ctx context.Context, id string) (*domain.BloodRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, resourceBloodRequest, id)
	}
	return request, nil
}

// Update applies field edits to an ACTIVE request owned by the caller.
func (s *BloodRequestService) Update(ctx context.Context, actor domain.Actor, id string, input BloodRequestUpdateInput) (*domain.BloodRequest, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := request.CheckEditable(actor); err != nil {
		return nil, err
	}

	applyRequestUpdate(request, input)
	if err := domain.ValidateRequest(request, s.now()); err != nil {
		return nil, err
	}
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, mapStoreError(err, resourceBloodRequest, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestUpdated,
		RequestID: request.ID,
		Actor:     eventActor(actor),
	})
	return request, nil
}

// Cancel withdraws an ACTIVE request.
func (s *BloodRequestService) Cancel(ctx context.Context, actor domain.Actor, id string) (*domain.BloodRequest, error) {
	return s.transition(ctx, actor, id, domain.RequestStatusCancelled)
}

// Complete marks an ACTIVE request as satisfied.
func (s *BloodRequestService) Complete(ctx context.Context, actor domain.Actor, id string) (*domain.BloodRequest, error) {
	return s.transition(ctx, actor, id, domain.RequestStatusCompleted)
}

func (s *BloodRequestService) transition(ctx context.Context, actor domain.Actor, id string, to domain.RequestStatus) (*domain.BloodRequest, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := request.CheckTransition(actor, to); err != nil {
		return nil, err
	}

	from := request.Status
	if err := s.requests.TransitionStatus(ctx, id, from, to); err != nil {
		return nil, mapStoreError(err, resourceBloodRequest, id)
	}
	request.Status = to
	request.UpdatedAt = s.now()

	s.metrics.RecordTransition("blood_request", string(to))
	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: id,
		Actor:     eventActor(actor),
		Payload:   events.RequestStatusChangedPayload{OldStatus: from, NewStatus: to},
	})
	return request, nil
}

// ListMine lists the caller's own requests, newest first.
func (s *BloodRequestService) ListMine(ctx context.Context, actor domain.Actor, activeOnly bool, limit, offset int) ([]domain.BloodRequest, error) {
	if !actor.Can(domain.CapManageRequests) {
		return nil, apperrors.NewForbidden("only hospitals own blood requests")
	}
	filter := repository.BloodRequestFilter{HospitalID: &actor.ID, Limit: limit, Offset: offset}
	if activeOnly {
		filter.Statuses = []domain.RequestStatus{domain.RequestStatusActive}
	}
	return s.requests.ListWithFilter(ctx, filter)
}

// ListActive lists every ACTIVE request, most urgent first.
func (s *BloodRequestService) ListActive(ctx context.Context, limit, offset int) ([]domain.BloodRequest, error) {
	return s.requests.ListWithFilter(ctx, repository.BloodRequestFilter{
		Statuses:  []domain.RequestStatus{domain.RequestStatusActive},
		ByUrgency: true,
		Limit:     limit,
		Offset:    offset,
	})
}

// ListByBloodType lists ACTIVE requests for one requested type.
func (s *BloodRequestService) ListByBloodType(ctx context.Context, bloodType domain.BloodType, limit, offset int) ([]domain.BloodRequest, error) {
	if !bloodType.Valid() {
		return nil, apperrors.NewValidationError("invalid blood type", map[string]any{"blood_type": bloodType})
	}
	return s.requests.ListWithFilter(ctx, repository.BloodRequestFilter{
		Statuses:   []domain.RequestStatus{domain.RequestStatusActive},
		BloodTypes: []domain.BloodType{bloodType},
		ByUrgency:  true,
		Limit:      limit,
		Offset:     offset,
	})
}

// ListByUrgency lists ACTIVE requests at one urgency level, oldest first.
func (s *BloodRequestService) ListByUrgency(ctx context.Context, urgency domain.UrgencyLevel, limit, offset int) ([]domain.BloodRequest, error) {
	if !urgency.Valid() {
		return nil, apperrors.NewValidationError("invalid urgency level", map[string]any{"urgency_level": urgency})
	}
	return s.requests.ListWithFilter(ctx, repository.BloodRequestFilter{
		Statuses:  []domain.RequestStatus{domain.RequestStatusActive},
		Urgencies: []domain.UrgencyLevel{urgency},
		ByUrgency: true,
		Limit:     limit,
		Offset:    offset,
	})
}

// Nearby lists ACTIVE requests whose search radius covers the donor. Without an explicit
// blood type it returns every request the donor's own blood can satisfy.
func (s *BloodRequestService) Nearby(ctx context.Context, actor domain.Actor, input NearbyInput) ([]domain.BloodRequest, error) {
	if !actor.Can(domain.CapSearchNearby) {
		return nil, apperrors.NewForbidden("only donors can search nearby requests")
	}

	donor, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, mapStoreError(err, "user", actor.ID)
	}

	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, apperrors.NewValidationError("lat and lon go together", map[string]any{"lat": "required", "lon": "required"})
	}
	lat, lon := input.Latitude, input.Longitude
	if lat == nil {
		lat, lon = donor.Latitude, donor.Longitude
	}
	if lat == nil || lon == nil {
		return nil, apperrors.NewValidationError("donor position unknown", map[string]any{"lat": "required", "lon": "required"})
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return nil, apperrors.NewValidationError("invalid coordinates", map[string]any{"lat": *lat, "lon": *lon})
	}

	var types []domain.BloodType
	if input.BloodType != nil {
		if !input.BloodType.Valid() {
			return nil, apperrors.NewValidationError("invalid blood type", map[string]any{"blood_type": *input.BloodType})
		}
		types = []domain.BloodType{*input.BloodType}
	} else {
		types = domain.RecipientTypesFor(donor.BloodType)
	}
	if len(types) == 0 {
		return []domain.BloodRequest{}, nil
	}

	return s.requests.FindNearby(ctx, repository.NearbyQuery{
		Latitude:   *lat,
		Longitude:  *lon,
		BloodTypes: types,
		Limit:      input.Limit,
	})
}

// ResponseCounts tallies the responses each request has received. Requests without
// responses map to zero counts.
func (s *BloodRequestService) ResponseCounts(ctx context.Context, requests ...domain.BloodRequest) (map[string]domain.ResponseCounts, error) {
	if s.responses == nil || len(requests) == 0 {
		return map[string]domain.ResponseCounts{}, nil
	}
	ids := make([]string, len(requests))
	for i := range requests {
		ids[i] = requests[i].ID
	}
	return s.responses.CountByRequests(ctx, ids)
}

// ExpireOverdue moves every ACTIVE request whose deadline has passed to EXPIRED and
// returns how many it changed. Requests that left ACTIVE concurrently are skipped.
func (s *BloodRequestService) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.requests.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, request := range overdue {
		if !request.IsOverdue(now) {
			continue
		}
		err := s.requests.TransitionStatus(ctx, request.ID, domain.RequestStatusActive, domain.RequestStatusExpired)
		if errors.Is(err, repository.ErrStatusConflict) {
			continue
		}
		if err != nil {
			s.metrics.RecordSweep(expired)
			return expired, err
		}
		expired++
		s.metrics.RecordTransition("blood_request", string(domain.RequestStatusExpired))
		s.publishEvent(ctx, events.Event{
			Type:      events.EventRequestStatusChanged,
			RequestID: request.ID,
			Payload: events.RequestStatusChangedPayload{
				OldStatus: domain.RequestStatusActive,
				NewStatus: domain.RequestStatusExpired,
			},
		})
	}
	s.metrics.RecordSweep(expired)
	return expired, nil
}

func (s *BloodRequestService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, s.now, event)
}

func applyRequestUpdate(r *domain.BloodRequest, in BloodRequestUpdateInput) {
	if in.BloodType != nil {
		r.BloodType = *in.BloodType
	}
	if in.QuantityML != nil {
		r.QuantityML = *in.QuantityML
	}
	if in.Urgency != nil {
		r.Urgency = *in.Urgency
	}
	if in.Description != nil {
		r.Description = strings.TrimSpace(*in.Description)
	}
	if in.Latitude != nil {
		r.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		r.Longitude = *in.Longitude
	}
	if in.SearchRadiusKm != nil {
		r.SearchRadiusKm = *in.SearchRadiusKm
	}
	if in.HospitalName != nil {
		r.HospitalName = strings.TrimSpace(*in.HospitalName)
	}
	if in.HospitalAddress != nil {
		r.HospitalAddress = strings.TrimSpace(*in.HospitalAddress)
	}
	if in.ContactPhone != nil {
		r.ContactPhone = strings.TrimSpace(*in.ContactPhone)
	}
	if in.ContactEmail != nil {
		r.ContactEmail = strings.TrimSpace(*in.ContactEmail)
	}
	if in.Deadline != nil {
		r.Deadline = *in.Deadline
	}
	if in.Notes != nil {
		r.Notes = strings.TrimSpace(*in.Notes)
	}
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, now func() time.Time, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func eventActor(actor domain.Actor) events.Actor {
	return events.Actor{ID: actor.ID, Role: actor.Role}
}
