package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/events"
	"github.com/spec-kit/blood-donation-service/internal/observability"
	"github.com/spec-kit/blood-donation-service/internal/repository"
)

// serviceSuite wires every service over one in-memory store with a fixed clock.
type serviceSuite struct {
	suite.Suite
	ctx        context.Context
	now        time.Time
	store      *repository.MemoryStore
	dispatcher events.Dispatcher
	published  []events.Event
	registry   *prometheus.Registry
	metrics    *observability.Metrics
	requests   *BloodRequestService
	responses  *ResponseService
	users      *UserService
	contacts   *ContactService
}

func (s *serviceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = repository.NewMemoryStore()
	s.dispatcher = events.NewInMemoryDispatcher()
	s.published = nil
	s.registry = prometheus.NewRegistry()
	s.metrics = observability.NewMetrics(s.registry)
	clock := func() time.Time { return s.now }

	record := func(_ context.Context, e events.Event) error {
		s.published = append(s.published, e)
		return nil
	}
	for _, t := range []events.EventType{
		events.EventRequestCreated, events.EventRequestUpdated, events.EventRequestStatusChanged,
		events.EventResponseCreated, events.EventResponseStatusChanged, events.EventResponseWithdrawn,
	} {
		s.dispatcher.Subscribe(t, record)
	}

	s.requests = NewBloodRequestService(BloodRequestDependencies{
		RequestRepo:  s.store.BloodRequests(),
		ResponseRepo: s.store.Responses(),
		UserRepo:     s.store.Users(),
		Dispatcher:   s.dispatcher,
		Metrics:      s.metrics,
		Clock:        clock,
	})
	s.responses = NewResponseService(ResponseDependencies{
		ResponseRepo: s.store.Responses(),
		RequestRepo:  s.store.BloodRequests(),
		UserRepo:     s.store.Users(),
		Dispatcher:   s.dispatcher,
		Metrics:      s.metrics,
		Clock:        clock,
	})
	s.users = NewUserService(s.store.Users())
	s.contacts = NewContactService(s.store.Contacts(), s.store.Users())
}

func (s *serviceSuite) newUser(role domain.Role, bloodType domain.BloodType) domain.Actor {
	user := &domain.User{
		FirstName: "Awa",
		LastName:  string(role),
		Email:     uuid.NewString() + "@example.com",
		Role:      role,
		BloodType: bloodType,
	}
	if role == domain.RoleHospital {
		user.HospitalName = "Hôpital Principal"
	}
	s.Require().NoError(s.store.Users().Create(s.ctx, user))
	return user.Actor()
}

func (s *serviceSuite) requestInput(bloodType domain.BloodType) BloodRequestInput {
	lat, lon := 14.6928, -17.4467
	return BloodRequestInput{
		BloodType:      bloodType,
		QuantityML:     450,
		Urgency:        domain.UrgencyUrgent,
		Latitude:       &lat,
		Longitude:      &lon,
		SearchRadiusKm: 25,
		Deadline:       s.now.Add(24 * time.Hour),
	}
}

func (s *serviceSuite) createRequest(hospital domain.Actor, bloodType domain.BloodType) *domain.BloodRequest {
	request, err := s.requests.Create(s.ctx, hospital, s.requestInput(bloodType))
	s.Require().NoError(err)
	return request
}
