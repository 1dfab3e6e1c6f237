package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/blood-donation-service/internal/domain"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) newRequest(hospitalID string, urgency domain.UrgencyLevel, lat, lon float64, radius int) *domain.BloodRequest {
	req := &domain.BloodRequest{
		HospitalID:     hospitalID,
		BloodType:      domain.BloodTypeAPositive,
		QuantityML:     450,
		Urgency:        urgency,
		Latitude:       lat,
		Longitude:      lon,
		SearchRadiusKm: radius,
		Deadline:       time.Now().Add(time.Hour),
		Status:         domain.RequestStatusActive,
	}
	s.Require().NoError(s.store.BloodRequests().Create(s.ctx, req))
	return req
}

func (s *MemoryStoreSuite) TestUsers() {
	s.Run("rejects duplicate email case-insensitively", func() {
		s.Require().NoError(s.store.Users().Create(s.ctx, &domain.User{Email: "donor@example.com", Role: domain.RoleUser}))
		err := s.store.Users().Create(s.ctx, &domain.User{Email: "DONOR@example.com", Role: domain.RoleUser})
		s.ErrorIs(err, ErrDuplicate)
	})

	s.Run("keeps role and email immutable on update", func() {
		user := &domain.User{Email: "h@example.com", Role: domain.RoleHospital, City: "Dakar"}
		s.Require().NoError(s.store.Users().Create(s.ctx, user))

		user.Role = domain.RoleAdmin
		user.Email = "other@example.com"
		user.City = "Thiès"
		s.Require().NoError(s.store.Users().Update(s.ctx, user))

		found, err := s.store.Users().GetByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(domain.RoleHospital, found.Role)
		s.Equal("h@example.com", found.Email)
		s.Equal("Thiès", found.City)
	})

	s.Run("returns ErrNoRows for unknown id", func() {
		_, err := s.store.Users().GetByID(s.ctx, "missing")
		s.ErrorIs(err, pgx.ErrNoRows)
	})
}

func (s *MemoryStoreSuite) TestRequestTransitions() {
	req := s.newRequest("hosp-1", domain.UrgencyNormal, 0, 0, 10)

	s.Require().NoError(s.store.BloodRequests().TransitionStatus(s.ctx, req.ID, domain.RequestStatusActive, domain.RequestStatusCancelled))
	err := s.store.BloodRequests().TransitionStatus(s.ctx, req.ID, domain.RequestStatusActive, domain.RequestStatusCompleted)
	s.ErrorIs(err, ErrStatusConflict)

	found, err := s.store.BloodRequests().GetByID(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(domain.RequestStatusCancelled, found.Status)

	found.Notes = "edit after cancel"
	s.ErrorIs(s.store.BloodRequests().Update(s.ctx, found), ErrStatusConflict)
}

func (s *MemoryStoreSuite) TestListOverdue() {
	overdue := s.newRequest("hosp-1", domain.UrgencyNormal, 0, 0, 10)
	later := s.newRequest("hosp-1", domain.UrgencyNormal, 0, 0, 10)
	later.Deadline = overdue.Deadline.Add(time.Hour)
	s.Require().NoError(s.store.BloodRequests().Update(s.ctx, later))

	list, err := s.store.BloodRequests().ListOverdue(s.ctx, overdue.Deadline.Add(time.Millisecond))
	s.Require().NoError(err)
	s.Len(list, 1)
	s.Equal(overdue.ID, list[0].ID)
}

func (s *MemoryStoreSuite) TestFindNearbyOrdersByUrgencyThenAge() {
	// Dakar
	normal := s.newRequest("hosp-1", domain.UrgencyNormal, 14.69, -17.44, 50)
	critical := s.newRequest("hosp-1", domain.UrgencyCritical, 14.70, -17.45, 50)
	urgentOld := s.newRequest("hosp-2", domain.UrgencyUrgent, 14.71, -17.46, 50)
	urgentNew := s.newRequest("hosp-2", domain.UrgencyUrgent, 14.72, -17.47, 50)
	// Saint-Louis, ~200 km away with a small radius
	s.newRequest("hosp-3", domain.UrgencyCritical, 16.02, -16.49, 20)
	cancelled := s.newRequest("hosp-3", domain.UrgencyCritical, 14.69, -17.44, 50)
	s.Require().NoError(s.store.BloodRequests().TransitionStatus(s.ctx, cancelled.ID, domain.RequestStatusActive, domain.RequestStatusCancelled))

	list, err := s.store.BloodRequests().FindNearby(s.ctx, NearbyQuery{
		Latitude:   14.69,
		Longitude:  -17.44,
		BloodTypes: []domain.BloodType{domain.BloodTypeAPositive},
	})
	s.Require().NoError(err)
	s.Require().Len(list, 4)
	s.Equal([]string{critical.ID, urgentOld.ID, urgentNew.ID, normal.ID},
		[]string{list[0].ID, list[1].ID, list[2].ID, list[3].ID})

	none, err := s.store.BloodRequests().FindNearby(s.ctx, NearbyQuery{
		Latitude:   14.69,
		Longitude:  -17.44,
		BloodTypes: []domain.BloodType{domain.BloodTypeONegative},
	})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *MemoryStoreSuite) TestResponseUniquenessUnderContention() {
	req := s.newRequest("hosp-1", domain.UrgencyNormal, 0, 0, 10)

	var created, duplicates int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Responses().Create(s.ctx, &domain.BloodRequestResponse{
				RequestID: req.ID,
				DonorID:   "donor-1",
				Status:    domain.ResponseStatusPending,
			})
			switch err {
			case nil:
				atomic.AddInt32(&created, 1)
			case ErrDuplicate:
				atomic.AddInt32(&duplicates, 1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created)
	s.Equal(int32(15), duplicates)
}

func (s *MemoryStoreSuite) TestResponseConditionalTransitions() {
	req := s.newRequest("hosp-1", domain.UrgencyNormal, 0, 0, 10)
	resp := &domain.BloodRequestResponse{RequestID: req.ID, DonorID: "donor-1", Status: domain.ResponseStatusPending}
	s.Require().NoError(s.store.Responses().Create(s.ctx, resp))

	now := time.Now()
	s.Require().NoError(s.store.Responses().TransitionStatus(s.ctx, resp.ID, domain.ResponseStatusPending, domain.ResponseStatusAccepted, &now))
	err := s.store.Responses().TransitionStatus(s.ctx, resp.ID, domain.ResponseStatusPending, domain.ResponseStatusDeclined, &now)
	s.ErrorIs(err, ErrStatusConflict)
	s.ErrorIs(s.store.Responses().DeleteIfStatus(s.ctx, resp.ID, domain.ResponseStatusPending), ErrStatusConflict)

	found, err := s.store.Responses().GetByID(s.ctx, resp.ID)
	s.Require().NoError(err)
	s.Equal(domain.ResponseStatusAccepted, found.Status)
	s.Require().NotNil(found.ResponseDate)
}

func (s *MemoryStoreSuite) TestResponsesByHospital() {
	mine := s.newRequest("hosp-1", domain.UrgencyNormal, 0, 0, 10)
	theirs := s.newRequest("hosp-2", domain.UrgencyNormal, 0, 0, 10)
	s.Require().NoError(s.store.Responses().Create(s.ctx, &domain.BloodRequestResponse{RequestID: mine.ID, DonorID: "d1", Status: domain.ResponseStatusPending}))
	s.Require().NoError(s.store.Responses().Create(s.ctx, &domain.BloodRequestResponse{RequestID: theirs.ID, DonorID: "d1", Status: domain.ResponseStatusPending}))

	hospitalID := "hosp-1"
	list, err := s.store.Responses().ListWithFilter(s.ctx, ResponseFilter{HospitalID: &hospitalID})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(mine.ID, list[0].RequestID)
}

func (s *MemoryStoreSuite) TestContacts() {
	bt := domain.BloodTypeONegative
	s.Require().NoError(s.store.Contacts().Create(s.ctx, &domain.Contact{OwnerID: "u1", LastName: "Diop", BloodType: bt}))
	s.Require().NoError(s.store.Contacts().Create(s.ctx, &domain.Contact{OwnerID: "u1", LastName: "Ba", BloodType: domain.BloodTypeAPositive}))
	s.Require().NoError(s.store.Contacts().Create(s.ctx, &domain.Contact{OwnerID: "u2", LastName: "Fall", BloodType: bt}))

	all, err := s.store.Contacts().ListByOwner(s.ctx, "u1", nil)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("Ba", all[0].LastName)

	filtered, err := s.store.Contacts().ListByOwner(s.ctx, "u1", &bt)
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal("Diop", filtered[0].LastName)

	s.ErrorIs(s.store.Contacts().Delete(s.ctx, "missing"), pgx.ErrNoRows)
}

func (s *MemoryStoreSuite) TestCountByRequests() {
	busy := s.newRequest("hosp-1", domain.UrgencyNormal, 0, 0, 10)
	quiet := s.newRequest("hosp-1", domain.UrgencyNormal, 0, 0, 10)
	for i, status := range []domain.ResponseStatus{domain.ResponseStatusPending, domain.ResponseStatusAccepted, domain.ResponseStatusDeclined} {
		s.Require().NoError(s.store.Responses().Create(s.ctx, &domain.BloodRequestResponse{
			RequestID: busy.ID, DonorID: string(rune('a' + i)), Status: status,
		}))
	}

	counts, err := s.store.Responses().CountByRequests(s.ctx, []string{busy.ID, quiet.ID})
	s.Require().NoError(err)
	s.Equal(domain.ResponseCounts{Total: 3, Pending: 1, Accepted: 1}, counts[busy.ID])
	s.NotContains(counts, quiet.ID)
}

func (s *MemoryStoreSuite) TestDeleteUser() {
	donor := &domain.User{Email: "gone@example.com", Role: domain.RoleUser}
	hospital := &domain.User{Email: "hq@example.com", Role: domain.RoleHospital}
	s.Require().NoError(s.store.Users().Create(s.ctx, donor))
	s.Require().NoError(s.store.Users().Create(s.ctx, hospital))
	request := s.newRequest(hospital.ID, domain.UrgencyNormal, 0, 0, 10)
	s.Require().NoError(s.store.Responses().Create(s.ctx, &domain.BloodRequestResponse{RequestID: request.ID, DonorID: donor.ID, Status: domain.ResponseStatusPending}))
	s.Require().NoError(s.store.Contacts().Create(s.ctx, &domain.Contact{OwnerID: donor.ID, LastName: "Sarr", BloodType: domain.BloodTypeOPositive}))

	s.Run("hospital owning requests is kept", func() {
		s.ErrorIs(s.store.Users().Delete(s.ctx, hospital.ID), ErrReferenced)
	})

	s.Run("donor goes with responses and contacts", func() {
		s.Require().NoError(s.store.Users().Delete(s.ctx, donor.ID))
		_, err := s.store.Users().GetByID(s.ctx, donor.ID)
		s.ErrorIs(err, pgx.ErrNoRows)
		_, err = s.store.Responses().GetByRequestAndDonor(s.ctx, request.ID, donor.ID)
		s.ErrorIs(err, pgx.ErrNoRows)
		contacts, err := s.store.Contacts().ListByOwner(s.ctx, donor.ID, nil)
		s.Require().NoError(err)
		s.Empty(contacts)
	})

	s.Run("unknown id", func() {
		s.ErrorIs(s.store.Users().Delete(s.ctx, "missing"), pgx.ErrNoRows)
	})
}
