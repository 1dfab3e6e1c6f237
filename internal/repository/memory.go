package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/geo"
)

type record[T any] struct {
	seq   int64
	value T
}

// MemoryStore is an in-process implementation of every repository. It backs the
// service when no Postgres DSN is configured and is used throughout the tests.
// A single lock makes each check-and-write atomic, mirroring the SQL constraints.
type MemoryStore struct {
	mu        sync.RWMutex
	seq       int64
	users     map[string]record[domain.User]
	requests  map[string]record[domain.BloodRequest]
	responses map[string]record[domain.BloodRequestResponse]
	contacts  map[string]record[domain.Contact]
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]record[domain.User]),
		requests:  make(map[string]record[domain.BloodRequest]),
		responses: make(map[string]record[domain.BloodRequestResponse]),
		contacts:  make(map[string]record[domain.Contact]),
	}
}

func (s *MemoryStore) Users() UserRepository                 { return memoryUsers{s} }
func (s *MemoryStore) BloodRequests() BloodRequestRepository { return memoryRequests{s} }
func (s *MemoryStore) Responses() ResponseRepository         { return memoryResponses{s} }
func (s *MemoryStore) Contacts() ContactRepository           { return memoryContacts{s} }

func (s *MemoryStore) next() int64 {
	s.seq++
	return s.seq
}

func paginate[T any](items []T, limit, offset int) []T {
	limit, offset = pageBounds(limit, offset)
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func containsValue[T comparable](set []T, v T) bool {
	for _, candidate := range set {
		if candidate == v {
			return true
		}
	}
	return false
}

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, rec := range m.s.users {
		if strings.EqualFold(rec.value.Email, user.Email) {
			return ErrDuplicate
		}
	}
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt, user.UpdatedAt = now, now
	m.s.users[user.ID] = record[domain.User]{seq: m.s.next(), value: *user}
	return nil
}

func (m memoryUsers) Update(_ context.Context, user *domain.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rec, ok := m.s.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	updated := *user
	updated.Email = rec.value.Email
	updated.Role = rec.value.Role
	updated.CreatedAt = rec.value.CreatedAt
	updated.UpdatedAt = time.Now()
	user.UpdatedAt = updated.UpdatedAt
	rec.value = updated
	m.s.users[user.ID] = rec
	return nil
}

func (m memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	rec, ok := m.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := rec.value
	return &user, nil
}

func (m memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, rec := range m.s.users {
		if strings.EqualFold(rec.value.Email, email) {
			user := rec.value
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m memoryUsers) ListWithFilter(_ context.Context, filter UserFilter) ([]domain.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var result []domain.User
	for _, rec := range m.s.users {
		u := rec.value
		if len(filter.Roles) > 0 && !containsValue(filter.Roles, u.Role) {
			continue
		}
		if len(filter.BloodTypes) > 0 && !containsValue(filter.BloodTypes, u.BloodType) {
			continue
		}
		if filter.City != nil && strings.TrimSpace(*filter.City) != "" &&
			!strings.EqualFold(u.City, strings.TrimSpace(*filter.City)) {
			continue
		}
		result = append(result, u)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].FirstName < result[j].FirstName
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (m memoryUsers) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, rec := range m.s.requests {
		if rec.value.HospitalID == id {
			return ErrReferenced
		}
	}
	for rid, rec := range m.s.responses {
		if rec.value.DonorID == id {
			delete(m.s.responses, rid)
		}
	}
	for cid, rec := range m.s.contacts {
		if rec.value.OwnerID == id {
			delete(m.s.contacts, cid)
		}
	}
	delete(m.s.users, id)
	return nil
}

type memoryRequests struct{ s *MemoryStore }

func (m memoryRequests) Create(_ context.Context, request *domain.BloodRequest) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now()
	request.ID = uuid.NewString()
	request.CreatedAt, request.UpdatedAt = now, now
	m.s.requests[request.ID] = record[domain.BloodRequest]{seq: m.s.next(), value: *request}
	return nil
}

func (m memoryRequests) Update(_ context.Context, request *domain.BloodRequest) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rec, ok := m.s.requests[request.ID]
	if !ok || rec.value.Status != domain.RequestStatusActive {
		return ErrStatusConflict
	}
	updated := *request
	updated.HospitalID = rec.value.HospitalID
	updated.Status = rec.value.Status
	updated.CreatedAt = rec.value.CreatedAt
	updated.UpdatedAt = time.Now()
	request.UpdatedAt = updated.UpdatedAt
	rec.value = updated
	m.s.requests[request.ID] = rec
	return nil
}

func (m memoryRequests) GetByID(_ context.Context, id string) (*domain.BloodRequest, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	rec, ok := m.s.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	req := rec.value
	return &req, nil
}

func (m memoryRequests) ListWithFilter(_ context.Context, filter BloodRequestFilter) ([]domain.BloodRequest, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var recs []record[domain.BloodRequest]
	for _, rec := range m.s.requests {
		r := rec.value
		if filter.HospitalID != nil && r.HospitalID != *filter.HospitalID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsValue(filter.Statuses, r.Status) {
			continue
		}
		if len(filter.BloodTypes) > 0 && !containsValue(filter.BloodTypes, r.BloodType) {
			continue
		}
		if len(filter.Urgencies) > 0 && !containsValue(filter.Urgencies, r.Urgency) {
			continue
		}
		recs = append(recs, rec)
	}
	if filter.ByUrgency {
		sortByUrgency(recs)
	} else {
		sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })
	}
	return paginate(requestValues(recs), filter.Limit, filter.Offset), nil
}

func (m memoryRequests) TransitionStatus(_ context.Context, id string, from, next domain.RequestStatus) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rec, ok := m.s.requests[id]
	if !ok || rec.value.Status != from {
		return ErrStatusConflict
	}
	rec.value.Status = next
	rec.value.UpdatedAt = time.Now()
	m.s.requests[id] = rec
	return nil
}

func (m memoryRequests) ListOverdue(_ context.Context, before time.Time) ([]domain.BloodRequest, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var result []domain.BloodRequest
	for _, rec := range m.s.requests {
		if rec.value.IsOverdue(before) {
			result = append(result, rec.value)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Deadline.Before(result[j].Deadline) })
	return result, nil
}

func (m memoryRequests) FindNearby(_ context.Context, q NearbyQuery) ([]domain.BloodRequest, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	donor := geo.Point{Lat: q.Latitude, Lon: q.Longitude}
	var recs []record[domain.BloodRequest]
	for _, rec := range m.s.requests {
		r := rec.value
		if r.Status != domain.RequestStatusActive || !containsValue(q.BloodTypes, r.BloodType) {
			continue
		}
		if !geo.WithinRadius(donor, geo.Point{Lat: r.Latitude, Lon: r.Longitude}, float64(r.SearchRadiusKm)) {
			continue
		}
		recs = append(recs, rec)
	}
	sortByUrgency(recs)
	return paginate(requestValues(recs), q.Limit, 0), nil
}

func sortByUrgency(recs []record[domain.BloodRequest]) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i].value.Urgency.Rank(), recs[j].value.Urgency.Rank()
		if a != b {
			return a > b
		}
		return recs[i].seq < recs[j].seq
	})
}

func requestValues(recs []record[domain.BloodRequest]) []domain.BloodRequest {
	out := make([]domain.BloodRequest, len(recs))
	for i, rec := range recs {
		out[i] = rec.value
	}
	return out
}

type memoryResponses struct{ s *MemoryStore }

func (m memoryResponses) Create(_ context.Context, response *domain.BloodRequestResponse) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, rec := range m.s.responses {
		if rec.value.RequestID == response.RequestID && rec.value.DonorID == response.DonorID {
			return ErrDuplicate
		}
	}
	now := time.Now()
	response.ID = uuid.NewString()
	response.CreatedAt, response.UpdatedAt = now, now
	m.s.responses[response.ID] = record[domain.BloodRequestResponse]{seq: m.s.next(), value: *response}
	return nil
}

func (m memoryResponses) GetByID(_ context.Context, id string) (*domain.BloodRequestResponse, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	rec, ok := m.s.responses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	resp := rec.value
	return &resp, nil
}

func (m memoryResponses) GetByRequestAndDonor(_ context.Context, requestID, donorID string) (*domain.BloodRequestResponse, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, rec := range m.s.responses {
		if rec.value.RequestID == requestID && rec.value.DonorID == donorID {
			resp := rec.value
			return &resp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m memoryResponses) ListWithFilter(_ context.Context, filter ResponseFilter) ([]domain.BloodRequestResponse, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var recs []record[domain.BloodRequestResponse]
	for _, rec := range m.s.responses {
		r := rec.value
		if filter.RequestID != nil && r.RequestID != *filter.RequestID {
			continue
		}
		if filter.DonorID != nil && r.DonorID != *filter.DonorID {
			continue
		}
		if filter.HospitalID != nil {
			parent, ok := m.s.requests[r.RequestID]
			if !ok || parent.value.HospitalID != *filter.HospitalID {
				continue
			}
		}
		if len(filter.Statuses) > 0 && !containsValue(filter.Statuses, r.Status) {
			continue
		}
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	out := make([]domain.BloodRequestResponse, len(recs))
	for i, rec := range recs {
		out[i] = rec.value
	}
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (m memoryResponses) TransitionStatus(_ context.Context, id string, from, next domain.ResponseStatus, respondedAt *time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rec, ok := m.s.responses[id]
	if !ok || rec.value.Status != from {
		return ErrStatusConflict
	}
	rec.value.Status = next
	if respondedAt != nil {
		stamp := *respondedAt
		rec.value.ResponseDate = &stamp
	}
	rec.value.UpdatedAt = time.Now()
	m.s.responses[id] = rec
	return nil
}

func (m memoryResponses) DeleteIfStatus(_ context.Context, id string, status domain.ResponseStatus) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rec, ok := m.s.responses[id]
	if !ok || rec.value.Status != status {
		return ErrStatusConflict
	}
	delete(m.s.responses, id)
	return nil
}

func (m memoryResponses) CountByRequests(_ context.Context, requestIDs []string) (map[string]domain.ResponseCounts, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	counts := make(map[string]domain.ResponseCounts, len(requestIDs))
	for _, rec := range m.s.responses {
		if !containsValue(requestIDs, rec.value.RequestID) {
			continue
		}
		c := counts[rec.value.RequestID]
		c.Add(rec.value.Status)
		counts[rec.value.RequestID] = c
	}
	return counts, nil
}

type memoryContacts struct{ s *MemoryStore }

func (m memoryContacts) Create(_ context.Context, contact *domain.Contact) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now()
	contact.ID = uuid.NewString()
	contact.CreatedAt, contact.UpdatedAt = now, now
	m.s.contacts[contact.ID] = record[domain.Contact]{seq: m.s.next(), value: *contact}
	return nil
}

func (m memoryContacts) Update(_ context.Context, contact *domain.Contact) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rec, ok := m.s.contacts[contact.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	updated := *contact
	updated.OwnerID = rec.value.OwnerID
	updated.CreatedAt = rec.value.CreatedAt
	updated.UpdatedAt = time.Now()
	contact.UpdatedAt = updated.UpdatedAt
	rec.value = updated
	m.s.contacts[contact.ID] = rec
	return nil
}

func (m memoryContacts) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.contacts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.s.contacts, id)
	return nil
}

func (m memoryContacts) GetByID(_ context.Context, id string) (*domain.Contact, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	rec, ok := m.s.contacts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	contact := rec.value
	return &contact, nil
}

func (m memoryContacts) ListByOwner(_ context.Context, ownerID string, bloodType *domain.BloodType) ([]domain.Contact, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var result []domain.Contact
	for _, rec := range m.s.contacts {
		c := rec.value
		if c.OwnerID != ownerID {
			continue
		}
		if bloodType != nil && c.BloodType != *bloodType {
			continue
		}
		result = append(result, c)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].FirstName < result[j].FirstName
	})
	return result, nil
}
