package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blood-donation-service/internal/domain"
)

// BloodRequestFilter captures listing parameters.
type BloodRequestFilter struct {
	HospitalID *string
	Statuses   []domain.RequestStatus
	BloodTypes []domain.BloodType
	Urgencies  []domain.UrgencyLevel
	// ByUrgency orders CRITICAL > URGENT > NORMAL then oldest first instead of newest first.
	ByUrgency bool
	Limit     int
	Offset    int
}

// NearbyQuery locates active requests whose own radius covers the donor position.
type NearbyQuery struct {
	Latitude   float64
	Longitude  float64
	BloodTypes []domain.BloodType
	Limit      int
}

// BloodRequestRepository encapsulates blood request persistence.
type BloodRequestRepository interface {
	Create(ctx context.Context, request *domain.BloodRequest) error
	// Update writes editable fields only while the request is still ACTIVE.
	Update(ctx context.Context, request *domain.BloodRequest) error
	GetByID(ctx context.Context, id string) (*domain.BloodRequest, error)
	ListWithFilter(ctx context.Context, filter BloodRequestFilter) ([]domain.BloodRequest, error)
	// TransitionStatus moves the request to next only if its stored status is still from.
	TransitionStatus(ctx context.Context, id string, from, next domain.RequestStatus) error
	ListOverdue(ctx context.Context, before time.Time) ([]domain.BloodRequest, error)
	FindNearby(ctx context.Context, query NearbyQuery) ([]domain.BloodRequest, error)
}

type bloodRequestRepository struct {
	pool *pgxpool.Pool
}

// NewBloodRequestRepository instantiates repository.
func NewBloodRequestRepository(pool *pgxpool.Pool) BloodRequestRepository {
	return &bloodRequestRepository{pool: pool}
}

const bloodRequestColumns = `id, hospital_user_id, blood_type, quantity_ml, urgency_level, description,
        latitude, longitude, search_radius_km, hospital_name, hospital_address, contact_phone,
        contact_email, deadline, status, notes, created_at, updated_at`

const urgencyOrder = `CASE urgency_level WHEN 'CRITICAL' THEN 3 WHEN 'URGENT' THEN 2 ELSE 1 END DESC, created_at ASC`

func (r *bloodRequestRepository) Create(ctx context.Context, request *domain.BloodRequest) error {
	const query = `
        INSERT INTO blood_requests (hospital_user_id, blood_type, quantity_ml, urgency_level, description,
            latitude, longitude, search_radius_km, hospital_name, hospital_address, contact_phone,
            contact_email, deadline, status, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		request.HospitalID,
		request.BloodType,
		request.QuantityML,
		request.Urgency,
		request.Description,
		request.Latitude,
		request.Longitude,
		request.SearchRadiusKm,
		request.HospitalName,
		request.HospitalAddress,
		request.ContactPhone,
		request.ContactEmail,
		request.Deadline,
		request.Status,
		request.Notes,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
}

func (r *bloodRequestRepository) Update(ctx context.Context, request *domain.BloodRequest) error {
	const query = `
        UPDATE blood_requests SET blood_type=$1, quantity_ml=$2, urgency_level=$3, description=$4,
            latitude=$5, longitude=$6, search_radius_km=$7, hospital_name=$8, hospital_address=$9,
            contact_phone=$10, contact_email=$11, deadline=$12, notes=$13, updated_at=NOW()
        WHERE id=$14 AND status='ACTIVE'
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		request.BloodType,
		request.QuantityML,
		request.Urgency,
		request.Description,
		request.Latitude,
		request.Longitude,
		request.SearchRadiusKm,
		request.HospitalName,
		request.HospitalAddress,
		request.ContactPhone,
		request.ContactEmail,
		request.Deadline,
		request.Notes,
		request.ID,
	).Scan(&request.UpdatedAt)
	if err == pgx.ErrNoRows {
		return ErrStatusConflict
	}
	return err
}

func (r *bloodRequestRepository) GetByID(ctx context.Context, id string) (*domain.BloodRequest, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + bloodRequestColumns + ` FROM blood_requests WHERE id=$1`
	return scanBloodRequest(r.pool.QueryRow(ctx, query, id))
}

func (r *bloodRequestRepository) ListWithFilter(ctx context.Context, filter BloodRequestFilter) ([]domain.BloodRequest, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.HospitalID != nil {
		args = append(args, *filter.HospitalID)
		clauses = append(clauses, fmt.Sprintf("hospital_user_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.BloodTypes) > 0 {
		args = append(args, bloodTypeStrings(filter.BloodTypes))
		clauses = append(clauses, fmt.Sprintf("blood_type = ANY($%d)", len(args)))
	}
	if len(filter.Urgencies) > 0 {
		placeholders := make([]string, len(filter.Urgencies))
		for i, urgency := range filter.Urgencies {
			args = append(args, urgency)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("urgency_level IN (%s)", strings.Join(placeholders, ",")))
	}

	order := "created_at DESC"
	if filter.ByUrgency {
		order = urgencyOrder
	}
	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM blood_requests WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		bloodRequestColumns, strings.Join(clauses, " AND "), order, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBloodRequests(rows)
}

func (r *bloodRequestRepository) TransitionStatus(ctx context.Context, id string, from, next domain.RequestStatus) error {
	const query = `
        UPDATE blood_requests SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3`
	cmd, err := r.pool.Exec(ctx, query, next, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *bloodRequestRepository) ListOverdue(ctx context.Context, before time.Time) ([]domain.BloodRequest, error) {
	query := `SELECT ` + bloodRequestColumns + `
        FROM blood_requests WHERE status='ACTIVE' AND deadline < $1 ORDER BY deadline ASC`
	rows, err := r.pool.Query(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBloodRequests(rows)
}

// FindNearby filters with the haversine great-circle distance against each row's own
// search radius. LEAST clamps rounding noise before asin.
func (r *bloodRequestRepository) FindNearby(ctx context.Context, q NearbyQuery) ([]domain.BloodRequest, error) {
	limit, _ := pageBounds(q.Limit, 0)
	query := fmt.Sprintf(`SELECT %s FROM blood_requests
        WHERE status='ACTIVE'
          AND blood_type = ANY($3)
          AND 2 * 6371 * ASIN(LEAST(1.0, SQRT(
                POWER(SIN(RADIANS(latitude - $1) / 2), 2) +
                COS(RADIANS($1)) * COS(RADIANS(latitude)) *
                POWER(SIN(RADIANS(longitude - $2) / 2), 2)
              ))) <= search_radius_km
        ORDER BY %s
        LIMIT %d`, bloodRequestColumns, urgencyOrder, limit)

	rows, err := r.pool.Query(ctx, query, q.Latitude, q.Longitude, bloodTypeStrings(q.BloodTypes))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBloodRequests(rows)
}

func scanBloodRequest(row pgx.Row) (*domain.BloodRequest, error) {
	var req domain.BloodRequest
	if err := row.Scan(
		&req.ID,
		&req.HospitalID,
		&req.BloodType,
		&req.QuantityML,
		&req.Urgency,
		&req.Description,
		&req.Latitude,
		&req.Longitude,
		&req.SearchRadiusKm,
		&req.HospitalName,
		&req.HospitalAddress,
		&req.ContactPhone,
		&req.ContactEmail,
		&req.Deadline,
		&req.Status,
		&req.Notes,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func scanBloodRequests(rows pgx.Rows) ([]domain.BloodRequest, error) {
	var result []domain.BloodRequest
	for rows.Next() {
		req, err := scanBloodRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, rows.Err()
}
