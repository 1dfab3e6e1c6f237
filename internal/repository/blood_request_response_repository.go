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

// ResponseFilter narrows response listings.
type ResponseFilter struct {
	RequestID  *string
	DonorID    *string
	HospitalID *string
	Statuses   []domain.ResponseStatus
	Limit      int
	Offset     int
}

// ResponseRepository persists donor responses. At most one response exists per
// (request, donor) pair; Create reports ErrDuplicate when the pair is taken.
type ResponseRepository interface {
	Create(ctx context.Context, response *domain.BloodRequestResponse) error
	GetByID(ctx context.Context, id string) (*domain.BloodRequestResponse, error)
	GetByRequestAndDonor(ctx context.Context, requestID, donorID string) (*domain.BloodRequestResponse, error)
	ListWithFilter(ctx context.Context, filter ResponseFilter) ([]domain.BloodRequestResponse, error)
	// TransitionStatus moves the response to next only if its stored status is still from.
	TransitionStatus(ctx context.Context, id string, from, next domain.ResponseStatus, respondedAt *time.Time) error
	// DeleteIfStatus removes the response only while it still has the given status.
	DeleteIfStatus(ctx context.Context, id string, status domain.ResponseStatus) error
	// CountByRequests tallies responses per request. Requests without responses are absent.
	CountByRequests(ctx context.Context, requestIDs []string) (map[string]domain.ResponseCounts, error)
}

type responseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository builds repository.
func NewResponseRepository(pool *pgxpool.Pool) ResponseRepository {
	return &responseRepository{pool: pool}
}

const responseColumns = `brr.id, brr.blood_request_id, brr.donor_user_id, brr.status, brr.message,
        brr.response_date, brr.created_at, brr.updated_at`

func (r *responseRepository) Create(ctx context.Context, response *domain.BloodRequestResponse) error {
	const query = `
        INSERT INTO blood_request_responses (blood_request_id, donor_user_id, status, message, response_date)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		response.RequestID,
		response.DonorID,
		response.Status,
		response.Message,
		response.ResponseDate,
	).Scan(&response.ID, &response.CreatedAt, &response.UpdatedAt)
	return mapWriteError(err)
}

func (r *responseRepository) GetByID(ctx context.Context, id string) (*domain.BloodRequestResponse, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + responseColumns + ` FROM blood_request_responses brr WHERE brr.id=$1`
	return scanResponse(r.pool.QueryRow(ctx, query, id))
}

func (r *responseRepository) GetByRequestAndDonor(ctx context.Context, requestID, donorID string) (*domain.BloodRequestResponse, error) {
	if !isUUID(requestID) || !isUUID(donorID) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + responseColumns + `
        FROM blood_request_responses brr WHERE brr.blood_request_id=$1 AND brr.donor_user_id=$2`
	return scanResponse(r.pool.QueryRow(ctx, query, requestID, donorID))
}

func (r *responseRepository) ListWithFilter(ctx context.Context, filter ResponseFilter) ([]domain.BloodRequestResponse, error) {
	from := "blood_request_responses brr"
	clauses := []string{"1=1"}
	args := []any{}

	if filter.HospitalID != nil {
		from += " JOIN blood_requests br ON br.id = brr.blood_request_id"
		args = append(args, *filter.HospitalID)
		clauses = append(clauses, fmt.Sprintf("br.hospital_user_id=$%d", len(args)))
	}
	if filter.RequestID != nil {
		args = append(args, *filter.RequestID)
		clauses = append(clauses, fmt.Sprintf("brr.blood_request_id=$%d", len(args)))
	}
	if filter.DonorID != nil {
		args = append(args, *filter.DonorID)
		clauses = append(clauses, fmt.Sprintf("brr.donor_user_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("brr.status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY brr.created_at ASC LIMIT %d OFFSET %d`,
		responseColumns, from, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BloodRequestResponse
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, rows.Err()
}

func (r *responseRepository) TransitionStatus(ctx context.Context, id string, from, next domain.ResponseStatus, respondedAt *time.Time) error {
	const query = `
        UPDATE blood_request_responses
        SET status=$1, response_date=COALESCE($2, response_date), updated_at=NOW()
        WHERE id=$3 AND status=$4`
	cmd, err := r.pool.Exec(ctx, query, next, respondedAt, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *responseRepository) DeleteIfStatus(ctx context.Context, id string, status domain.ResponseStatus) error {
	const query = `DELETE FROM blood_request_responses WHERE id=$1 AND status=$2`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *responseRepository) CountByRequests(ctx context.Context, requestIDs []string) (map[string]domain.ResponseCounts, error) {
	counts := make(map[string]domain.ResponseCounts, len(requestIDs))
	ids := make([]string, 0, len(requestIDs))
	for _, id := range requestIDs {
		if isUUID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return counts, nil
	}

	const query = `
        SELECT blood_request_id::text,
            COUNT(*),
            COUNT(*) FILTER (WHERE status='PENDING'),
            COUNT(*) FILTER (WHERE status='ACCEPTED')
        FROM blood_request_responses
        WHERE blood_request_id = ANY($1::uuid[])
        GROUP BY blood_request_id`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id string
			c  domain.ResponseCounts
		)
		if err := rows.Scan(&id, &c.Total, &c.Pending, &c.Accepted); err != nil {
			return nil, err
		}
		counts[id] = c
	}
	return counts, rows.Err()
}

func scanResponse(row pgx.Row) (*domain.BloodRequestResponse, error) {
	var resp domain.BloodRequestResponse
	if err := row.Scan(
		&resp.ID,
		&resp.RequestID,
		&resp.DonorID,
		&resp.Status,
		&resp.Message,
		&resp.ResponseDate,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &resp, nil
}
