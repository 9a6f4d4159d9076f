package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/travel"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type travelRepository struct {
	db *database.DB
}

const travelRequestColumns = `id, sender_id, recipient_id, status, lifecycle, start_date, end_date,
		start_time_seconds, end_time_seconds, location, remarks, working_remotely,
		request_credit_hours, credit_duration_seconds, created_at, updated_at`

func scanTravelRequest(row pgx.Row) (travel.Request, error) {
	var req travel.Request
	var startSecs, endSecs, creditSecs int64
	err := row.Scan(
		&req.ID, &req.Sender, &req.Recipient, &req.Status, &req.Lifecycle,
		&req.StartDate, &req.EndDate, &startSecs, &endSecs,
		&req.Location, &req.Remarks, &req.WorkingRemotely,
		&req.RequestCreditHours, &creditSecs, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return travel.Request{}, err
	}
	req.StartTime = time.Duration(startSecs) * time.Second
	req.EndTime = time.Duration(endSecs) * time.Second
	req.CreditDuration = time.Duration(creditSecs) * time.Second
	return req, nil
}

// CreateRequest implements travel.Repository.
func (r *travelRepository) CreateRequest(ctx context.Context, req travel.Request) (travel.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO travel_requests (
			id, sender_id, recipient_id, status, lifecycle, start_date, end_date,
			start_time_seconds, end_time_seconds, location, remarks, working_remotely,
			request_credit_hours, credit_duration_seconds
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.Sender, req.Recipient, req.Status, req.Lifecycle,
		req.StartDate, req.EndDate,
		int64(req.StartTime.Seconds()), int64(req.EndTime.Seconds()),
		req.Location, req.Remarks, req.WorkingRemotely,
		req.RequestCreditHours, int64(req.CreditDuration.Seconds()),
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return travel.Request{}, fmt.Errorf("failed to create travel request: %w", err)
	}

	return req, nil
}

// UpdateRequest implements travel.Repository.
func (r *travelRepository) UpdateRequest(ctx context.Context, req travel.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE travel_requests SET
			recipient_id = $2, status = $3, lifecycle = $4, location = $5,
			remarks = $6, updated_at = NOW()
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query,
		req.ID, req.Recipient, req.Status, req.Lifecycle, req.Location, req.Remarks)
	if err != nil {
		return fmt.Errorf("failed to update travel request: %w", err)
	}

	return nil
}

// GetRequest implements travel.Repository.
func (r *travelRepository) GetRequest(ctx context.Context, id string) (travel.Request, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanTravelRequest(q.QueryRow(ctx,
		`SELECT `+travelRequestColumns+` FROM travel_requests WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return travel.Request{}, travel.ErrRequestNotFound
		}
		return travel.Request{}, fmt.Errorf("failed to get travel request: %w", err)
	}

	return req, nil
}

// GetOverlappingOpen implements travel.Repository.
func (r *travelRepository) GetOverlappingOpen(ctx context.Context, senderID string, start, end time.Time) (*travel.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + travelRequestColumns + `
		FROM travel_requests
		WHERE sender_id = $1
		  AND lifecycle <> 'Deleted'
		  AND status NOT IN ('Declined', 'Cancelled')
		  AND start_date <= $3 AND end_date >= $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	req, err := scanTravelRequest(q.QueryRow(ctx, query, senderID, start, end))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get overlapping travel request: %w", err)
	}

	return &req, nil
}

// CreateRequestHistory implements travel.Repository.
func (r *travelRepository) CreateRequestHistory(ctx context.Context, history travel.History) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO travel_request_histories (id, request_id, actor_id, recipient_id, action, remark)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		history.ID, history.RequestID, history.ActorID, history.RecipientID, history.Action, history.Remark)
	if err != nil {
		return fmt.Errorf("failed to create travel request history: %w", err)
	}

	return nil
}

// ListWithUnprocessedDays implements travel.Repository.
func (r *travelRepository) ListWithUnprocessedDays(ctx context.Context, until time.Time) ([]travel.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT r.id, r.sender_id, r.recipient_id, r.status, r.lifecycle,
			   r.start_date, r.end_date, r.start_time_seconds, r.end_time_seconds,
			   r.location, r.remarks, r.working_remotely,
			   r.request_credit_hours, r.credit_duration_seconds, r.created_at, r.updated_at
		FROM travel_requests r
		JOIN travel_days d ON d.request_id = r.id
		WHERE r.lifecycle <> 'Deleted'
		  AND r.status IN ('Approved', 'Confirmed')
		  AND NOT d.is_processed
		  AND d.date <= $1
	`

	rows, err := q.Query(ctx, query, until)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel requests with unprocessed days: %w", err)
	}
	defer rows.Close()

	var requests []travel.Request
	for rows.Next() {
		req, err := scanTravelRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan travel request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// CreateDay implements travel.Repository.
func (r *travelRepository) CreateDay(ctx context.Context, day travel.Day) (travel.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO travel_days (id, request_id, date, timesheet_id, is_processed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.ID, day.RequestID, day.Date, day.TimeSheetID, day.IsProcessed,
	).Scan(&day.CreatedAt, &day.UpdatedAt)
	if err != nil {
		return travel.Day{}, fmt.Errorf("failed to create travel day: %w", err)
	}

	return day, nil
}

// UpdateDay implements travel.Repository.
func (r *travelRepository) UpdateDay(ctx context.Context, day travel.Day) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE travel_days SET timesheet_id = $2, is_processed = $3, updated_at = NOW()
		WHERE id = $1
	`, day.ID, day.TimeSheetID, day.IsProcessed)
	if err != nil {
		return fmt.Errorf("failed to update travel day: %w", err)
	}

	return nil
}

// ListDays implements travel.Repository.
func (r *travelRepository) ListDays(ctx context.Context, requestID string) ([]travel.Day, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, request_id, date, timesheet_id, is_processed, created_at, updated_at
		FROM travel_days
		WHERE request_id = $1
		ORDER BY date
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel days: %w", err)
	}
	defer rows.Close()

	var days []travel.Day
	for rows.Next() {
		var d travel.Day
		if err := rows.Scan(&d.ID, &d.RequestID, &d.Date, &d.TimeSheetID, &d.IsProcessed, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan travel day: %w", err)
		}
		days = append(days, d)
	}

	return days, rows.Err()
}

// DeleteDay implements travel.Repository.
func (r *travelRepository) DeleteDay(ctx context.Context, dayID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM travel_days WHERE id = $1`, dayID); err != nil {
		return fmt.Errorf("failed to delete travel day: %w", err)
	}

	return nil
}

// CreateDeleteRequest implements travel.Repository.
func (r *travelRepository) CreateDeleteRequest(ctx context.Context, req travel.DeleteRequest) (travel.DeleteRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO travel_delete_requests (id, request_id, sender_id, recipient_id, status, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.RequestRef, req.Sender, req.Recipient, req.Status, req.Remarks,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return travel.DeleteRequest{}, fmt.Errorf("failed to create travel delete request: %w", err)
	}

	return req, nil
}

// UpdateDeleteRequest implements travel.Repository.
func (r *travelRepository) UpdateDeleteRequest(ctx context.Context, req travel.DeleteRequest) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE travel_delete_requests SET
			recipient_id = $2, status = $3, remarks = $4, updated_at = NOW()
		WHERE id = $1
	`, req.ID, req.Recipient, req.Status, req.Remarks)
	if err != nil {
		return fmt.Errorf("failed to update travel delete request: %w", err)
	}

	return nil
}

// GetDeleteRequest implements travel.Repository.
func (r *travelRepository) GetDeleteRequest(ctx context.Context, id string) (travel.DeleteRequest, error) {
	q := GetQuerier(ctx, r.db)

	var req travel.DeleteRequest
	err := q.QueryRow(ctx, `
		SELECT id, request_id, sender_id, recipient_id, status, remarks, created_at, updated_at
		FROM travel_delete_requests
		WHERE id = $1
	`, id).Scan(&req.ID, &req.RequestRef, &req.Sender, &req.Recipient, &req.Status, &req.Remarks, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return travel.DeleteRequest{}, travel.ErrRequestNotFound
		}
		return travel.DeleteRequest{}, fmt.Errorf("failed to get travel delete request: %w", err)
	}

	return req, nil
}

// GetOpenDeleteRequest implements travel.Repository.
func (r *travelRepository) GetOpenDeleteRequest(ctx context.Context, requestID string) (*travel.DeleteRequest, error) {
	q := GetQuerier(ctx, r.db)

	var req travel.DeleteRequest
	err := q.QueryRow(ctx, `
		SELECT id, request_id, sender_id, recipient_id, status, remarks, created_at, updated_at
		FROM travel_delete_requests
		WHERE request_id = $1
		  AND status NOT IN ('Declined', 'Cancelled')
		ORDER BY created_at DESC
		LIMIT 1
	`, requestID).Scan(&req.ID, &req.RequestRef, &req.Sender, &req.Recipient, &req.Status, &req.Remarks, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open travel delete request: %w", err)
	}

	return &req, nil
}

// CreateDeleteRequestHistory implements travel.Repository.
func (r *travelRepository) CreateDeleteRequestHistory(ctx context.Context, history travel.History) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO travel_delete_request_histories (id, request_id, actor_id, recipient_id, action, remark)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		history.ID, history.RequestID, history.ActorID, history.RecipientID, history.Action, history.Remark)
	if err != nil {
		return fmt.Errorf("failed to create travel delete request history: %w", err)
	}

	return nil
}

func NewTravelRepository(db *database.DB) travel.Repository {
	return &travelRepository{db: db}
}
