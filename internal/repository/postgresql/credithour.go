package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/credithour"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type creditHourRepository struct {
	db *database.DB
}

// GetSetting implements credithour.Repository.
func (r *creditHourRepository) GetSetting(ctx context.Context, id string) (credithour.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, name,
			   daily_limit_applicable, daily_limit_minutes,
			   weekly_limit_applicable, weekly_limit_minutes,
			   monthly_limit_applicable, monthly_limit_minutes,
			   off_day_limit_applicable, off_day_limit_minutes,
			   holiday_limit_applicable, holiday_limit_minutes,
			   leave_limit_applicable, leave_limit_minutes,
			   minimum_request_seconds,
			   reduce_credit_if_actual_lt_approved, allow_edit_of_approved,
			   credit_expires, expires_after, expires_after_unit,
			   overtime_setting_id, created_at, updated_at
		FROM credit_hour_settings
		WHERE id = $1
	`

	var s credithour.Setting
	var minSecs int64
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.OrganizationID, &s.Name,
		&s.DailyLimitApplicable, &s.DailyLimitMinutes,
		&s.WeeklyLimitApplicable, &s.WeeklyLimitMinutes,
		&s.MonthlyLimitApplicable, &s.MonthlyLimitMinutes,
		&s.OffDayLimitApplicable, &s.OffDayLimitMinutes,
		&s.HolidayLimitApplicable, &s.HolidayLimitMinutes,
		&s.LeaveLimitApplicable, &s.LeaveLimitMinutes,
		&minSecs,
		&s.ReduceCreditIfActualLTApproved, &s.AllowEditOfApproved,
		&s.CreditExpires, &s.ExpiresAfter, &s.ExpiresAfterUnit,
		&s.OvertimeSettingID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return credithour.Setting{}, credithour.ErrSettingNotFound
		}
		return credithour.Setting{}, fmt.Errorf("failed to get credit hour setting: %w", err)
	}
	s.MinimumRequestDuration = time.Duration(minSecs) * time.Second

	return s, nil
}

const creditRequestColumns = `id, sender_id, recipient_id, status, lifecycle, date, duration_seconds,
		remarks, credit_entry_id, grant_status, travel_day_id, created_at, updated_at`

func scanCreditRequest(row pgx.Row) (credithour.Request, error) {
	var req credithour.Request
	var durSecs int64
	err := row.Scan(
		&req.ID, &req.Sender, &req.Recipient, &req.Status, &req.Lifecycle,
		&req.Date, &durSecs, &req.Remarks, &req.CreditEntryID,
		&req.GrantStatus, &req.TravelDayID, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return credithour.Request{}, err
	}
	req.Duration = time.Duration(durSecs) * time.Second
	return req, nil
}

// CreateRequest implements credithour.Repository.
func (r *creditHourRepository) CreateRequest(ctx context.Context, req credithour.Request) (credithour.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO credit_hour_requests (
			id, sender_id, recipient_id, status, lifecycle, date, duration_seconds,
			remarks, grant_status, travel_day_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.Sender, req.Recipient, req.Status, req.Lifecycle,
		req.Date, int64(req.Duration.Seconds()), req.Remarks, req.GrantStatus, req.TravelDayID,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return credithour.Request{}, fmt.Errorf("failed to create credit hour request: %w", err)
	}

	return req, nil
}

// UpdateRequest implements credithour.Repository.
func (r *creditHourRepository) UpdateRequest(ctx context.Context, req credithour.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE credit_hour_requests SET
			recipient_id = $2, status = $3, lifecycle = $4, duration_seconds = $5,
			remarks = $6, credit_entry_id = $7, grant_status = $8, updated_at = NOW()
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query,
		req.ID, req.Recipient, req.Status, req.Lifecycle, int64(req.Duration.Seconds()),
		req.Remarks, req.CreditEntryID, req.GrantStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update credit hour request: %w", err)
	}

	return nil
}

// GetRequest implements credithour.Repository.
func (r *creditHourRepository) GetRequest(ctx context.Context, id string) (credithour.Request, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanCreditRequest(q.QueryRow(ctx,
		`SELECT `+creditRequestColumns+` FROM credit_hour_requests WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return credithour.Request{}, credithour.ErrRequestNotFound
		}
		return credithour.Request{}, fmt.Errorf("failed to get credit hour request: %w", err)
	}

	return req, nil
}

// GetOpenRequest implements credithour.Repository.
func (r *creditHourRepository) GetOpenRequest(ctx context.Context, senderID string, date time.Time) (*credithour.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + creditRequestColumns + `
		FROM credit_hour_requests
		WHERE sender_id = $1 AND date = $2
		  AND lifecycle <> 'Deleted'
		  AND status NOT IN ('Declined', 'Cancelled')
		ORDER BY created_at DESC
		LIMIT 1
	`

	req, err := scanCreditRequest(q.QueryRow(ctx, query, senderID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open credit hour request: %w", err)
	}

	return &req, nil
}

// ListUngranted implements credithour.Repository.
func (r *creditHourRepository) ListUngranted(ctx context.Context) ([]credithour.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + creditRequestColumns + `
		FROM credit_hour_requests
		WHERE status IN ('Approved', 'Confirmed')
		  AND lifecycle <> 'Deleted'
		  AND credit_entry_id IS NULL
		ORDER BY date
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ungranted requests: %w", err)
	}
	defer rows.Close()

	var requests []credithour.Request
	for rows.Next() {
		req, err := scanCreditRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit hour request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// CreateRequestHistory implements credithour.Repository.
func (r *creditHourRepository) CreateRequestHistory(ctx context.Context, history credithour.History) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO credit_hour_request_histories (id, request_id, actor_id, recipient_id, action, remark)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		history.ID, history.RequestID, history.ActorID, history.RecipientID, history.Action, history.Remark)
	if err != nil {
		return fmt.Errorf("failed to create request history: %w", err)
	}

	return nil
}

// ListRequestHistories implements credithour.Repository.
func (r *creditHourRepository) ListRequestHistories(ctx context.Context, requestID string) ([]credithour.History, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, request_id, actor_id, recipient_id, action, remark, created_at
		FROM credit_hour_request_histories
		WHERE request_id = $1
		ORDER BY created_at
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list request histories: %w", err)
	}
	defer rows.Close()

	var histories []credithour.History
	for rows.Next() {
		var h credithour.History
		if err := rows.Scan(&h.ID, &h.RequestID, &h.ActorID, &h.RecipientID, &h.Action, &h.Remark, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request history: %w", err)
		}
		histories = append(histories, h)
	}

	return histories, rows.Err()
}

// CreateEntry implements credithour.Repository.
func (r *creditHourRepository) CreateEntry(ctx context.Context, entry credithour.TimeSheetEntry) (credithour.TimeSheetEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO credit_hour_entries (id, timesheet_id, setting_id, request_id, earned_seconds, consumed_seconds, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID, entry.TimeSheetID, entry.SettingID, entry.RequestID,
		int64(entry.Earned.Seconds()), int64(entry.Consumed.Seconds()), entry.Status,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return credithour.TimeSheetEntry{}, fmt.Errorf("failed to create credit hour entry: %w", err)
	}

	return entry, nil
}

// UpdateEntry implements credithour.Repository.
func (r *creditHourRepository) UpdateEntry(ctx context.Context, entry credithour.TimeSheetEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE credit_hour_entries SET
			earned_seconds = $2, consumed_seconds = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query,
		entry.ID, int64(entry.Earned.Seconds()), int64(entry.Consumed.Seconds()), entry.Status)
	if err != nil {
		return fmt.Errorf("failed to update credit hour entry: %w", err)
	}

	return nil
}

// GetEntry implements credithour.Repository.
func (r *creditHourRepository) GetEntry(ctx context.Context, id string) (credithour.TimeSheetEntry, error) {
	q := GetQuerier(ctx, r.db)

	var e credithour.TimeSheetEntry
	var earned, consumed int64
	err := q.QueryRow(ctx, `
		SELECT id, timesheet_id, setting_id, request_id, earned_seconds, consumed_seconds, status,
			   created_at, updated_at
		FROM credit_hour_entries
		WHERE id = $1
	`, id).Scan(&e.ID, &e.TimeSheetID, &e.SettingID, &e.RequestID, &earned, &consumed, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return credithour.TimeSheetEntry{}, credithour.ErrEntryNotFound
		}
		return credithour.TimeSheetEntry{}, fmt.Errorf("failed to get credit hour entry: %w", err)
	}
	e.Earned = time.Duration(earned) * time.Second
	e.Consumed = time.Duration(consumed) * time.Second

	return e, nil
}

// CreateDeleteRequest implements credithour.Repository.
func (r *creditHourRepository) CreateDeleteRequest(ctx context.Context, req credithour.DeleteRequest) (credithour.DeleteRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO credit_hour_delete_requests (id, request_id, sender_id, recipient_id, status, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.RequestRef, req.Sender, req.Recipient, req.Status, req.Remarks,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return credithour.DeleteRequest{}, fmt.Errorf("failed to create delete request: %w", err)
	}

	return req, nil
}

// UpdateDeleteRequest implements credithour.Repository.
func (r *creditHourRepository) UpdateDeleteRequest(ctx context.Context, req credithour.DeleteRequest) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE credit_hour_delete_requests SET
			recipient_id = $2, status = $3, remarks = $4, updated_at = NOW()
		WHERE id = $1
	`, req.ID, req.Recipient, req.Status, req.Remarks)
	if err != nil {
		return fmt.Errorf("failed to update delete request: %w", err)
	}

	return nil
}

// GetDeleteRequest implements credithour.Repository.
func (r *creditHourRepository) GetDeleteRequest(ctx context.Context, id string) (credithour.DeleteRequest, error) {
	q := GetQuerier(ctx, r.db)

	var req credithour.DeleteRequest
	err := q.QueryRow(ctx, `
		SELECT id, request_id, sender_id, recipient_id, status, remarks, created_at, updated_at
		FROM credit_hour_delete_requests
		WHERE id = $1
	`, id).Scan(&req.ID, &req.RequestRef, &req.Sender, &req.Recipient, &req.Status, &req.Remarks, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return credithour.DeleteRequest{}, credithour.ErrRequestNotFound
		}
		return credithour.DeleteRequest{}, fmt.Errorf("failed to get delete request: %w", err)
	}

	return req, nil
}

// GetOpenDeleteRequest implements credithour.Repository.
func (r *creditHourRepository) GetOpenDeleteRequest(ctx context.Context, requestID string) (*credithour.DeleteRequest, error) {
	q := GetQuerier(ctx, r.db)

	var req credithour.DeleteRequest
	err := q.QueryRow(ctx, `
		SELECT id, request_id, sender_id, recipient_id, status, remarks, created_at, updated_at
		FROM credit_hour_delete_requests
		WHERE request_id = $1
		  AND status NOT IN ('Declined', 'Cancelled')
		ORDER BY created_at DESC
		LIMIT 1
	`, requestID).Scan(&req.ID, &req.RequestRef, &req.Sender, &req.Recipient, &req.Status, &req.Remarks, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open delete request: %w", err)
	}

	return &req, nil
}

// CreateDeleteRequestHistory implements credithour.Repository.
func (r *creditHourRepository) CreateDeleteRequestHistory(ctx context.Context, history credithour.History) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO credit_hour_delete_request_histories (id, request_id, actor_id, recipient_id, action, remark)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		history.ID, history.RequestID, history.ActorID, history.RecipientID, history.Action, history.Remark)
	if err != nil {
		return fmt.Errorf("failed to create delete request history: %w", err)
	}

	return nil
}

// SumWindow implements credithour.Repository.
func (r *creditHourRepository) SumWindow(ctx context.Context, senderID string, from, to time.Time, excludeID string) (time.Duration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(
			CASE WHEN e.id IS NOT NULL THEN e.earned_seconds
			     ELSE r.duration_seconds END
		), 0)
		FROM credit_hour_requests r
		LEFT JOIN credit_hour_entries e ON e.id = r.credit_entry_id
		WHERE r.sender_id = $1
		  AND r.date BETWEEN $2 AND $3
		  AND r.lifecycle <> 'Deleted'
		  AND r.status NOT IN ('Declined', 'Cancelled')
		  AND ($4 = '' OR r.id <> $4)
	`

	var totalSecs int64
	if err := q.QueryRow(ctx, query, senderID, from, to, excludeID).Scan(&totalSecs); err != nil {
		return 0, fmt.Errorf("failed to sum credit hour window: %w", err)
	}

	return time.Duration(totalSecs) * time.Second, nil
}

func NewCreditHourRepository(db *database.DB) credithour.Repository {
	return &creditHourRepository{db: db}
}
