package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type timeSheetRepository struct {
	db *database.DB
}

const timeSheetColumns = `
	id, user_id, work_shift_id, work_timing_id, date,
	expected_punch_in, expected_punch_out, punch_in, punch_out,
	punch_in_delta_seconds, punch_out_delta_seconds,
	worked_seconds, unpaid_break_seconds,
	coefficient, leave_coefficient, punctuality, is_present, working_remotely,
	created_at, updated_at`

// Upsert implements timesheet.TimeSheetRepository. The (user_id, date,
// work_timing_id) key keeps one record per user per day per timing.
func (r *timeSheetRepository) Upsert(ctx context.Context, ts timesheet.TimeSheet) (timesheet.TimeSheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheets (
			id, user_id, work_shift_id, work_timing_id, date,
			expected_punch_in, expected_punch_out, punch_in, punch_out,
			punch_in_delta_seconds, punch_out_delta_seconds,
			worked_seconds, unpaid_break_seconds,
			coefficient, leave_coefficient, punctuality, is_present, working_remotely
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (user_id, date) DO UPDATE SET
			work_shift_id = EXCLUDED.work_shift_id,
			work_timing_id = EXCLUDED.work_timing_id,
			expected_punch_in = EXCLUDED.expected_punch_in,
			expected_punch_out = EXCLUDED.expected_punch_out,
			coefficient = EXCLUDED.coefficient,
			leave_coefficient = EXCLUDED.leave_coefficient,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ts.ID, ts.UserID, ts.WorkShiftID, ts.WorkTimingID, ts.Date,
		ts.ExpectedPunchIn, ts.ExpectedPunchOut, ts.PunchIn, ts.PunchOut,
		durationSecs(ts.PunchInDelta), durationSecs(ts.PunchOutDelta),
		int64(ts.WorkedHours.Seconds()), int64(ts.UnpaidBreakHours.Seconds()),
		ts.Coefficient, ts.LeaveCoefficient, ts.Punctuality, ts.IsPresent, ts.WorkingRemotely,
	).Scan(&ts.ID, &ts.CreatedAt, &ts.UpdatedAt)
	if err != nil {
		return timesheet.TimeSheet{}, fmt.Errorf("failed to upsert timesheet: %w", err)
	}

	return ts, nil
}

// Update implements timesheet.TimeSheetRepository.
func (r *timeSheetRepository) Update(ctx context.Context, ts timesheet.TimeSheet) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets SET
			punch_in = $2, punch_out = $3,
			punch_in_delta_seconds = $4, punch_out_delta_seconds = $5,
			worked_seconds = $6, unpaid_break_seconds = $7,
			coefficient = $8, leave_coefficient = $9, punctuality = $10,
			is_present = $11, working_remotely = $12, updated_at = NOW()
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query,
		ts.ID, ts.PunchIn, ts.PunchOut,
		durationSecs(ts.PunchInDelta), durationSecs(ts.PunchOutDelta),
		int64(ts.WorkedHours.Seconds()), int64(ts.UnpaidBreakHours.Seconds()),
		ts.Coefficient, ts.LeaveCoefficient, ts.Punctuality,
		ts.IsPresent, ts.WorkingRemotely,
	)
	if err != nil {
		return fmt.Errorf("failed to update timesheet: %w", err)
	}

	return nil
}

// GetByID implements timesheet.TimeSheetRepository.
func (r *timeSheetRepository) GetByID(ctx context.Context, id string) (timesheet.TimeSheet, error) {
	q := GetQuerier(ctx, r.db)

	ts, err := scanTimeSheet(q.QueryRow(ctx,
		`SELECT `+timeSheetColumns+` FROM timesheets WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.TimeSheet{}, timesheet.ErrTimeSheetNotFound
		}
		return timesheet.TimeSheet{}, fmt.Errorf("failed to get timesheet: %w", err)
	}

	return ts, nil
}

// GetByUserAndDate implements timesheet.TimeSheetRepository.
func (r *timeSheetRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*timesheet.TimeSheet, error) {
	q := GetQuerier(ctx, r.db)

	ts, err := scanTimeSheet(q.QueryRow(ctx,
		`SELECT `+timeSheetColumns+` FROM timesheets WHERE user_id = $1 AND date = $2`, userID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get timesheet by date: %w", err)
	}

	return &ts, nil
}

// ListByUserAndRange implements timesheet.TimeSheetRepository.
func (r *timeSheetRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]timesheet.TimeSheet, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT `+timeSheetColumns+` FROM timesheets WHERE user_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date`,
		userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	defer rows.Close()

	return collectTimeSheets(rows)
}

// ListPresentForDate implements timesheet.TimeSheetRepository.
func (r *timeSheetRepository) ListPresentForDate(ctx context.Context, date time.Time) ([]timesheet.TimeSheet, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT `+timeSheetColumns+` FROM timesheets WHERE date = $1 AND is_present ORDER BY user_id`,
		date)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets for date: %w", err)
	}
	defer rows.Close()

	return collectTimeSheets(rows)
}

// CreateEntry implements timesheet.TimeSheetRepository. A unique index
// on (timesheet_id, timestamp) surfaces timestamp collisions as
// ErrDuplicateEntry.
func (r *timeSheetRepository) CreateEntry(ctx context.Context, entry timesheet.TimeSheetEntry) (timesheet.TimeSheetEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheet_entries (
			id, timesheet_id, timestamp, entry_type, entry_method,
			category, remark_category, latitude, longitude, is_deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID, entry.TimeSheetID, entry.Timestamp, entry.EntryType, entry.EntryMethod,
		entry.Category, entry.RemarkCategory, entry.Latitude, entry.Longitude, entry.IsDeleted,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return timesheet.TimeSheetEntry{}, timesheet.ErrDuplicateEntry
		}
		return timesheet.TimeSheetEntry{}, fmt.Errorf("failed to create entry: %w", err)
	}

	return entry, nil
}

// UpdateEntry implements timesheet.TimeSheetRepository.
func (r *timeSheetRepository) UpdateEntry(ctx context.Context, entry timesheet.TimeSheetEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheet_entries SET
			entry_type = $2, category = $3, remark_category = $4, is_deleted = $5, updated_at = NOW()
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query,
		entry.ID, entry.EntryType, entry.Category, entry.RemarkCategory, entry.IsDeleted)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	return nil
}

// DeleteEntriesAt implements timesheet.TimeSheetRepository. Hard delete
// used when a recorded punch is replaced at the same instant.
func (r *timeSheetRepository) DeleteEntriesAt(ctx context.Context, timeSheetID string, timestamp time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx,
		`DELETE FROM timesheet_entries WHERE timesheet_id = $1 AND timestamp = $2`,
		timeSheetID, timestamp)
	if err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}

	return nil
}

// ListEntries implements timesheet.TimeSheetRepository.
func (r *timeSheetRepository) ListEntries(ctx context.Context, timeSheetID string) ([]timesheet.TimeSheetEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, timesheet_id, timestamp, entry_type, entry_method,
			   category, remark_category, latitude, longitude, is_deleted,
			   created_at, updated_at
		FROM timesheet_entries
		WHERE timesheet_id = $1
		ORDER BY timestamp
	`

	rows, err := q.Query(ctx, query, timeSheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.TimeSheetEntry
	for rows.Next() {
		var e timesheet.TimeSheetEntry
		if err := rows.Scan(
			&e.ID, &e.TimeSheetID, &e.Timestamp, &e.EntryType, &e.EntryMethod,
			&e.Category, &e.RemarkCategory, &e.Latitude, &e.Longitude, &e.IsDeleted,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CreateEntryApproval implements timesheet.TimeSheetRepository.
func (r *timeSheetRepository) CreateEntryApproval(ctx context.Context, approval timesheet.TimeSheetEntryApproval) (timesheet.TimeSheetEntryApproval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheet_entry_approvals (
			id, timesheet_id, sender_id, recipient_id, timestamp, entry_method, status, remarks
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		approval.ID, approval.TimeSheetID, approval.SenderID, approval.RecipientID,
		approval.Timestamp, approval.EntryMethod, approval.Status, approval.Remarks,
	).Scan(&approval.CreatedAt, &approval.UpdatedAt)
	if err != nil {
		return timesheet.TimeSheetEntryApproval{}, fmt.Errorf("failed to create entry approval: %w", err)
	}

	return approval, nil
}

// GetEntryApproval implements timesheet.TimeSheetRepository.
func (r *timeSheetRepository) GetEntryApproval(ctx context.Context, id string) (timesheet.TimeSheetEntryApproval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, timesheet_id, sender_id, recipient_id, timestamp, entry_method, status, remarks,
			   created_at, updated_at
		FROM timesheet_entry_approvals
		WHERE id = $1
	`

	var a timesheet.TimeSheetEntryApproval
	err := q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.TimeSheetID, &a.SenderID, &a.RecipientID, &a.Timestamp,
		&a.EntryMethod, &a.Status, &a.Remarks, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.TimeSheetEntryApproval{}, timesheet.ErrApprovalNotFound
		}
		return timesheet.TimeSheetEntryApproval{}, fmt.Errorf("failed to get entry approval: %w", err)
	}

	return a, nil
}

// UpdateEntryApproval implements timesheet.TimeSheetRepository.
func (r *timeSheetRepository) UpdateEntryApproval(ctx context.Context, approval timesheet.TimeSheetEntryApproval) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx,
		`UPDATE timesheet_entry_approvals SET status = $2, remarks = $3, updated_at = NOW() WHERE id = $1`,
		approval.ID, approval.Status, approval.Remarks)
	if err != nil {
		return fmt.Errorf("failed to update entry approval: %w", err)
	}

	return nil
}

func scanTimeSheet(row pgx.Row) (timesheet.TimeSheet, error) {
	var ts timesheet.TimeSheet
	var punchInDelta, punchOutDelta *int64
	var workedSecs, unpaidSecs int64
	err := row.Scan(
		&ts.ID, &ts.UserID, &ts.WorkShiftID, &ts.WorkTimingID, &ts.Date,
		&ts.ExpectedPunchIn, &ts.ExpectedPunchOut, &ts.PunchIn, &ts.PunchOut,
		&punchInDelta, &punchOutDelta,
		&workedSecs, &unpaidSecs,
		&ts.Coefficient, &ts.LeaveCoefficient, &ts.Punctuality, &ts.IsPresent, &ts.WorkingRemotely,
		&ts.CreatedAt, &ts.UpdatedAt,
	)
	if err != nil {
		return timesheet.TimeSheet{}, err
	}
	ts.PunchInDelta = secsDuration(punchInDelta)
	ts.PunchOutDelta = secsDuration(punchOutDelta)
	ts.WorkedHours = time.Duration(workedSecs) * time.Second
	ts.UnpaidBreakHours = time.Duration(unpaidSecs) * time.Second
	return ts, nil
}

func collectTimeSheets(rows pgx.Rows) ([]timesheet.TimeSheet, error) {
	var sheets []timesheet.TimeSheet
	for rows.Next() {
		ts, err := scanTimeSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		sheets = append(sheets, ts)
	}
	return sheets, rows.Err()
}

func durationSecs(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	secs := int64(d.Seconds())
	return &secs
}

func secsDuration(secs *int64) *time.Duration {
	if secs == nil {
		return nil
	}
	d := time.Duration(*secs) * time.Second
	return &d
}

func NewTimeSheetRepository(db *database.DB) timesheet.TimeSheetRepository {
	return &timeSheetRepository{db: db}
}
