package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

// GetShift implements shift.ShiftRepository. Days and timings are
// loaded eagerly; shifts are small and read on every punch.
func (r *shiftRepository) GetShift(ctx context.Context, id string) (shift.WorkShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, name, start_time_grace_seconds, end_time_grace_seconds, created_at, updated_at
		FROM work_shifts
		WHERE id = $1
	`

	var ws shift.WorkShift
	var startGrace, endGrace int64
	err := q.QueryRow(ctx, query, id).Scan(
		&ws.ID, &ws.OrganizationID, &ws.Name, &startGrace, &endGrace,
		&ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.WorkShift{}, shift.ErrShiftNotFound
		}
		return shift.WorkShift{}, fmt.Errorf("failed to get work shift: %w", err)
	}
	ws.StartTimeGrace = time.Duration(startGrace) * time.Second
	ws.EndTimeGrace = time.Duration(endGrace) * time.Second

	daysQuery := `
		SELECT id, work_shift_id, day
		FROM work_shift_days
		WHERE work_shift_id = $1
		ORDER BY day
	`

	rows, err := q.Query(ctx, daysQuery, ws.ID)
	if err != nil {
		return shift.WorkShift{}, fmt.Errorf("failed to list shift days: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d shift.WorkShiftDay
		if err := rows.Scan(&d.ID, &d.WorkShiftID, &d.Day); err != nil {
			return shift.WorkShift{}, fmt.Errorf("failed to scan shift day: %w", err)
		}
		ws.Days = append(ws.Days, d)
	}
	if err := rows.Err(); err != nil {
		return shift.WorkShift{}, err
	}

	for i := range ws.Days {
		timings, err := r.listTimings(ctx, ws.Days[i].ID)
		if err != nil {
			return shift.WorkShift{}, err
		}
		ws.Days[i].Timings = timings
	}

	return ws, nil
}

func (r *shiftRepository) listTimings(ctx context.Context, dayID string) ([]shift.WorkTiming, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, work_shift_day_id, start_time_seconds, end_time_seconds, extends, working_minutes
		FROM work_timings
		WHERE work_shift_day_id = $1
		ORDER BY start_time_seconds
	`

	rows, err := q.Query(ctx, query, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work timings: %w", err)
	}
	defer rows.Close()

	var timings []shift.WorkTiming
	for rows.Next() {
		var t shift.WorkTiming
		var start, end int64
		if err := rows.Scan(&t.ID, &t.WorkShiftDayID, &start, &end, &t.Extends, &t.WorkingMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan work timing: %w", err)
		}
		t.StartTime = time.Duration(start) * time.Second
		t.EndTime = time.Duration(end) * time.Second
		timings = append(timings, t)
	}

	return timings, rows.Err()
}

// GetSettingForUser implements shift.ShiftRepository. The newest
// setting whose applicability window covers the date wins.
func (r *shiftRepository) GetSettingForUser(ctx context.Context, userID string, date time.Time) (shift.AttendanceSetting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, organization_id, work_shift_id, working_hours_seconds,
			   overtime_setting_id, credit_hour_setting_id, applicable_from, applicable_to,
			   enable_overtime, enable_credit_hour, require_entry_approval,
			   notify_on_late_in, notify_on_claim_decision, created_at, updated_at
		FROM attendance_settings
		WHERE user_id = $1
		  AND (applicable_from IS NULL OR applicable_from <= $2)
		  AND (applicable_to IS NULL OR applicable_to >= $2)
		ORDER BY applicable_from DESC NULLS LAST
		LIMIT 1
	`

	setting, err := scanSetting(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.AttendanceSetting{}, shift.ErrSettingNotFound
		}
		return shift.AttendanceSetting{}, fmt.Errorf("failed to get attendance setting: %w", err)
	}

	return setting, nil
}

// SaveSetting implements shift.ShiftRepository.
func (r *shiftRepository) SaveSetting(ctx context.Context, setting shift.AttendanceSetting) (shift.AttendanceSetting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_settings (
			id, user_id, organization_id, work_shift_id, working_hours_seconds,
			overtime_setting_id, credit_hour_setting_id, applicable_from, applicable_to,
			enable_overtime, enable_credit_hour, require_entry_approval,
			notify_on_late_in, notify_on_claim_decision
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			work_shift_id = EXCLUDED.work_shift_id,
			working_hours_seconds = EXCLUDED.working_hours_seconds,
			overtime_setting_id = EXCLUDED.overtime_setting_id,
			credit_hour_setting_id = EXCLUDED.credit_hour_setting_id,
			applicable_from = EXCLUDED.applicable_from,
			applicable_to = EXCLUDED.applicable_to,
			enable_overtime = EXCLUDED.enable_overtime,
			enable_credit_hour = EXCLUDED.enable_credit_hour,
			require_entry_approval = EXCLUDED.require_entry_approval,
			notify_on_late_in = EXCLUDED.notify_on_late_in,
			notify_on_claim_decision = EXCLUDED.notify_on_claim_decision,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	var workingHours *int64
	if setting.WorkingHours != nil {
		secs := int64(setting.WorkingHours.Seconds())
		workingHours = &secs
	}

	err := q.QueryRow(ctx, query,
		setting.ID, setting.UserID, setting.OrganizationID, setting.WorkShiftID, workingHours,
		setting.OvertimeSettingID, setting.CreditHourSettingID, setting.ApplicableFrom, setting.ApplicableTo,
		setting.EnableOvertime, setting.EnableCreditHour, setting.RequireEntryApproval,
		setting.NotifyOnLateIn, setting.NotifyOnClaimDecision,
	).Scan(&setting.CreatedAt, &setting.UpdatedAt)
	if err != nil {
		return shift.AttendanceSetting{}, fmt.Errorf("failed to save attendance setting: %w", err)
	}

	return setting, nil
}

func scanSetting(row pgx.Row) (shift.AttendanceSetting, error) {
	var s shift.AttendanceSetting
	var workingHours *int64
	err := row.Scan(
		&s.ID, &s.UserID, &s.OrganizationID, &s.WorkShiftID, &workingHours,
		&s.OvertimeSettingID, &s.CreditHourSettingID, &s.ApplicableFrom, &s.ApplicableTo,
		&s.EnableOvertime, &s.EnableCreditHour, &s.RequireEntryApproval,
		&s.NotifyOnLateIn, &s.NotifyOnClaimDecision, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return shift.AttendanceSetting{}, err
	}
	if workingHours != nil {
		d := time.Duration(*workingHours) * time.Second
		s.WorkingHours = &d
	}
	return s, nil
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}
