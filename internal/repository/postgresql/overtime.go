package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type overtimeRepository struct {
	db *database.DB
}

// GetSetting implements overtime.Repository. Rate tiers load eagerly;
// every computation needs them.
func (r *overtimeRepository) GetSetting(ctx context.Context, id string) (overtime.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, name,
			   daily_limit_applicable, daily_limit_minutes,
			   weekly_limit_applicable, weekly_limit_minutes,
			   monthly_limit_applicable, monthly_limit_minutes,
			   off_day_limit_applicable, off_day_limit_minutes,
			   holiday_limit_applicable, holiday_limit_minutes,
			   leave_limit_applicable, leave_limit_minutes,
			   applicable_before, applicable_after, tolerance_policy,
			   deduct_tolerance_for, minimum_request_minutes,
			   flat_reject_minutes, overtime_after_offday, overtime_after_holiday,
			   require_dedicated_work_time, paid_unpaid_breaks,
			   claim_expires, expires_after, expires_after_unit,
			   require_prior_approval, require_post_approval_of_pre_approved,
			   reduce_ot_if_actual_lt_approved, actual_ot_if_actual_gt_approved,
			   allow_edit_of_pre_approved_overtime,
			   calculate_overtime_in_slots, slot_duration_seconds, slot_rounding,
			   created_at, updated_at
		FROM overtime_settings
		WHERE id = $1
	`

	var s overtime.Setting
	var slotSecs int64
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.OrganizationID, &s.Name,
		&s.DailyLimitApplicable, &s.DailyLimitMinutes,
		&s.WeeklyLimitApplicable, &s.WeeklyLimitMinutes,
		&s.MonthlyLimitApplicable, &s.MonthlyLimitMinutes,
		&s.OffDayLimitApplicable, &s.OffDayLimitMinutes,
		&s.HolidayLimitApplicable, &s.HolidayLimitMinutes,
		&s.LeaveLimitApplicable, &s.LeaveLimitMinutes,
		&s.ApplicableBefore, &s.ApplicableAfter, &s.TolerancePolicy,
		&s.DeductToleranceFor, &s.MinimumRequestMinutes,
		&s.FlatRejectMinutes, &s.OvertimeAfterOffday, &s.OvertimeAfterHoliday,
		&s.RequireDedicatedWorkTime, &s.PaidUnpaidBreaks,
		&s.ClaimExpires, &s.ExpiresAfter, &s.ExpiresAfterUnit,
		&s.RequirePriorApproval, &s.RequirePostApprovalOfPreApproved,
		&s.ReduceOTIfActualLTApproved, &s.ActualOTIfActualGTApproved,
		&s.AllowEditOfPreApprovedOvertime,
		&s.CalculateOvertimeInSlots, &slotSecs, &s.SlotRounding,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return overtime.Setting{}, overtime.ErrSettingNotFound
		}
		return overtime.Setting{}, fmt.Errorf("failed to get overtime setting: %w", err)
	}
	s.SlotDuration = time.Duration(slotSecs) * time.Second

	ratesQuery := `
		SELECT id, setting_id, overtime_after, rate, day_type
		FROM overtime_rates
		WHERE setting_id = $1
		ORDER BY day_type, overtime_after
	`

	rows, err := q.Query(ctx, ratesQuery, s.ID)
	if err != nil {
		return overtime.Setting{}, fmt.Errorf("failed to list overtime rates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rate overtime.Rate
		if err := rows.Scan(&rate.ID, &rate.SettingID, &rate.OvertimeAfter, &rate.Rate, &rate.DayType); err != nil {
			return overtime.Setting{}, fmt.Errorf("failed to scan overtime rate: %w", err)
		}
		s.Rates = append(s.Rates, rate)
	}

	return s, rows.Err()
}

// CreateEntry implements overtime.Repository.
func (r *overtimeRepository) CreateEntry(ctx context.Context, entry overtime.Entry) (overtime.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_entries (id, user_id, timesheet_id, setting_id, pre_approval_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.TimeSheetID, entry.SettingID, entry.PreApprovalID,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return overtime.Entry{}, fmt.Errorf("failed to create overtime entry: %w", err)
	}

	return entry, nil
}

// GetEntryByID implements overtime.Repository.
func (r *overtimeRepository) GetEntryByID(ctx context.Context, id string) (overtime.Entry, error) {
	q := GetQuerier(ctx, r.db)

	var e overtime.Entry
	err := q.QueryRow(ctx, `
		SELECT id, user_id, timesheet_id, setting_id, pre_approval_id, created_at, updated_at
		FROM overtime_entries
		WHERE id = $1
	`, id).Scan(&e.ID, &e.UserID, &e.TimeSheetID, &e.SettingID, &e.PreApprovalID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return overtime.Entry{}, overtime.ErrEntryNotFound
		}
		return overtime.Entry{}, fmt.Errorf("failed to get overtime entry: %w", err)
	}

	return e, nil
}

// GetEntryByTimeSheet implements overtime.Repository.
func (r *overtimeRepository) GetEntryByTimeSheet(ctx context.Context, timeSheetID string) (*overtime.Entry, error) {
	q := GetQuerier(ctx, r.db)

	var e overtime.Entry
	err := q.QueryRow(ctx, `
		SELECT id, user_id, timesheet_id, setting_id, pre_approval_id, created_at, updated_at
		FROM overtime_entries
		WHERE timesheet_id = $1
	`, timeSheetID).Scan(&e.ID, &e.UserID, &e.TimeSheetID, &e.SettingID, &e.PreApprovalID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get overtime entry by timesheet: %w", err)
	}

	return &e, nil
}

// CreateDetail implements overtime.Repository.
func (r *overtimeRepository) CreateDetail(ctx context.Context, detail overtime.EntryDetail) (overtime.EntryDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_entry_details (
			id, entry_id, punch_in_seconds, punch_out_seconds, claimed_seconds, normalized_seconds
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		detail.ID, detail.EntryID,
		int64(detail.PunchInOvertime.Seconds()), int64(detail.PunchOutOvertime.Seconds()),
		int64(detail.ClaimedOvertime.Seconds()), int64(detail.NormalizedOvertime.Seconds()),
	).Scan(&detail.CreatedAt, &detail.UpdatedAt)
	if err != nil {
		return overtime.EntryDetail{}, fmt.Errorf("failed to create overtime detail: %w", err)
	}

	return detail, nil
}

// UpdateDetail implements overtime.Repository.
func (r *overtimeRepository) UpdateDetail(ctx context.Context, detail overtime.EntryDetail) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_entry_details SET
			punch_in_seconds = $2, punch_out_seconds = $3,
			claimed_seconds = $4, normalized_seconds = $5, updated_at = NOW()
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query,
		detail.ID,
		int64(detail.PunchInOvertime.Seconds()), int64(detail.PunchOutOvertime.Seconds()),
		int64(detail.ClaimedOvertime.Seconds()), int64(detail.NormalizedOvertime.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("failed to update overtime detail: %w", err)
	}

	return nil
}

// GetDetailByEntry implements overtime.Repository.
func (r *overtimeRepository) GetDetailByEntry(ctx context.Context, entryID string) (overtime.EntryDetail, error) {
	q := GetQuerier(ctx, r.db)

	var d overtime.EntryDetail
	var punchIn, punchOut, claimed, normalized int64
	err := q.QueryRow(ctx, `
		SELECT id, entry_id, punch_in_seconds, punch_out_seconds, claimed_seconds, normalized_seconds,
			   created_at, updated_at
		FROM overtime_entry_details
		WHERE entry_id = $1
	`, entryID).Scan(&d.ID, &d.EntryID, &punchIn, &punchOut, &claimed, &normalized, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return overtime.EntryDetail{}, overtime.ErrEntryNotFound
		}
		return overtime.EntryDetail{}, fmt.Errorf("failed to get overtime detail: %w", err)
	}
	d.PunchInOvertime = time.Duration(punchIn) * time.Second
	d.PunchOutOvertime = time.Duration(punchOut) * time.Second
	d.ClaimedOvertime = time.Duration(claimed) * time.Second
	d.NormalizedOvertime = time.Duration(normalized) * time.Second

	return d, nil
}

// CreateDetailHistory implements overtime.Repository.
func (r *overtimeRepository) CreateDetailHistory(ctx context.Context, history overtime.EntryDetailHistory) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_detail_histories (
			id, detail_id, actor_id,
			previous_punch_in_seconds, previous_punch_out_seconds,
			current_punch_in_seconds, current_punch_out_seconds, remarks
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		history.ID, history.DetailID, history.ActorID,
		int64(history.PreviousPunchInOvertime.Seconds()), int64(history.PreviousPunchOutOvertime.Seconds()),
		int64(history.CurrentPunchInOvertime.Seconds()), int64(history.CurrentPunchOutOvertime.Seconds()),
		history.Remarks,
	)
	if err != nil {
		return fmt.Errorf("failed to create detail history: %w", err)
	}

	return nil
}

// CreateClaim implements overtime.Repository.
func (r *overtimeRepository) CreateClaim(ctx context.Context, claim overtime.Claim) (overtime.Claim, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_claims (id, entry_id, sender_id, recipient_id, status, description, is_archived)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		claim.ID, claim.EntryID, claim.Sender, claim.Recipient,
		claim.Status, claim.Description, claim.IsArchived,
	).Scan(&claim.CreatedAt, &claim.UpdatedAt)
	if err != nil {
		return overtime.Claim{}, fmt.Errorf("failed to create overtime claim: %w", err)
	}

	return claim, nil
}

// UpdateClaim implements overtime.Repository.
func (r *overtimeRepository) UpdateClaim(ctx context.Context, claim overtime.Claim) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE overtime_claims SET
			recipient_id = $2, status = $3, description = $4, is_archived = $5, updated_at = NOW()
		WHERE id = $1
	`, claim.ID, claim.Recipient, claim.Status, claim.Description, claim.IsArchived)
	if err != nil {
		return fmt.Errorf("failed to update overtime claim: %w", err)
	}

	return nil
}

// GetClaim implements overtime.Repository.
func (r *overtimeRepository) GetClaim(ctx context.Context, id string) (overtime.Claim, error) {
	q := GetQuerier(ctx, r.db)

	var c overtime.Claim
	err := q.QueryRow(ctx, `
		SELECT id, entry_id, sender_id, recipient_id, status, description, is_archived, created_at, updated_at
		FROM overtime_claims
		WHERE id = $1
	`, id).Scan(&c.ID, &c.EntryID, &c.Sender, &c.Recipient, &c.Status, &c.Description, &c.IsArchived, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return overtime.Claim{}, overtime.ErrClaimNotFound
		}
		return overtime.Claim{}, fmt.Errorf("failed to get overtime claim: %w", err)
	}

	return c, nil
}

// GetClaimByEntry implements overtime.Repository.
func (r *overtimeRepository) GetClaimByEntry(ctx context.Context, entryID string) (*overtime.Claim, error) {
	q := GetQuerier(ctx, r.db)

	var c overtime.Claim
	err := q.QueryRow(ctx, `
		SELECT id, entry_id, sender_id, recipient_id, status, description, is_archived, created_at, updated_at
		FROM overtime_claims
		WHERE entry_id = $1
	`, entryID).Scan(&c.ID, &c.EntryID, &c.Sender, &c.Recipient, &c.Status, &c.Description, &c.IsArchived, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get claim by entry: %w", err)
	}

	return &c, nil
}

// CreateClaimHistory implements overtime.Repository.
func (r *overtimeRepository) CreateClaimHistory(ctx context.Context, history overtime.ClaimHistory) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_claim_histories (id, claim_id, actor_id, recipient_id, action, remark)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		history.ID, history.ClaimID, history.ActorID, history.RecipientID, history.Action, history.Remark)
	if err != nil {
		return fmt.Errorf("failed to create claim history: %w", err)
	}

	return nil
}

// ListClaimHistories implements overtime.Repository.
func (r *overtimeRepository) ListClaimHistories(ctx context.Context, claimID string) ([]overtime.ClaimHistory, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, claim_id, actor_id, recipient_id, action, remark, created_at
		FROM overtime_claim_histories
		WHERE claim_id = $1
		ORDER BY created_at
	`, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claim histories: %w", err)
	}
	defer rows.Close()

	var histories []overtime.ClaimHistory
	for rows.Next() {
		var h overtime.ClaimHistory
		if err := rows.Scan(&h.ID, &h.ClaimID, &h.ActorID, &h.RecipientID, &h.Action, &h.Remark, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan claim history: %w", err)
		}
		histories = append(histories, h)
	}

	return histories, rows.Err()
}

// ListExpirableClaims implements overtime.Repository.
func (r *overtimeRepository) ListExpirableClaims(ctx context.Context, statuses []approval.Status, cutoff time.Time) ([]overtime.Claim, error) {
	q := GetQuerier(ctx, r.db)

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	rows, err := q.Query(ctx, `
		SELECT id, entry_id, sender_id, recipient_id, status, description, is_archived, created_at, updated_at
		FROM overtime_claims
		WHERE NOT is_archived AND status = ANY($1) AND created_at <= $2
		ORDER BY created_at
	`, names, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list expirable claims: %w", err)
	}
	defer rows.Close()

	var claims []overtime.Claim
	for rows.Next() {
		var c overtime.Claim
		if err := rows.Scan(&c.ID, &c.EntryID, &c.Sender, &c.Recipient, &c.Status, &c.Description, &c.IsArchived, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, c)
	}

	return claims, rows.Err()
}

// ArchiveClaim implements overtime.Repository.
func (r *overtimeRepository) ArchiveClaim(ctx context.Context, claimID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx,
		`UPDATE overtime_claims SET is_archived = TRUE, updated_at = NOW() WHERE id = $1`, claimID)
	if err != nil {
		return fmt.Errorf("failed to archive claim: %w", err)
	}

	return nil
}

// SumWindow implements overtime.Repository.
func (r *overtimeRepository) SumWindow(ctx context.Context, senderID string, from, to time.Time, excludeEntryID string) (time.Duration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(
			CASE WHEN d.claimed_seconds > 0 THEN d.claimed_seconds
			     ELSE d.punch_in_seconds + d.punch_out_seconds END
		), 0)
		FROM overtime_entries e
		JOIN overtime_entry_details d ON d.entry_id = e.id
		JOIN overtime_claims c ON c.entry_id = e.id
		JOIN timesheets t ON t.id = e.timesheet_id
		WHERE e.user_id = $1
		  AND t.date BETWEEN $2 AND $3
		  AND c.status NOT IN ('Declined', 'Cancelled')
		  AND ($4 = '' OR e.id <> $4)
	`

	var totalSecs int64
	if err := q.QueryRow(ctx, query, senderID, from, to, excludeEntryID).Scan(&totalSecs); err != nil {
		return 0, fmt.Errorf("failed to sum overtime window: %w", err)
	}

	return time.Duration(totalSecs) * time.Second, nil
}

func NewOvertimeRepository(db *database.DB) overtime.Repository {
	return &overtimeRepository{db: db}
}
