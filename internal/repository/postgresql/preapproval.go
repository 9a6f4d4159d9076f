package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/preapproval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type preApprovalRepository struct {
	db *database.DB
}

const preApprovalColumns = `id, sender_id, recipient_id, status, date, duration_seconds,
		request_remarks, overtime_entry_id, created_at, updated_at`

func scanPreApproval(row pgx.Row) (preapproval.Overtime, error) {
	var req preapproval.Overtime
	var durSecs int64
	err := row.Scan(
		&req.ID, &req.Sender, &req.Recipient, &req.Status, &req.Date, &durSecs,
		&req.RequestRemarks, &req.OvertimeEntryID, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return preapproval.Overtime{}, err
	}
	req.Duration = time.Duration(durSecs) * time.Second
	return req, nil
}

// Create implements preapproval.Repository.
func (r *preApprovalRepository) Create(ctx context.Context, req preapproval.Overtime) (preapproval.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pre_approval_overtimes (
			id, sender_id, recipient_id, status, date, duration_seconds, request_remarks
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.Sender, req.Recipient, req.Status, req.Date,
		int64(req.Duration.Seconds()), req.RequestRemarks,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return preapproval.Overtime{}, fmt.Errorf("failed to create pre approval: %w", err)
	}

	return req, nil
}

// Update implements preapproval.Repository.
func (r *preApprovalRepository) Update(ctx context.Context, req preapproval.Overtime) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pre_approval_overtimes SET
			recipient_id = $2, status = $3, duration_seconds = $4,
			request_remarks = $5, overtime_entry_id = $6, updated_at = NOW()
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query,
		req.ID, req.Recipient, req.Status, int64(req.Duration.Seconds()),
		req.RequestRemarks, req.OvertimeEntryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update pre approval: %w", err)
	}

	return nil
}

// GetByID implements preapproval.Repository.
func (r *preApprovalRepository) GetByID(ctx context.Context, id string) (preapproval.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanPreApproval(q.QueryRow(ctx,
		`SELECT `+preApprovalColumns+` FROM pre_approval_overtimes WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return preapproval.Overtime{}, preapproval.ErrNotFound
		}
		return preapproval.Overtime{}, fmt.Errorf("failed to get pre approval: %w", err)
	}

	return req, nil
}

// GetOpenForDate implements preapproval.Repository.
func (r *preApprovalRepository) GetOpenForDate(ctx context.Context, senderID string, date time.Time) (*preapproval.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + preApprovalColumns + `
		FROM pre_approval_overtimes
		WHERE sender_id = $1 AND date = $2
		  AND status NOT IN ('Declined', 'Cancelled')
		ORDER BY created_at DESC
		LIMIT 1
	`

	req, err := scanPreApproval(q.QueryRow(ctx, query, senderID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open pre approval: %w", err)
	}

	return &req, nil
}

// ListConvertible implements preapproval.Repository.
func (r *preApprovalRepository) ListConvertible(ctx context.Context, status approval.Status) ([]preapproval.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + preApprovalColumns + `
		FROM pre_approval_overtimes
		WHERE status = $1 AND overtime_entry_id IS NULL
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list convertible pre approvals: %w", err)
	}
	defer rows.Close()

	var requests []preapproval.Overtime
	for rows.Next() {
		req, err := scanPreApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pre approval: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// CreateHistory implements preapproval.Repository.
func (r *preApprovalRepository) CreateHistory(ctx context.Context, history preapproval.History) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pre_approval_overtime_histories (id, request_id, actor_id, recipient_id, action, remark)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		history.ID, history.RequestID, history.ActorID, history.RecipientID, history.Action, history.Remark)
	if err != nil {
		return fmt.Errorf("failed to create pre approval history: %w", err)
	}

	return nil
}

// ListHistories implements preapproval.Repository.
func (r *preApprovalRepository) ListHistories(ctx context.Context, requestID string) ([]preapproval.History, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, request_id, actor_id, recipient_id, action, remark, created_at
		FROM pre_approval_overtime_histories
		WHERE request_id = $1
		ORDER BY created_at
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pre approval histories: %w", err)
	}
	defer rows.Close()

	var histories []preapproval.History
	for rows.Next() {
		var h preapproval.History
		if err := rows.Scan(&h.ID, &h.RequestID, &h.ActorID, &h.RecipientID, &h.Action, &h.Remark, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pre approval history: %w", err)
		}
		histories = append(histories, h)
	}

	return histories, rows.Err()
}

// SumWindow implements preapproval.Repository.
func (r *preApprovalRepository) SumWindow(ctx context.Context, senderID string, from, to time.Time, excludeID string) (time.Duration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(
			CASE WHEN d.claimed_seconds IS NOT NULL THEN d.claimed_seconds
			     ELSE p.duration_seconds END
		), 0)
		FROM pre_approval_overtimes p
		LEFT JOIN overtime_entries e ON e.id = p.overtime_entry_id
		LEFT JOIN overtime_entry_details d ON d.entry_id = e.id
		WHERE p.sender_id = $1
		  AND p.date BETWEEN $2 AND $3
		  AND p.status NOT IN ('Declined', 'Cancelled')
		  AND ($4 = '' OR p.id <> $4)
	`

	var totalSecs int64
	if err := q.QueryRow(ctx, query, senderID, from, to, excludeID).Scan(&totalSecs); err != nil {
		return 0, fmt.Errorf("failed to sum pre approval window: %w", err)
	}

	return time.Duration(totalSecs) * time.Second, nil
}

func NewPreApprovalRepository(db *database.DB) preapproval.Repository {
	return &preApprovalRepository{db: db}
}
