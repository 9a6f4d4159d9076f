package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/leaveaccount"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveAccountRepository struct {
	db *database.DB
}

// GetForUser implements leaveaccount.AccountRepository.
func (r *leaveAccountRepository) GetForUser(ctx context.Context, userID string) (leaveaccount.Account, error) {
	q := GetQuerier(ctx, r.db)

	var a leaveaccount.Account
	err := q.QueryRow(ctx, `
		SELECT id, user_id, balance_minutes, usable_balance_minutes, max_balance_minutes,
			   created_at, updated_at
		FROM credit_leave_accounts
		WHERE user_id = $1
	`, userID).Scan(&a.ID, &a.UserID, &a.Balance, &a.UsableBalance, &a.MaxBalance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leaveaccount.Account{}, leaveaccount.ErrNoAccount
		}
		return leaveaccount.Account{}, fmt.Errorf("failed to get credit leave account: %w", err)
	}

	return a, nil
}

// UpdateBalance implements leaveaccount.AccountRepository.
func (r *leaveAccountRepository) UpdateBalance(ctx context.Context, account leaveaccount.Account) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE credit_leave_accounts SET
			balance_minutes = $2, usable_balance_minutes = $3, updated_at = NOW()
		WHERE id = $1
	`, account.ID, account.Balance, account.UsableBalance)
	if err != nil {
		return fmt.Errorf("failed to update credit leave balance: %w", err)
	}

	return nil
}

// CreateHistory implements leaveaccount.AccountRepository.
func (r *leaveAccountRepository) CreateHistory(ctx context.Context, history leaveaccount.History) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO credit_leave_account_histories (
			id, account_id, actor_id, action,
			previous_balance_minutes, previous_usable_balance_minutes,
			new_balance_minutes, new_usable_balance_minutes, remarks
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		history.ID, history.AccountID, history.ActorID, history.Action,
		history.PreviousBalance, history.PreviousUsableBalance,
		history.NewBalance, history.NewUsableBalance, history.Remarks,
	)
	if err != nil {
		return fmt.Errorf("failed to create balance history: %w", err)
	}

	return nil
}

func NewLeaveAccountRepository(db *database.DB) leaveaccount.AccountRepository {
	return &leaveAccountRepository{db: db}
}
