package leaveaccount

import "context"

type AccountRepository interface {
	// GetForUser returns the user's credit-leave account, or
	// ErrNoAccount when credit leave is not enabled for them.
	GetForUser(ctx context.Context, userID string) (Account, error)

	// UpdateBalance persists new balance values.
	UpdateBalance(ctx context.Context, account Account) error

	// CreateHistory appends a balance mutation record.
	CreateHistory(ctx context.Context, history History) error
}
