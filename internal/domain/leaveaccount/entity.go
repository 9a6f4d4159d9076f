package leaveaccount

import "time"

// Account is the credit-leave balance a user accumulates from granted
// credit hours. Balances are stored in minutes.
type Account struct {
	ID            string
	UserID        string
	Balance       int
	UsableBalance int
	MaxBalance    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Headroom is how many more minutes the account can absorb before
// hitting its configured maximum.
func (a Account) Headroom() int {
	h := a.MaxBalance - a.UsableBalance
	if h < 0 {
		return 0
	}
	return h
}

type HistoryAction string

const (
	ActionAdded    HistoryAction = "Added"
	ActionDeducted HistoryAction = "Deducted"
)

// History is one append-only balance mutation record.
type History struct {
	ID                    string
	AccountID             string
	ActorID               string
	Action                HistoryAction
	PreviousBalance       int
	PreviousUsableBalance int
	NewBalance            int
	NewUsableBalance      int
	Remarks               string
	CreatedAt             time.Time
}
