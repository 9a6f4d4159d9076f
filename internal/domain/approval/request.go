package approval

import "time"

// Request is the capability surface the workflow engine needs from every
// approval-bearing record. Each request kind satisfies it with pointer
// receivers so the engine can mutate status and recipient in place.
type Request interface {
	RequestID() string
	SenderID() string
	RecipientID() string
	CurrentStatus() Status
	SetCurrentStatus(Status)
	SetRecipient(recipientID string)
}

// HistoryEntry is one append-only audit row. A row is written for every
// transition in the same transaction as the status change.
type HistoryEntry struct {
	ID          string
	RequestID   string
	ActorID     string
	RecipientID string
	Action      Status
	Remark      string
	CreatedAt   time.Time
}
