package travel

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
)

// Request spans a date range of travel. On approval it is exploded into
// per-day rows; days the organization disallows (holidays, off-days)
// are skipped during the explosion.
type Request struct {
	ID              string
	Sender          string
	Recipient       string
	Status          approval.Status
	Lifecycle       approval.Lifecycle
	StartDate       time.Time
	EndDate         time.Time
	StartTime       time.Duration // offset from midnight
	EndTime         time.Duration
	Location        string
	Remarks         string
	WorkingRemotely bool
	// RequestCreditHours spawns an approved credit request per day.
	RequestCreditHours bool
	CreditDuration     time.Duration
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// approval.Request implementation.
func (r *Request) RequestID() string                  { return r.ID }
func (r *Request) SenderID() string                   { return r.Sender }
func (r *Request) RecipientID() string                { return r.Recipient }
func (r *Request) CurrentStatus() approval.Status     { return r.Status }
func (r *Request) SetCurrentStatus(s approval.Status) { r.Status = s }
func (r *Request) SetRecipient(recipientID string)    { r.Recipient = recipientID }

// Day is one materialized travel day. Synthetic punches are clocked for
// it so the timesheet pipeline sees the traveller as present.
type Day struct {
	ID          string
	RequestID   string
	Date        time.Time
	TimeSheetID *string
	IsProcessed bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeleteRequest asks for the reversal of an approved travel request;
// approval reverts the materialized days and re-synthesizes normal
// timesheets.
type DeleteRequest struct {
	ID         string
	RequestRef string
	Sender     string
	Recipient  string
	Status     approval.Status
	Remarks    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// approval.Request implementation.
func (d *DeleteRequest) RequestID() string                  { return d.ID }
func (d *DeleteRequest) SenderID() string                   { return d.Sender }
func (d *DeleteRequest) RecipientID() string                { return d.Recipient }
func (d *DeleteRequest) CurrentStatus() approval.Status     { return d.Status }
func (d *DeleteRequest) SetCurrentStatus(s approval.Status) { d.Status = s }
func (d *DeleteRequest) SetRecipient(recipientID string)    { d.Recipient = recipientID }

type History = approval.HistoryEntry
