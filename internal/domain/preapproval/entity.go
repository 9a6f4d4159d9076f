package preapproval

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
)

// Overtime is a request submitted before the work is performed. On
// approval (or confirmation, per deployment) a conversion job turns it
// into an overtime entry and claim; the link is stored back here.
type Overtime struct {
	ID              string
	Sender          string
	Recipient       string
	Status          approval.Status
	Date            time.Time
	Duration        time.Duration
	RequestRemarks  string
	OvertimeEntryID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// approval.Request implementation.
func (o *Overtime) RequestID() string                  { return o.ID }
func (o *Overtime) SenderID() string                   { return o.Sender }
func (o *Overtime) RecipientID() string                { return o.Recipient }
func (o *Overtime) CurrentStatus() approval.Status     { return o.Status }
func (o *Overtime) SetCurrentStatus(s approval.Status) { o.Status = s }
func (o *Overtime) SetRecipient(recipientID string)    { o.Recipient = recipientID }

type History = approval.HistoryEntry
