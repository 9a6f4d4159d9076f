package credithour

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
)

// Setting is the organization-level credit-hour policy. It mirrors the
// overtime limit structure and may point at an overtime setting used as
// the redirect target when a limit is exceeded.
type Setting struct {
	ID             string
	OrganizationID string
	Name           string

	DailyLimitApplicable   bool
	DailyLimitMinutes      int
	WeeklyLimitApplicable  bool
	WeeklyLimitMinutes     int
	MonthlyLimitApplicable bool
	MonthlyLimitMinutes    int
	OffDayLimitApplicable  bool
	OffDayLimitMinutes     int
	HolidayLimitApplicable bool
	HolidayLimitMinutes    int
	LeaveLimitApplicable   bool
	LeaveLimitMinutes      int

	MinimumRequestDuration time.Duration

	ReduceCreditIfActualLTApproved bool
	AllowEditOfApproved            bool

	CreditExpires    bool
	ExpiresAfter     int
	ExpiresAfterUnit string

	// OvertimeSettingID is the sibling policy offered as a redirect when
	// a credit limit rejects the request.
	OvertimeSettingID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GrantStatus tracks whether an approved request's balance reached the
// leave account.
type GrantStatus string

const (
	GrantNotAdded GrantStatus = "Not Added"
	GrantAdded    GrantStatus = "Added"
)

// Request is a credit-hour request for a single date.
type Request struct {
	ID            string
	Sender        string
	Recipient     string
	Status        approval.Status
	Lifecycle     approval.Lifecycle
	Date          time.Time
	Duration      time.Duration
	Remarks       string
	CreditEntryID *string
	GrantStatus   GrantStatus
	TravelDayID   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// approval.Request implementation.
func (r *Request) RequestID() string                  { return r.ID }
func (r *Request) SenderID() string                   { return r.Sender }
func (r *Request) RecipientID() string                { return r.Recipient }
func (r *Request) CurrentStatus() approval.Status     { return r.Status }
func (r *Request) SetCurrentStatus(s approval.Status) { r.Status = s }
func (r *Request) SetRecipient(recipientID string)    { r.Recipient = recipientID }

// TimeSheetEntry is the granted credit recorded against a timesheet.
// Earned may be lower than the requested duration; Consumed tracks how
// much of it leave requests have already spent.
type TimeSheetEntry struct {
	ID          string
	TimeSheetID string
	SettingID   string
	RequestID   string
	Earned      time.Duration
	Consumed    time.Duration
	Status      approval.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeleteRequest asks for the reversal of an approved credit request.
type DeleteRequest struct {
	ID         string
	RequestRef string // the credit request being reverted
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

// History rows are shared in shape with the other request kinds.
type History = approval.HistoryEntry
