package overtime

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/shopspring/decimal"
)

// UnlimitedMinutes is the limit sentinel meaning "no cap".
const UnlimitedMinutes = 24 * 60

// TolerancePolicy decides how the before/after applicability tolerances
// combine. Both qualifies each side on its own tolerance; Either keeps
// both raw sides when at least one qualifies.
type TolerancePolicy string

const (
	ToleranceBoth         TolerancePolicy = "Both"
	ToleranceEither       TolerancePolicy = "Either"
	ToleranceNeither      TolerancePolicy = "Neither"
	TolerancePunchInOnly  TolerancePolicy = "Punch In Only"
	TolerancePunchOutOnly TolerancePolicy = "Punch Out Only"
)

// DeductionPolicy selects which sides pay the tolerance-deducted value
// instead of the raw earned one. Empty means no deduction.
type DeductionPolicy string

const (
	DeductNone     DeductionPolicy = ""
	DeductBoth     DeductionPolicy = "Both"
	DeductPunchIn  DeductionPolicy = "Punch In Only"
	DeductPunchOut DeductionPolicy = "Punch Out Only"
)

// SlotRounding decides what happens to the remainder beyond the last
// full slot. A value under one full slot is discarded either way.
type SlotRounding string

const (
	SlotRoundUp    SlotRounding = "Up"
	SlotRoundDown  SlotRounding = "Down"
	SlotRoundConst SlotRounding = "Const"
)

// ExpirationUnit for claim expiry windows.
type ExpirationUnit string

const (
	ExpireDays   ExpirationUnit = "Days"
	ExpireMonths ExpirationUnit = "Months"
	ExpireYears  ExpirationUnit = "Years"
)

// RateDayType segments rate tiers by the kind of day they apply to.
type RateDayType string

const (
	RateWorkday RateDayType = "Workday"
	RateOffday  RateDayType = "Offday"
	RateHoliday RateDayType = "Holiday"
	RateLeave   RateDayType = "Leave"
)

// Setting is the organization-level overtime policy.
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

	ApplicableBefore int // minutes of early-in tolerance
	ApplicableAfter  int // minutes of late-out tolerance
	TolerancePolicy  TolerancePolicy

	DeductToleranceFor    DeductionPolicy // sides that pay the tolerance-deducted value
	MinimumRequestMinutes int
	FlatRejectMinutes     int

	OvertimeAfterOffday  TolerancePolicy
	OvertimeAfterHoliday TolerancePolicy

	RequireDedicatedWorkTime bool
	PaidUnpaidBreaks         bool

	ClaimExpires     bool
	ExpiresAfter     int
	ExpiresAfterUnit ExpirationUnit

	RequirePriorApproval             bool
	RequirePostApprovalOfPreApproved bool
	ReduceOTIfActualLTApproved       bool
	ActualOTIfActualGTApproved       bool
	AllowEditOfPreApprovedOvertime   bool

	CalculateOvertimeInSlots bool
	SlotDuration             time.Duration
	SlotRounding             SlotRounding

	Rates []Rate

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatesFor filters the tiers for a day type.
func (s Setting) RatesFor(dayType RateDayType) []Rate {
	var out []Rate
	for _, r := range s.Rates {
		if r.DayType == dayType {
			out = append(out, r)
		}
	}
	return out
}

// Rate is one tier: hours worked beyond OvertimeAfter pay at Rate.
type Rate struct {
	ID            string
	SettingID     string
	OvertimeAfter decimal.Decimal // hours
	Rate          decimal.Decimal // multiplier
	DayType       RateDayType
}

// Entry links a timesheet to its computed overtime. One per timesheet.
type Entry struct {
	ID            string
	UserID        string
	TimeSheetID   string
	SettingID     string
	PreApprovalID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EntryDetail carries the raw and derived quantities for an entry.
type EntryDetail struct {
	ID                 string
	EntryID            string
	PunchInOvertime    time.Duration
	PunchOutOvertime   time.Duration
	ClaimedOvertime    time.Duration
	NormalizedOvertime time.Duration
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Total is the raw earned overtime before capping.
func (d EntryDetail) Total() time.Duration {
	return d.PunchInOvertime + d.PunchOutOvertime
}

// EntryDetailHistory records one recalibration. Written only when the
// recomputed values differ from the stored ones.
type EntryDetailHistory struct {
	ID                       string
	DetailID                 string
	ActorID                  string
	PreviousPunchInOvertime  time.Duration
	PreviousPunchOutOvertime time.Duration
	CurrentPunchInOvertime   time.Duration
	CurrentPunchOutOvertime  time.Duration
	Remarks                  string
	CreatedAt                time.Time
}

// Claim is the approval-bearing wrapper over an overtime entry.
type Claim struct {
	ID          string
	EntryID     string
	Sender      string
	Recipient   string
	Status      approval.Status
	Description string
	IsArchived  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// approval.Request implementation.
func (c *Claim) RequestID() string                  { return c.ID }
func (c *Claim) SenderID() string                   { return c.Sender }
func (c *Claim) RecipientID() string                { return c.Recipient }
func (c *Claim) CurrentStatus() approval.Status     { return c.Status }
func (c *Claim) SetCurrentStatus(s approval.Status) { c.Status = s }
func (c *Claim) SetRecipient(recipientID string)    { c.Recipient = recipientID }

// ClaimHistory is the append-only decision trail of a claim.
type ClaimHistory struct {
	ID          string
	ClaimID     string
	ActorID     string
	RecipientID string
	Action      approval.Status
	Remark      string
	CreatedAt   time.Time
}
