package timesheet

import "time"

// Coefficient classifies a timesheet's day.
type Coefficient string

const (
	CoefficientWorkday Coefficient = "Workday"
	CoefficientOffday  Coefficient = "Offday"
	CoefficientHoliday Coefficient = "Holiday"
)

// LeaveCoefficient reflects any leave taken on the day.
type LeaveCoefficient string

const (
	LeaveNone       LeaveCoefficient = "No Leave"
	LeaveFirstHalf  LeaveCoefficient = "First Half"
	LeaveSecondHalf LeaveCoefficient = "Second Half"
	LeaveFull       LeaveCoefficient = "Full Leave"
)

// EntryType is the canonical role an entry plays within its day.
type EntryType string

const (
	EntryPunchIn  EntryType = "Punch In"
	EntryPunchOut EntryType = "Punch Out"
	EntryBreakIn  EntryType = "Break In"
	EntryBreakOut EntryType = "Break Out"
	EntryUnknown  EntryType = "Unknown"
)

// EntryMethod is the channel a punch arrived through.
type EntryMethod string

const (
	MethodDevice     EntryMethod = "Device"
	MethodWeb        EntryMethod = "Web App"
	MethodMobile     EntryMethod = "Mobile App"
	MethodImport     EntryMethod = "Import"
	MethodAdjustment EntryMethod = "Attendance Adjustment"
	MethodTravel     EntryMethod = "Travel Attendance"
)

// EntryCategory is derived punctuality classification.
type EntryCategory string

const (
	CategoryEarlyIn       EntryCategory = "Early In"
	CategoryTimelyIn      EntryCategory = "Timely In"
	CategoryLateIn        EntryCategory = "Late In"
	CategoryEarlyOut      EntryCategory = "Early Out"
	CategoryTimelyOut     EntryCategory = "Timely Out"
	CategoryLateOut       EntryCategory = "Late Out"
	CategoryUncategorized EntryCategory = "Uncategorized"
)

// TimeSheet is the canonical daily record, one per user per date. The
// punch fields are a cache derived from the day's entries; the entries
// are the source of truth.
type TimeSheet struct {
	ID               string
	UserID           string
	WorkShiftID      *string
	WorkTimingID     *string
	Date             time.Time
	ExpectedPunchIn  *time.Time
	ExpectedPunchOut *time.Time
	PunchIn          *time.Time
	PunchOut         *time.Time
	PunchInDelta     *time.Duration
	PunchOutDelta    *time.Duration
	WorkedHours      time.Duration
	UnpaidBreakHours time.Duration
	Coefficient      Coefficient
	LeaveCoefficient LeaveCoefficient
	Punctuality      *float64
	IsPresent        bool
	WorkingRemotely  bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TimeSheetEntry is one physical punch event.
type TimeSheetEntry struct {
	ID             string
	TimeSheetID    string
	Timestamp      time.Time
	EntryType      EntryType
	EntryMethod    EntryMethod
	Category       EntryCategory
	RemarkCategory string
	Latitude       *float64
	Longitude      *float64
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ApprovalStatus of a pending web/manual punch.
type ApprovalStatus string

const (
	EntryPending  ApprovalStatus = "Pending"
	EntryApproved ApprovalStatus = "Approved"
	EntryRejected ApprovalStatus = "Rejected"
)

// TimeSheetEntryApproval holds a punch awaiting supervisor approval
// before it is applied to the timesheet.
type TimeSheetEntryApproval struct {
	ID          string
	TimeSheetID string
	SenderID    string
	RecipientID string
	Timestamp   time.Time
	EntryMethod EntryMethod
	Status      ApprovalStatus
	Remarks     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
