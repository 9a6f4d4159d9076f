package shift

import "time"

// Weekday numbering used by shift day definitions, 1=Sunday .. 7=Saturday.
const (
	Sunday    = 1
	Monday    = 2
	Tuesday   = 3
	Wednesday = 4
	Thursday  = 5
	Friday    = 6
	Saturday  = 7
)

// WeekdayOf converts a calendar date to the shift weekday numbering.
func WeekdayOf(date time.Time) int {
	return int(date.Weekday()) + 1
}

// WorkShift is a named shift owned by an organization. Once referenced
// by timesheet history it is immutable; edits create a new shift.
type WorkShift struct {
	ID             string
	OrganizationID string
	Name           string
	StartTimeGrace time.Duration
	EndTimeGrace   time.Duration
	Days           []WorkShiftDay
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DayFor returns the day definition for a date's weekday. A missing day
// means the date is an off-day under this shift.
func (s WorkShift) DayFor(date time.Time) (WorkShiftDay, bool) {
	wd := WeekdayOf(date)
	for _, d := range s.Days {
		if d.Day == wd {
			return d, true
		}
	}
	return WorkShiftDay{}, false
}

// WorkShiftDay holds the ordered work-time windows for one weekday.
type WorkShiftDay struct {
	ID          string
	WorkShiftID string
	Day         int
	Timings     []WorkTiming
}

// WorkTiming is a single work window. Extends means the window ends on
// the following calendar day (night shifts).
type WorkTiming struct {
	ID             string
	WorkShiftDayID string
	StartTime      time.Duration // offset from the day's midnight
	EndTime        time.Duration // offset from midnight of the end day
	Extends        bool
	WorkingMinutes int
}

// Window anchors the timing to a concrete date and returns the absolute
// start and end instants.
func (t WorkTiming) Window(date time.Time) (start, end time.Time) {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	start = midnight.Add(t.StartTime)
	end = midnight.Add(t.EndTime)
	if t.Extends {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}

// AttendanceSetting is the per-user attendance assignment. A user is
// driven either by a WorkShift or by a raw daily working-hours value,
// never both.
type AttendanceSetting struct {
	ID                    string
	UserID                string
	OrganizationID        string
	WorkShiftID           *string
	WorkingHours          *time.Duration
	OvertimeSettingID     *string
	CreditHourSettingID   *string
	ApplicableFrom        *time.Time
	ApplicableTo          *time.Time
	EnableOvertime        bool
	EnableCreditHour      bool
	RequireEntryApproval  bool
	NotifyOnLateIn        bool
	NotifyOnClaimDecision bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// AppliesOn reports whether the setting is in force on the date.
func (s AttendanceSetting) AppliesOn(date time.Time) bool {
	if s.ApplicableFrom != nil && date.Before(*s.ApplicableFrom) {
		return false
	}
	if s.ApplicableTo != nil && date.After(*s.ApplicableTo) {
		return false
	}
	return true
}
