package timesheet

import "time"

// ClockRequest is a single punch submission.
type ClockRequest struct {
	UserID          string      `json:"user_id"`
	Timestamp       time.Time   `json:"timestamp"`
	EntryMethod     EntryMethod `json:"entry_method"`
	Remarks         string      `json:"remarks,omitempty"`
	RemarkCategory  string      `json:"remark_category,omitempty"`
	Latitude        *float64    `json:"latitude,omitempty"`
	Longitude       *float64    `json:"longitude,omitempty"`
	WorkingRemotely bool        `json:"working_remotely,omitempty"`
}

// TimeSheetResponse is the read shape for a daily record.
type TimeSheetResponse struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Date             string     `json:"date"`
	ExpectedPunchIn  *time.Time `json:"expected_punch_in,omitempty"`
	ExpectedPunchOut *time.Time `json:"expected_punch_out,omitempty"`
	PunchIn          *time.Time `json:"punch_in,omitempty"`
	PunchOut         *time.Time `json:"punch_out,omitempty"`
	WorkedHours      string     `json:"worked_hours"`
	Coefficient      string     `json:"coefficient"`
	LeaveCoefficient string     `json:"leave_coefficient"`
	Punctuality      *float64   `json:"punctuality,omitempty"`
	IsPresent        bool       `json:"is_present"`
	WorkingRemotely  bool       `json:"working_remotely"`
}

// TimeSheetEntryResponse is the read shape of a single punch.
type TimeSheetEntryResponse struct {
	ID          string    `json:"id"`
	TimeSheetID string    `json:"timesheet_id"`
	Timestamp   time.Time `json:"timestamp"`
	EntryType   string    `json:"entry_type"`
	EntryMethod string    `json:"entry_method"`
	Category    string    `json:"category"`
}

func NewTimeSheetEntryResponse(e TimeSheetEntry) TimeSheetEntryResponse {
	return TimeSheetEntryResponse{
		ID:          e.ID,
		TimeSheetID: e.TimeSheetID,
		Timestamp:   e.Timestamp,
		EntryType:   string(e.EntryType),
		EntryMethod: string(e.EntryMethod),
		Category:    string(e.Category),
	}
}

func NewTimeSheetResponse(ts TimeSheet) TimeSheetResponse {
	return TimeSheetResponse{
		ID:               ts.ID,
		UserID:           ts.UserID,
		Date:             ts.Date.Format("2006-01-02"),
		ExpectedPunchIn:  ts.ExpectedPunchIn,
		ExpectedPunchOut: ts.ExpectedPunchOut,
		PunchIn:          ts.PunchIn,
		PunchOut:         ts.PunchOut,
		WorkedHours:      ts.WorkedHours.String(),
		Coefficient:      string(ts.Coefficient),
		LeaveCoefficient: string(ts.LeaveCoefficient),
		Punctuality:      ts.Punctuality,
		IsPresent:        ts.IsPresent,
		WorkingRemotely:  ts.WorkingRemotely,
	}
}
