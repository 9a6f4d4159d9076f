package timesheet

import "time"

// CorrectedEvent is published when an adjustment, import or entry
// deletion changes a timesheet's canonical punches after the fact.
// Consumers recalibrate derived overtime and credit figures; they must
// tolerate the event firing more than once for the same change.
type CorrectedEvent struct {
	TimeSheetID string
	UserID      string
	Date        time.Time
}

func (CorrectedEvent) Name() string { return "timesheet.corrected" }
