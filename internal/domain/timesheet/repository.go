package timesheet

import (
	"context"
	"time"
)

// TimeSheetRepository owns TimeSheet and TimeSheetEntry rows. The
// (user, date) pair is unique; Upsert never creates a second row.
type TimeSheetRepository interface {
	Upsert(ctx context.Context, ts TimeSheet) (TimeSheet, error)
	Update(ctx context.Context, ts TimeSheet) error
	GetByID(ctx context.Context, id string) (TimeSheet, error)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*TimeSheet, error)
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]TimeSheet, error)

	// ListPresentForDate returns every timesheet on the date whose owner
	// punched, for batch jobs that walk a day's attendance.
	ListPresentForDate(ctx context.Context, date time.Time) ([]TimeSheet, error)

	// CreateEntry inserts a punch. ErrDuplicateEntry signals a timestamp
	// collision on the same timesheet.
	CreateEntry(ctx context.Context, entry TimeSheetEntry) (TimeSheetEntry, error)
	UpdateEntry(ctx context.Context, entry TimeSheetEntry) error
	DeleteEntriesAt(ctx context.Context, timeSheetID string, timestamp time.Time) error
	ListEntries(ctx context.Context, timeSheetID string) ([]TimeSheetEntry, error)

	CreateEntryApproval(ctx context.Context, approval TimeSheetEntryApproval) (TimeSheetEntryApproval, error)
	GetEntryApproval(ctx context.Context, id string) (TimeSheetEntryApproval, error)
	UpdateEntryApproval(ctx context.Context, approval TimeSheetEntryApproval) error
}
