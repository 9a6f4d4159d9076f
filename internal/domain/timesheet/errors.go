package timesheet

import "errors"

var (
	ErrTimeSheetNotFound = errors.New("timesheet not found")
	ErrEntryNotFound     = errors.New("timesheet entry not found")
	// ErrNoTimeSheet is the soft failure when no shift resolves for the
	// date; callers treat it as "nothing to record", not a fault.
	ErrNoTimeSheet = errors.New("no timesheet could be resolved for the date")
	// ErrDuplicateEntry signals a timestamp collision; the store
	// recovers by delete-and-recreate inside the same transaction.
	ErrDuplicateEntry         = errors.New("duplicate timesheet entry")
	ErrApprovalNotFound       = errors.New("timesheet entry approval not found")
	ErrApprovalAlreadyDecided = errors.New("timesheet entry approval already decided")
	ErrEntryAlreadyDeleted    = errors.New("timesheet entry already deleted")
)
