package overtime

import (
	"errors"
	"fmt"
)

var (
	ErrSettingNotFound   = errors.New("no overtime setting assigned")
	ErrEntryNotFound     = errors.New("overtime entry not found")
	ErrClaimNotFound     = errors.New("overtime claim not found")
	ErrClaimArchived     = errors.New("overtime claim has expired and is archived")
	ErrClaimConfirmed    = errors.New("confirmed overtime claims cannot be modified")
	ErrEntryExists       = errors.New("overtime entry already exists for the timesheet")
	ErrBelowFlatReject   = errors.New("earned overtime is below the organization's floor")
	ErrEditNotAllowed    = errors.New("overtime is not editable in its current state")
	ErrEditExceedsEarned = errors.New("edited overtime cannot exceed the system generated value")
)

// RecalibrationSkip explains why a recalibration did not run. These are
// not failures; the caller surfaces the message and moves on.
type RecalibrationSkip struct {
	Reason string
}

func (e *RecalibrationSkip) Error() string { return e.Reason }

// StateError reports an action attempted in an incompatible claim state.
type StateError struct {
	Status string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("overtime is in %s state", e.Status)
}
