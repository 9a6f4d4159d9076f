package credithour

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSettingNotFound      = errors.New("no credit hour setting assigned")
	ErrRequestNotFound      = errors.New("credit hour request not found")
	ErrEntryNotFound        = errors.New("credit hour entry not found")
	ErrRequestDeleted       = errors.New("credit hour request has been deleted")
	ErrDuplicateOpenRequest = errors.New("an open credit hour request already exists for this date")
	ErrEntryConsumed        = errors.New("credit hours have already been consumed")
	ErrDeleteNotApproved    = errors.New("only approved credit hour requests can be deleted")
	ErrDeleteRequestExists  = errors.New("a delete request is already open for this credit hour")
)

// BelowMinimumError rejects requests shorter than the configured floor.
type BelowMinimumError struct {
	Requested time.Duration
	Minimum   time.Duration
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("requested duration %s is below the minimum %s", e.Requested, e.Minimum)
}
