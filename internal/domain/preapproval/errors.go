package preapproval

import "errors"

var (
	ErrNotFound             = errors.New("pre approval overtime not found")
	ErrNotEnabled           = errors.New("overtime pre approval is not enabled for this user")
	ErrDuplicateOpenRequest = errors.New("an open pre approval already exists for this date")
	ErrEditNotAllowed       = errors.New("pre approved overtime is not editable")
	ErrClaimConfirmed       = errors.New("generated overtime claim is already confirmed")
)
