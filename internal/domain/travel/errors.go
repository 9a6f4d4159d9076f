package travel

import "errors"

var (
	ErrRequestNotFound     = errors.New("travel attendance request not found")
	ErrOverlappingRequest  = errors.New("an open travel request already covers part of this range")
	ErrInvalidDateRange    = errors.New("end date must not be before start date")
	ErrNoApplicableDays    = errors.New("no travel days can be materialized for this range")
	ErrDeleteNotApproved   = errors.New("only approved travel requests can be deleted")
	ErrDeleteRequestExists = errors.New("a delete request is already open for this travel request")
)
