package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserEmailExists    = errors.New("email already registered")
	ErrHRAccessRequired   = errors.New("hr privilege required")
	ErrSystemActorBlocked = errors.New("system actor cannot be used here")
)
