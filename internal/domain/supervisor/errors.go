package supervisor

import "errors"

var (
	ErrNoSupervisorAtLevel = errors.New("no supervisor assigned at the requested authority level")
	ErrNotSupervisorOf     = errors.New("user is not a supervisor of the sender")
)
