package approval

import (
	"errors"
	"fmt"
)

// Approval workflow errors
var (
	ErrInvalidTransition = errors.New("requested action is not allowed from the current status")
	ErrTerminalState     = errors.New("request is in a terminal state and cannot be acted on")
	ErrNotRecipient      = errors.New("you are not the current recipient of this request")
	ErrCancelNotSender   = errors.New("only the sender may cancel a request")
	ErrNoNextSupervisor  = errors.New("no supervisor exists at the required authority level")
	ErrNoSupervisorChain = errors.New("no supervisor has been assigned")
	ErrModeNotAllowed    = errors.New("this action is not available for your role")
	ErrDuplicateOpen     = errors.New("an open request already exists for this date")
	ErrRequestNotFound   = errors.New("request not found")
	ErrRequestDeleted    = errors.New("request has been deleted")
)

// PermissionError reports a missing approve/deny/forward flag on the
// supervisor edge. The action name is rendered into the message because
// downstream UIs show it verbatim.
type PermissionError struct {
	Action Status
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("you do not have %s permission assigned", e.Action)
}

// OrderError reports an illegal (existing, performed) status pair.
type OrderError struct {
	Existing  Status
	Performed Status
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("cannot perform %s on a request in %s state", e.Performed, e.Existing)
}

func (e *OrderError) Unwrap() error { return ErrInvalidTransition }
