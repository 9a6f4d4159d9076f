package approval

// Status is the workflow state of an approval-bearing request.
type Status string

const (
	StatusUnclaimed Status = "Unclaimed"
	StatusRequested Status = "Requested"
	StatusForwarded Status = "Forwarded"
	StatusApproved  Status = "Approved"
	StatusDeclined  Status = "Declined"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
)

// Mode identifies who is driving a transition. Permission rules differ
// per mode: HR may bypass the recipient check on approve/decline/confirm,
// supervisors act only as the current recipient, senders may only cancel.
type Mode string

const (
	ModeSelf       Mode = "self"
	ModeSupervisor Mode = "supervisor"
	ModeHR         Mode = "hr"
)

// Lifecycle is orthogonal to Status: a deleted request keeps its final
// workflow status but no longer participates in aggregates or limits.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "Active"
	LifecycleDeleted Lifecycle = "Deleted"
)

// SuccessorTable maps each status to the statuses reachable from it.
type SuccessorTable map[Status][]Status

// Allows reports whether to is a legal successor of from.
func (t SuccessorTable) Allows(from, to Status) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ClaimSuccessors governs overtime claims, the only kind that uses the
// Unclaimed and Confirmed states. Declined claims may be re-requested.
var ClaimSuccessors = SuccessorTable{
	StatusUnclaimed: {StatusRequested},
	StatusRequested: {StatusForwarded, StatusApproved, StatusDeclined, StatusConfirmed, StatusCancelled},
	StatusForwarded: {StatusForwarded, StatusApproved, StatusDeclined, StatusConfirmed},
	StatusApproved:  {StatusConfirmed, StatusDeclined},
	StatusDeclined:  {StatusRequested, StatusConfirmed},
}

// RequestSuccessors governs pre-approvals, credit-hour requests, travel
// requests and their delete requests.
var RequestSuccessors = SuccessorTable{
	StatusRequested: {StatusForwarded, StatusApproved, StatusDeclined, StatusCancelled},
	StatusForwarded: {StatusForwarded, StatusApproved, StatusDeclined, StatusCancelled},
	StatusApproved:  {StatusConfirmed, StatusDeclined},
}

// InvalidModeActions lists, per target status, the modes that may never
// perform it. Deployment configuration can override this table.
var InvalidModeActions = map[Status][]Mode{
	StatusConfirmed: {ModeSupervisor},
	StatusForwarded: {ModeHR},
	StatusCancelled: {ModeHR, ModeSupervisor},
}

// ModeAllowed reports whether mode may drive a transition to status.
func ModeAllowed(invalid map[Status][]Mode, status Status, mode Mode) bool {
	for _, m := range invalid[status] {
		if m == mode {
			return false
		}
	}
	return true
}

// TerminalStatuses never participate in open-request uniqueness checks.
var TerminalStatuses = []Status{StatusDeclined, StatusCancelled}

// IsTerminal reports whether a request in this status counts as closed.
func IsTerminal(s Status) bool {
	for _, t := range TerminalStatuses {
		if t == s {
			return true
		}
	}
	return false
}
