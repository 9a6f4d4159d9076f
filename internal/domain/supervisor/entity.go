package supervisor

import "time"

// Edge is one row of a user's escalation chain. AuthorityOrder 1 is the
// immediate supervisor. The boolean flags gate which workflow actions
// this supervisor may perform on the user's requests.
type Edge struct {
	ID             string
	UserID         string
	SupervisorID   string
	AuthorityOrder int
	Approve        bool
	Deny           bool
	Forward        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
