package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// getRoleFromContext extracts the role claim from the JWT context.
func getRoleFromContext(r *http.Request) user.Role {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if role, ok := claims["role"].(string); ok {
		return user.Role(role)
	}
	return user.RoleEmployee
}

// actorMode resolves the approval mode for a workflow action. The
// caller's role decides the default; the optional "as" body field
// overrides it so a supervisor can cancel their own request as self.
func actorMode(r *http.Request, as string) approval.Mode {
	switch as {
	case "self":
		return approval.ModeSelf
	case "supervisor":
		return approval.ModeSupervisor
	case "hr":
		return approval.ModeHR
	}
	switch getRoleFromContext(r) {
	case user.RoleHR:
		return approval.ModeHR
	case user.RoleSupervisor:
		return approval.ModeSupervisor
	default:
		return approval.ModeSelf
	}
}

// actionRequest is the shared body for workflow transitions. As is
// optional; when empty the mode is derived from the caller's role.
type actionRequest struct {
	Action string `json:"action"`
	Remark string `json:"remark"`
	As     string `json:"as,omitempty"`
}

// parseDateParam parses a YYYY-MM-DD value.
func parseDateParam(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
