package approval

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
)

// ActionStatus maps a submitted action verb to its target status.
func ActionStatus(action string) (approval.Status, error) {
	switch action {
	case "request":
		return approval.StatusRequested, nil
	case "forward":
		return approval.StatusForwarded, nil
	case "approve":
		return approval.StatusApproved, nil
	case "deny":
		return approval.StatusDeclined, nil
	case "confirm":
		return approval.StatusConfirmed, nil
	case "cancel":
		return approval.StatusCancelled, nil
	default:
		return "", fmt.Errorf("unknown request action %q", action)
	}
}
