package limit

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/utils"
)

// Kind names the window a ceiling applies to.
type Kind string

const (
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
)

// RedirectPayload pre-fills the sibling workflow's submission form so
// the UI can offer the alternate path directly.
type RedirectPayload struct {
	Date     time.Time     `json:"date"`
	Duration time.Duration `json:"duration"`
	Remarks  string        `json:"remarks"`
}

// RedirectSuggestion points a rejected request at the sibling workflow
// (overtime <-> credit hour).
type RedirectSuggestion struct {
	Workflow string          `json:"workflow"`
	Payload  RedirectPayload `json:"payload"`
}

// ExceededError carries the offending figures so downstream UIs render
// them verbatim.
type ExceededError struct {
	Kind       Kind
	Limit      time.Duration
	Existing   time.Duration
	Requested  time.Duration
	Suggestion *RedirectSuggestion
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf(
		"%s limit exceeded: limit %s, existing %s, requested %s",
		e.Kind,
		utils.HumanizeInterval(e.Limit),
		utils.HumanizeInterval(e.Existing),
		utils.HumanizeInterval(e.Requested),
	)
}
