package limit

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/utils"
)

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Service computes limit windows and enforces period ceilings. The
// aggregation itself lives in the request-kind repositories; callers
// hand the existing sum in.
type Service struct {
	orgRepo      organization.OrganizationRepository
	weekStartDay int // 1=Sunday .. 7=Saturday
}

func NewService(orgRepo organization.OrganizationRepository, weekStartDay int) *Service {
	return &Service{orgRepo: orgRepo, weekStartDay: weekStartDay}
}

// WeekRange returns the 7-day window containing date, anchored at the
// configured week start day. Every date falls in exactly one window.
func (s *Service) WeekRange(date time.Time) Window {
	return WeekRange(date, s.weekStartDay)
}

// WeekRange is the anchor arithmetic behind Service.WeekRange.
func WeekRange(date time.Time, weekStartDay int) Window {
	d := utils.DateOnly(date)
	wd := int(d.Weekday()) + 1 // 1=Sunday .. 7=Saturday
	back := (wd - weekStartDay + 7) % 7
	start := d.AddDate(0, 0, -back)
	return Window{Start: start, End: start.AddDate(0, 0, 6)}
}

// FiscalMonthRange returns the fiscal month window containing date for
// the organization. A missing fiscal year is a configuration error and
// fails the whole operation.
func (s *Service) FiscalMonthRange(ctx context.Context, organizationID string, date time.Time) (Window, error) {
	fy, err := s.orgRepo.GetFiscalYearFor(ctx, organizationID, date)
	if err != nil {
		return Window{}, fmt.Errorf("failed to resolve fiscal year: %w", err)
	}
	month, ok := fy.MonthFor(date)
	if !ok {
		return Window{}, organization.ErrNoFiscalYear
	}
	return Window{Start: month.StartAt, End: month.EndAt}, nil
}

// Check enforces a period ceiling. Self-service submissions must fit
// existing+new inside the limit; HR and supervisor retroactive edits
// only require the existing sum to already be inside it, so an edit is
// not blocked by the approval it is revising.
func (s *Service) Check(kind Kind, mode approval.Mode, newDuration, existingSum, limit time.Duration) error {
	var over bool
	if mode == approval.ModeHR || mode == approval.ModeSupervisor {
		over = existingSum > limit
	} else {
		over = existingSum+newDuration > limit
	}
	if !over {
		return nil
	}
	return &ExceededError{
		Kind:      kind,
		Limit:     limit,
		Existing:  existingSum,
		Requested: newDuration,
	}
}
