package shiftcalendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timesheet"
)

// Attribution is the resolved slot for a punch: the calendar date the
// punch belongs to and the work timing it matched.
type Attribution struct {
	Date   time.Time
	Shift  shift.WorkShift
	Timing shift.WorkTiming
}

// Service resolves shifts, timings and day coefficients for users.
type Service struct {
	shiftRepo          shift.ShiftRepository
	orgRepo            organization.OrganizationRepository
	offdayPunchoutWait time.Duration
}

func NewService(shiftRepo shift.ShiftRepository, orgRepo organization.OrganizationRepository, offdayPunchoutWait time.Duration) *Service {
	return &Service{
		shiftRepo:          shiftRepo,
		orgRepo:            orgRepo,
		offdayPunchoutWait: offdayPunchoutWait,
	}
}

// ResolveShift returns the work shift in force for the user on the
// date, along with the attendance setting it came from.
func (s *Service) ResolveShift(ctx context.Context, userID string, date time.Time) (shift.WorkShift, shift.AttendanceSetting, error) {
	setting, err := s.shiftRepo.GetSettingForUser(ctx, userID, date)
	if err != nil {
		return shift.WorkShift{}, shift.AttendanceSetting{}, fmt.Errorf("failed to resolve attendance setting: %w", err)
	}
	if setting.WorkShiftID == nil {
		return shift.WorkShift{}, setting, shift.ErrShiftNotFound
	}
	ws, err := s.shiftRepo.GetShift(ctx, *setting.WorkShiftID)
	if err != nil {
		return shift.WorkShift{}, setting, fmt.Errorf("failed to load work shift: %w", err)
	}
	return ws, setting, nil
}

// TimingInfo attributes a punch instant to a (date, timing) slot. The
// candidate set is built from today's and yesterday's shift days; a
// timing that extends past midnight maps its end to the next day. The
// nearest window start/end wins. On off-days the punch stays with the
// previous day until the configured waiting period after that day's
// last shift end has passed.
func (s *Service) TimingInfo(ctx context.Context, userID string, at time.Time) (*Attribution, error) {
	today := dateOf(at)
	yesterday := today.AddDate(0, 0, -1)

	type candidate struct {
		anchor time.Time
		timing shift.WorkTiming
		ws     shift.WorkShift
		at     time.Time // the window edge used for distance
	}
	var candidates []candidate

	for _, day := range []time.Time{yesterday, today} {
		ws, _, err := s.ResolveShift(ctx, userID, day)
		if err != nil {
			if errors.Is(err, shift.ErrShiftNotFound) || errors.Is(err, shift.ErrSettingNotFound) {
				continue
			}
			return nil, err
		}
		shiftDay, ok := ws.DayFor(day)
		if !ok {
			continue
		}
		for _, timing := range shiftDay.Timings {
			start, end := timing.Window(day)
			candidates = append(candidates, candidate{anchor: day, timing: timing, ws: ws, at: start})
			candidates = append(candidates, candidate{anchor: day, timing: timing, ws: ws, at: end})
		}
	}

	if len(candidates) == 0 {
		return nil, shift.ErrNoTimingForDate
	}

	// Off-day today: stay with the previous day's shift until the
	// waiting period after its last end has elapsed.
	todayShift, _, err := s.ResolveShift(ctx, userID, today)
	todayIsOff := false
	if err == nil {
		if _, ok := todayShift.DayFor(today); !ok {
			todayIsOff = true
		}
	} else if errors.Is(err, shift.ErrShiftNotFound) || errors.Is(err, shift.ErrSettingNotFound) {
		todayIsOff = true
	} else {
		return nil, err
	}
	if todayIsOff {
		var lastEnd time.Time
		for _, c := range candidates {
			if c.anchor.Equal(yesterday) && c.at.After(lastEnd) {
				lastEnd = c.at
			}
		}
		if !lastEnd.IsZero() && at.Before(lastEnd.Add(s.offdayPunchoutWait)) {
			best := candidates[0]
			for _, c := range candidates[1:] {
				if c.anchor.Equal(yesterday) && absDiff(at, c.at) < absDiff(at, best.at) {
					best = c
				}
			}
			return &Attribution{Date: best.anchor, Shift: best.ws, Timing: best.timing}, nil
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if absDiff(at, c.at) < absDiff(at, best.at) {
			best = c
		}
	}
	return &Attribution{Date: best.anchor, Shift: best.ws, Timing: best.timing}, nil
}

// Coefficient classifies a date for the user: holiday beats off-day
// beats workday.
func (s *Service) Coefficient(ctx context.Context, userID string, date time.Time) (timesheet.Coefficient, error) {
	holiday, err := s.orgRepo.IsHoliday(ctx, userID, date)
	if err != nil {
		return "", fmt.Errorf("failed to check holiday: %w", err)
	}
	if holiday {
		return timesheet.CoefficientHoliday, nil
	}
	ws, _, err := s.ResolveShift(ctx, userID, date)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) || errors.Is(err, shift.ErrSettingNotFound) {
			return timesheet.CoefficientOffday, nil
		}
		return "", err
	}
	if _, ok := ws.DayFor(date); !ok {
		return timesheet.CoefficientOffday, nil
	}
	return timesheet.CoefficientWorkday, nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func absDiff(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
