package shiftcalendar

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShiftRepo struct {
	setting shift.AttendanceSetting
	shifts  map[string]shift.WorkShift
}

func (f *fakeShiftRepo) GetShift(_ context.Context, id string) (shift.WorkShift, error) {
	ws, ok := f.shifts[id]
	if !ok {
		return shift.WorkShift{}, shift.ErrShiftNotFound
	}
	return ws, nil
}

func (f *fakeShiftRepo) GetSettingForUser(_ context.Context, _ string, date time.Time) (shift.AttendanceSetting, error) {
	if !f.setting.AppliesOn(date) {
		return shift.AttendanceSetting{}, shift.ErrSettingNotFound
	}
	return f.setting, nil
}

func (f *fakeShiftRepo) SaveSetting(_ context.Context, s shift.AttendanceSetting) (shift.AttendanceSetting, error) {
	f.setting = s
	return s, nil
}

type fakeOrgRepo struct {
	holidays map[string]bool
}

func (f *fakeOrgRepo) GetByID(_ context.Context, id string) (organization.Organization, error) {
	return organization.Organization{ID: id}, nil
}

func (f *fakeOrgRepo) IsHoliday(_ context.Context, _ string, date time.Time) (bool, error) {
	return f.holidays[date.Format("2006-01-02")], nil
}

func (f *fakeOrgRepo) GetFiscalYearFor(_ context.Context, _ string, _ time.Time) (organization.FiscalYear, error) {
	return organization.FiscalYear{}, organization.ErrNoFiscalYear
}

// weekdayShift works Monday-Friday 09:00-18:00.
func weekdayShift() shift.WorkShift {
	var days []shift.WorkShiftDay
	for d := 2; d <= 6; d++ { // 2=Monday .. 6=Friday
		days = append(days, shift.WorkShiftDay{
			ID:  "d",
			Day: d,
			Timings: []shift.WorkTiming{{
				ID:             "t",
				StartTime:      9 * time.Hour,
				EndTime:        18 * time.Hour,
				WorkingMinutes: 480,
			}},
		})
	}
	return shift.WorkShift{ID: "shift-1", Days: days}
}

// nightShift works Monday-Friday 22:00-06:00 next day.
func nightShift() shift.WorkShift {
	var days []shift.WorkShiftDay
	for d := 2; d <= 6; d++ {
		days = append(days, shift.WorkShiftDay{
			ID:  "d",
			Day: d,
			Timings: []shift.WorkTiming{{
				ID:        "t",
				StartTime: 22 * time.Hour,
				EndTime:   6 * time.Hour,
				Extends:   true,
			}},
		})
	}
	return shift.WorkShift{ID: "shift-n", Days: days}
}

func calendarWith(ws shift.WorkShift) *Service {
	shiftID := ws.ID
	repo := &fakeShiftRepo{
		setting: shift.AttendanceSetting{ID: "as-1", UserID: "emp", WorkShiftID: &shiftID},
		shifts:  map[string]shift.WorkShift{ws.ID: ws},
	}
	return NewService(repo, &fakeOrgRepo{holidays: map[string]bool{}}, 3*time.Hour)
}

func at(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

func TestTimingInfo_DayShiftAttribution(t *testing.T) {
	cal := calendarWith(weekdayShift())

	// Wednesday morning punch belongs to Wednesday
	attr, err := cal.TimingInfo(context.Background(), "emp", at(2026, 3, 4, 8, 50))
	require.NoError(t, err)
	assert.Equal(t, at(2026, 3, 4, 0, 0), attr.Date)

	// late evening punch still belongs to the same day
	attr, err = cal.TimingInfo(context.Background(), "emp", at(2026, 3, 4, 20, 30))
	require.NoError(t, err)
	assert.Equal(t, at(2026, 3, 4, 0, 0), attr.Date)
}

func TestTimingInfo_NightShiftCrossesMidnight(t *testing.T) {
	cal := calendarWith(nightShift())

	// 05:30 Thursday is the tail of Wednesday's 22:00-06:00 window
	attr, err := cal.TimingInfo(context.Background(), "emp", at(2026, 3, 5, 5, 30))
	require.NoError(t, err)
	assert.Equal(t, at(2026, 3, 4, 0, 0), attr.Date)

	// 21:40 Thursday is the head of Thursday's own window
	attr, err = cal.TimingInfo(context.Background(), "emp", at(2026, 3, 5, 21, 40))
	require.NoError(t, err)
	assert.Equal(t, at(2026, 3, 5, 0, 0), attr.Date)
}

func TestTimingInfo_OffdayPunchStaysWithPreviousDay(t *testing.T) {
	cal := calendarWith(nightShift())

	// Saturday 02:00 is an off-day, but Friday's night window ends at
	// 06:00 Saturday; within the waiting period the punch belongs to
	// Friday.
	attr, err := cal.TimingInfo(context.Background(), "emp", at(2026, 3, 7, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, at(2026, 3, 6, 0, 0), attr.Date)

	// Saturday 08:30 is still within end+3h
	attr, err = cal.TimingInfo(context.Background(), "emp", at(2026, 3, 7, 8, 30))
	require.NoError(t, err)
	assert.Equal(t, at(2026, 3, 6, 0, 0), attr.Date)
}

func TestTimingInfo_NoShiftAnywhere(t *testing.T) {
	repo := &fakeShiftRepo{setting: shift.AttendanceSetting{ID: "as-1", UserID: "emp"}}
	cal := NewService(repo, &fakeOrgRepo{holidays: map[string]bool{}}, 3*time.Hour)

	_, err := cal.TimingInfo(context.Background(), "emp", at(2026, 3, 4, 9, 0))
	assert.ErrorIs(t, err, shift.ErrNoTimingForDate)
}

func TestCoefficient_Precedence(t *testing.T) {
	shiftID := "shift-1"
	repo := &fakeShiftRepo{
		setting: shift.AttendanceSetting{ID: "as-1", UserID: "emp", WorkShiftID: &shiftID},
		shifts:  map[string]shift.WorkShift{"shift-1": weekdayShift()},
	}
	orgRepo := &fakeOrgRepo{holidays: map[string]bool{"2026-03-04": true}}
	cal := NewService(repo, orgRepo, 3*time.Hour)

	// holiday beats workday
	coeff, err := cal.Coefficient(context.Background(), "emp", at(2026, 3, 4, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "Holiday", string(coeff))

	// scheduled weekday
	coeff, err = cal.Coefficient(context.Background(), "emp", at(2026, 3, 5, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "Workday", string(coeff))

	// Sunday is an off-day under the shift
	coeff, err = cal.Coefficient(context.Background(), "emp", at(2026, 3, 8, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "Offday", string(coeff))
}
