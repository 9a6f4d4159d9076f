package travel

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/service/shiftcalendar"
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

func travelCalendar(holidays map[string]bool) *shiftcalendar.Service {
	shiftID := "shift-1"
	var days []shift.WorkShiftDay
	for d := 2; d <= 6; d++ { // Monday through Friday
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
	repo := &fakeShiftRepo{
		setting: shift.AttendanceSetting{ID: "as-1", UserID: "emp", WorkShiftID: &shiftID},
		shifts:  map[string]shift.WorkShift{shiftID: {ID: shiftID, Days: days}},
	}
	return shiftcalendar.NewService(repo, &fakeOrgRepo{holidays: holidays}, 3*time.Hour)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestApplicableDays_SkipsHolidays(t *testing.T) {
	// Wednesday through Friday, Thursday is a public holiday.
	svc := &Service{calendar: travelCalendar(map[string]bool{"2026-03-05": true})}

	days, err := svc.applicableDays(context.Background(), "emp", date(2026, 3, 4), date(2026, 3, 6))
	require.NoError(t, err)

	require.Len(t, days, 2)
	assert.Equal(t, date(2026, 3, 4), days[0])
	assert.Equal(t, date(2026, 3, 6), days[1])
}

func TestApplicableDays_SkipsOffDays(t *testing.T) {
	// Friday through Monday crosses a weekend on a Mon-Fri shift.
	svc := &Service{calendar: travelCalendar(nil)}

	days, err := svc.applicableDays(context.Background(), "emp", date(2026, 3, 6), date(2026, 3, 9))
	require.NoError(t, err)

	require.Len(t, days, 2)
	assert.Equal(t, date(2026, 3, 6), days[0])
	assert.Equal(t, date(2026, 3, 9), days[1])
}

func TestApplicableDays_AllExcludedYieldsNone(t *testing.T) {
	svc := &Service{calendar: travelCalendar(nil)}

	// Saturday and Sunday only.
	days, err := svc.applicableDays(context.Background(), "emp", date(2026, 3, 7), date(2026, 3, 8))
	require.NoError(t, err)
	assert.Empty(t, days)
}
