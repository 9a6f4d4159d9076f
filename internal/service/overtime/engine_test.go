package overtime

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time        { return &t }
func durPtr(d time.Duration) *time.Duration { return &d }
func day(hour, minute int) time.Time        { return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC) }

func workdaySheet(punchIn, punchOut time.Time) timesheet.TimeSheet {
	return timesheet.TimeSheet{
		Coefficient:      timesheet.CoefficientWorkday,
		LeaveCoefficient: timesheet.LeaveNone,
		ExpectedPunchIn:  timePtr(day(9, 0)),
		ExpectedPunchOut: timePtr(day(18, 0)),
		PunchIn:          timePtr(punchIn),
		PunchOut:         timePtr(punchOut),
	}
}

func TestComputeEarlyLate_Workday(t *testing.T) {
	engine := NewEngine()
	setting := overtime.Setting{TolerancePolicy: overtime.ToleranceNeither}

	// 30 minutes early in, 45 minutes late out
	early, late := engine.ComputeEarlyLate(workdaySheet(day(8, 30), day(18, 45)), setting)
	assert.Equal(t, 30*time.Minute, early)
	assert.Equal(t, 45*time.Minute, late)

	// on-time punches earn nothing
	early, late = engine.ComputeEarlyLate(workdaySheet(day(9, 0), day(18, 0)), setting)
	assert.Zero(t, early)
	assert.Zero(t, late)

	// missing punch earns nothing
	ts := workdaySheet(day(8, 0), day(19, 0))
	ts.PunchOut = nil
	early, late = engine.ComputeEarlyLate(ts, setting)
	assert.Zero(t, early)
	assert.Zero(t, late)
}

func TestComputeEarlyLate_OffDayCollapsesToEarly(t *testing.T) {
	engine := NewEngine()
	ts := timesheet.TimeSheet{
		Coefficient:      timesheet.CoefficientOffday,
		LeaveCoefficient: timesheet.LeaveNone,
		PunchIn:          timePtr(day(10, 0)),
		PunchOut:         timePtr(day(14, 30)),
	}

	early, late := engine.ComputeEarlyLate(ts, overtime.Setting{})
	assert.Equal(t, 4*time.Hour+30*time.Minute, early)
	assert.Zero(t, late)
}

func TestComputeEarlyLate_FullLeaveWorkdayCollapsesToEarly(t *testing.T) {
	engine := NewEngine()
	ts := workdaySheet(day(10, 0), day(13, 0))
	ts.LeaveCoefficient = timesheet.LeaveFull

	early, late := engine.ComputeEarlyLate(ts, overtime.Setting{})
	assert.Equal(t, 3*time.Hour, early)
	assert.Zero(t, late)
}

func TestComputeEarlyLate_ToleranceBoth(t *testing.T) {
	engine := NewEngine()
	setting := overtime.Setting{
		TolerancePolicy:  overtime.ToleranceBoth,
		ApplicableBefore: 15,
		ApplicableAfter:  15,
	}

	// each side qualifies on its own: the failing late side is zeroed,
	// the passing early side survives
	early, late := engine.ComputeEarlyLate(workdaySheet(day(8, 30), day(18, 10)), setting)
	assert.Equal(t, 30*time.Minute, early)
	assert.Zero(t, late)

	// no early-in at all does not drag down a qualifying late-out
	early, late = engine.ComputeEarlyLate(workdaySheet(day(9, 0), day(18, 30)), setting)
	assert.Zero(t, early)
	assert.Equal(t, 30*time.Minute, late)

	// both sides above tolerance survive intact
	early, late = engine.ComputeEarlyLate(workdaySheet(day(8, 30), day(18, 20)), setting)
	assert.Equal(t, 30*time.Minute, early)
	assert.Equal(t, 20*time.Minute, late)

	// exactly at the tolerance does not qualify
	early, late = engine.ComputeEarlyLate(workdaySheet(day(8, 45), day(18, 0)), setting)
	assert.Zero(t, early)
	assert.Zero(t, late)
}

func TestComputeEarlyLate_ToleranceEither(t *testing.T) {
	engine := NewEngine()
	setting := overtime.Setting{
		TolerancePolicy:  overtime.ToleranceEither,
		ApplicableBefore: 15,
		ApplicableAfter:  15,
	}

	// one passing side keeps both raw sides, including the one under
	// its own tolerance
	early, late := engine.ComputeEarlyLate(workdaySheet(day(8, 30), day(18, 5)), setting)
	assert.Equal(t, 30*time.Minute, early)
	assert.Equal(t, 5*time.Minute, late)

	// neither passing zeroes both
	early, late = engine.ComputeEarlyLate(workdaySheet(day(8, 50), day(18, 10)), setting)
	assert.Zero(t, early)
	assert.Zero(t, late)
}

func TestComputeEarlyLate_ToleranceDeduction(t *testing.T) {
	engine := NewEngine()
	setting := overtime.Setting{
		TolerancePolicy:    overtime.ToleranceBoth,
		ApplicableBefore:   15,
		ApplicableAfter:    15,
		DeductToleranceFor: overtime.DeductBoth,
	}

	// qualifying sides pay the tolerance-deducted value
	early, late := engine.ComputeEarlyLate(workdaySheet(day(8, 30), day(18, 20)), setting)
	assert.Equal(t, 15*time.Minute, early)
	assert.Equal(t, 5*time.Minute, late)

	setting.DeductToleranceFor = overtime.DeductPunchIn
	early, late = engine.ComputeEarlyLate(workdaySheet(day(8, 30), day(18, 20)), setting)
	assert.Equal(t, 15*time.Minute, early)
	assert.Equal(t, 20*time.Minute, late)
}

func TestComputeEarlyLate_FlatReject(t *testing.T) {
	engine := NewEngine()
	setting := overtime.Setting{
		TolerancePolicy:   overtime.ToleranceNeither,
		FlatRejectMinutes: 60,
	}

	early, late := engine.ComputeEarlyLate(workdaySheet(day(8, 40), day(18, 10)), setting)
	assert.Zero(t, early)
	assert.Zero(t, late)

	early, late = engine.ComputeEarlyLate(workdaySheet(day(8, 20), day(18, 30)), setting)
	assert.Equal(t, 40*time.Minute, early)
	assert.Equal(t, 30*time.Minute, late)
}

func TestComputeEarlyLate_DedicatedWorkTime(t *testing.T) {
	engine := NewEngine()
	setting := overtime.Setting{
		TolerancePolicy:          overtime.ToleranceNeither,
		RequireDedicatedWorkTime: true,
	}

	// 40 minutes of unpaid break eat into the 60 earned minutes
	ts := workdaySheet(day(8, 30), day(18, 30))
	ts.UnpaidBreakHours = 40 * time.Minute
	early, late := engine.ComputeEarlyLate(ts, setting)
	assert.Equal(t, 20*time.Minute, early+late)

	// a late arrival recorded in the delta also counts against earnings
	ts = workdaySheet(day(9, 20), day(19, 0))
	ts.PunchInDelta = durPtr(20 * time.Minute)
	early, late = engine.ComputeEarlyLate(ts, setting)
	assert.Zero(t, early)
	assert.Equal(t, 40*time.Minute, late)
}

func TestComputeEarlyLate_SlotRounding(t *testing.T) {
	engine := NewEngine()
	base := overtime.Setting{
		TolerancePolicy:          overtime.ToleranceNeither,
		CalculateOvertimeInSlots: true,
		SlotDuration:             30 * time.Minute,
	}
	ts := workdaySheet(day(8, 20), day(18, 0)) // 40 minutes early

	base.SlotRounding = overtime.SlotRoundDown
	early, _ := engine.ComputeEarlyLate(ts, base)
	assert.Equal(t, 30*time.Minute, early)

	base.SlotRounding = overtime.SlotRoundUp
	early, _ = engine.ComputeEarlyLate(ts, base)
	assert.Equal(t, 60*time.Minute, early)

	base.SlotRounding = overtime.SlotRoundConst
	early, _ = engine.ComputeEarlyLate(ts, base)
	assert.Equal(t, 40*time.Minute, early)

	// under one full slot nothing is paid, whatever the behavior
	base.SlotRounding = overtime.SlotRoundUp
	early, _ = engine.ComputeEarlyLate(workdaySheet(day(8, 40), day(18, 0)), base)
	assert.Zero(t, early)
}

func TestClaimableOvertime_LimitSelection(t *testing.T) {
	engine := NewEngine()
	detail := overtime.EntryDetail{PunchInOvertime: 3 * time.Hour}
	setting := overtime.Setting{
		DailyLimitApplicable: true,
		DailyLimitMinutes:    120,
		LeaveLimitApplicable: true,
		LeaveLimitMinutes:    60,
	}

	workday := timesheet.TimeSheet{Coefficient: timesheet.CoefficientWorkday, LeaveCoefficient: timesheet.LeaveNone}
	assert.Equal(t, 2*time.Hour, engine.ClaimableOvertime(detail, setting, workday))

	// leave limit wins over the day coefficient
	onLeave := workday
	onLeave.LeaveCoefficient = timesheet.LeaveFirstHalf
	assert.Equal(t, time.Hour, engine.ClaimableOvertime(detail, setting, onLeave))

	// no applicable limit means the earned value passes through
	unlimited := overtime.Setting{}
	assert.Equal(t, 3*time.Hour, engine.ClaimableOvertime(detail, unlimited, workday))
}

func TestClaimableOvertime_ActualIfGreater(t *testing.T) {
	engine := NewEngine()
	detail := overtime.EntryDetail{PunchInOvertime: 3 * time.Hour}
	setting := overtime.Setting{
		DailyLimitApplicable:       true,
		DailyLimitMinutes:          120,
		ActualOTIfActualGTApproved: true,
	}
	ts := timesheet.TimeSheet{Coefficient: timesheet.CoefficientWorkday, LeaveCoefficient: timesheet.LeaveNone}

	assert.Equal(t, 3*time.Hour, engine.ClaimableOvertime(detail, setting, ts))
}

func TestNormalize_TieredRates(t *testing.T) {
	engine := NewEngine()
	tiers := []overtime.Rate{
		{OvertimeAfter: decimal.NewFromInt(1), Rate: decimal.NewFromFloat(1.5)},
		{OvertimeAfter: decimal.NewFromInt(2), Rate: decimal.NewFromInt(2)},
	}

	// 3h worked: 1h above the 2h threshold at 2x, 1h between 1h and 2h
	// at 1.5x, residue 1h at 1x.
	normalized, steps := engine.Normalize(3*time.Hour, tiers)
	assert.Equal(t, 4*time.Hour+30*time.Minute, normalized)
	require.Len(t, steps, 3)
	assert.Equal(t, "2", steps[0].Rate)
	assert.Equal(t, "1.5", steps[1].Rate)
	assert.Equal(t, "1", steps[2].Rate)
}

func TestNormalize_StepsReconstructInput(t *testing.T) {
	engine := NewEngine()
	tiers := []overtime.Rate{
		{OvertimeAfter: decimal.NewFromFloat(0.5), Rate: decimal.NewFromFloat(1.25)},
		{OvertimeAfter: decimal.NewFromInt(2), Rate: decimal.NewFromFloat(1.75)},
		{OvertimeAfter: decimal.NewFromInt(4), Rate: decimal.NewFromInt(3)},
	}

	for _, worked := range []time.Duration{
		17 * time.Minute,
		90 * time.Minute,
		3*time.Hour + 11*time.Minute,
		6 * time.Hour,
	} {
		_, steps := engine.Normalize(worked, tiers)
		var total int64
		for _, step := range steps {
			total += step.Seconds
		}
		assert.Equal(t, int64(worked.Seconds()), total, "worked %s", worked)
	}
}

func TestNormalize_NoTiersPaysRateOne(t *testing.T) {
	engine := NewEngine()
	normalized, steps := engine.Normalize(2*time.Hour, nil)
	assert.Equal(t, 2*time.Hour, normalized)
	require.Len(t, steps, 1)
	assert.Equal(t, "1", steps[0].Rate)
}

func TestNormalize_Monotonic(t *testing.T) {
	engine := NewEngine()
	tiers := []overtime.Rate{
		{OvertimeAfter: decimal.NewFromInt(1), Rate: decimal.NewFromInt(2)},
	}

	var previous time.Duration
	for worked := 10 * time.Minute; worked <= 5*time.Hour; worked += 25 * time.Minute {
		normalized, _ := engine.Normalize(worked, tiers)
		assert.GreaterOrEqual(t, normalized, previous)
		previous = normalized
	}
}
