package overtime

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// Engine holds the pure overtime arithmetic: early/late extraction,
// claimable capping and tiered-rate normalization. It has no state and
// no storage access.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// ComputeEarlyLate derives the raw earned overtime from a completed
// timesheet. Workdays split it into early (before shift start) and
// late (after shift end); off-days, holidays and full-leave workdays
// collapse the whole worked span into the early slot with zero late.
func (e *Engine) ComputeEarlyLate(ts timesheet.TimeSheet, setting overtime.Setting) (early, late time.Duration) {
	if ts.PunchIn == nil || ts.PunchOut == nil {
		return 0, 0
	}

	offDay := ts.Coefficient == timesheet.CoefficientOffday || ts.Coefficient == timesheet.CoefficientHoliday
	fullLeaveWorkday := ts.Coefficient == timesheet.CoefficientWorkday && ts.LeaveCoefficient == timesheet.LeaveFull

	if offDay || fullLeaveWorkday {
		early = ts.PunchOut.Sub(*ts.PunchIn)
		if early < 0 {
			early = 0
		}
		early = e.applyFlatReject(early, 0, setting)
		early = e.trimToSlot(early, setting)
		return early, 0
	}

	if ts.ExpectedPunchIn == nil || ts.ExpectedPunchOut == nil {
		return 0, 0
	}

	early = ts.ExpectedPunchIn.Sub(*ts.PunchIn)
	if early < 0 {
		early = 0
	}
	late = ts.PunchOut.Sub(*ts.ExpectedPunchOut)
	if late < 0 {
		late = 0
	}

	if setting.RequireDedicatedWorkTime {
		early, late = e.compensateDedicatedTime(ts, early, late)
	}

	early, late = e.applyTolerances(early, late, setting)

	total := e.applyFlatReject(early, late, setting)
	if total == 0 {
		return 0, 0
	}

	early = e.trimToSlot(early, setting)
	late = e.trimToSlot(late, setting)
	return early, late
}

// compensateDedicatedTime pays overtime only for time beyond the full
// dedicated shift: lateness, early departure and unpaid breaks eat into
// the earned values, late side first.
func (e *Engine) compensateDedicatedTime(ts timesheet.TimeSheet, early, late time.Duration) (time.Duration, time.Duration) {
	var lost time.Duration
	if ts.PunchInDelta != nil && *ts.PunchInDelta > 0 {
		lost += *ts.PunchInDelta
	}
	if ts.PunchOutDelta != nil && *ts.PunchOutDelta < 0 {
		lost += -*ts.PunchOutDelta
	}
	lost += ts.UnpaidBreakHours

	if lost >= late {
		lost -= late
		late = 0
	} else {
		late -= lost
		lost = 0
	}
	if lost >= early {
		early = 0
	} else {
		early -= lost
	}
	return early, late
}

// applyTolerances gates earned overtime on the applicable_before/after
// thresholds. A side qualifies when it strictly exceeds its tolerance.
// Both gates each side on its own; Either keeps both raw sides when at
// least one qualifies. The deduction policy then substitutes the
// tolerance-deducted value on the sides it names.
func (e *Engine) applyTolerances(early, late time.Duration, setting overtime.Setting) (time.Duration, time.Duration) {
	earlyQ := early - time.Duration(setting.ApplicableBefore)*time.Minute
	if earlyQ < 0 {
		earlyQ = 0
	}
	lateQ := late - time.Duration(setting.ApplicableAfter)*time.Minute
	if lateQ < 0 {
		lateQ = 0
	}
	passIn := earlyQ > 0
	passOut := lateQ > 0

	switch setting.TolerancePolicy {
	case overtime.ToleranceBoth:
		if !passIn {
			early = 0
		}
		if !passOut {
			late = 0
		}
	case overtime.ToleranceEither:
		if !passIn && !passOut {
			early, late = 0, 0
		}
	case overtime.TolerancePunchInOnly:
		if !passIn {
			early = 0
		}
	case overtime.TolerancePunchOutOnly:
		if !passOut {
			late = 0
		}
	case overtime.ToleranceNeither:
		// no gating
	}

	switch setting.DeductToleranceFor {
	case overtime.DeductPunchIn:
		early = earlyQ
	case overtime.DeductPunchOut:
		late = lateQ
	case overtime.DeductBoth:
		early, late = earlyQ, lateQ
	}
	return early, late
}

// applyFlatReject zeroes the whole day when the combined earned value
// is below the organization's floor, returning the surviving total.
func (e *Engine) applyFlatReject(early, late time.Duration, setting overtime.Setting) time.Duration {
	total := early + late
	if setting.FlatRejectMinutes > 0 && total < time.Duration(setting.FlatRejectMinutes)*time.Minute {
		return 0
	}
	return total
}

// trimToSlot snaps a value to slot multiples when slot calculation is
// enabled. Anything under one full slot is discarded regardless of the
// remainder behavior.
func (e *Engine) trimToSlot(d time.Duration, setting overtime.Setting) time.Duration {
	if !setting.CalculateOvertimeInSlots || setting.SlotDuration <= 0 {
		return d
	}
	slot := setting.SlotDuration
	quotient := d / slot
	remainder := d % slot
	if quotient == 0 {
		return 0
	}
	switch setting.SlotRounding {
	case overtime.SlotRoundUp:
		if remainder > 0 {
			quotient++
		}
	case overtime.SlotRoundConst:
		return d
	case overtime.SlotRoundDown:
		// keep quotient
	}
	return quotient * slot
}

// ClaimableOvertime caps the earned total against the applicable limit.
// Leave beats the day coefficient when selecting the limit. When the
// actual-if-greater escape hatch is set and the earned value exceeds
// the limit, the earned value is returned uncapped.
func (e *Engine) ClaimableOvertime(detail overtime.EntryDetail, setting overtime.Setting, ts timesheet.TimeSheet) time.Duration {
	limitMinutes := overtime.UnlimitedMinutes

	if ts.LeaveCoefficient != timesheet.LeaveNone {
		if setting.LeaveLimitApplicable {
			limitMinutes = setting.LeaveLimitMinutes
		}
	} else {
		switch ts.Coefficient {
		case timesheet.CoefficientHoliday:
			if setting.HolidayLimitApplicable {
				limitMinutes = setting.HolidayLimitMinutes
			}
		case timesheet.CoefficientOffday:
			if setting.OffDayLimitApplicable {
				limitMinutes = setting.OffDayLimitMinutes
			}
		default:
			if setting.DailyLimitApplicable {
				limitMinutes = setting.DailyLimitMinutes
			}
		}
	}

	limit := time.Duration(limitMinutes) * time.Minute
	actual := detail.Total()
	if actual > limit && setting.ActualOTIfActualGTApproved {
		return actual
	}
	if actual > limit {
		return limit
	}
	return actual
}

// Normalize walks the rate tiers from the highest threshold down,
// peeling off the portion of worked time above each threshold and
// multiplying it by that tier's rate. The residue below the lowest
// tier pays at rate 1. The returned steps sum to the input exactly.
func (e *Engine) Normalize(worked time.Duration, tiers []overtime.Rate) (time.Duration, []overtime.NormalizationStep) {
	workedSecs := int64(worked.Seconds())
	if workedSecs <= 0 {
		return 0, nil
	}

	sorted := make([]overtime.Rate, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OvertimeAfter.GreaterThan(sorted[j].OvertimeAfter)
	})

	normalized := decimal.Zero
	remaining := workedSecs
	var steps []overtime.NormalizationStep

	for _, tier := range sorted {
		threshold := tier.OvertimeAfter.Mul(decimal.NewFromInt(3600)).IntPart()
		if threshold >= remaining {
			continue
		}
		portion := remaining - threshold
		session := tier.Rate.Mul(decimal.NewFromInt(portion))
		normalized = normalized.Add(session)
		steps = append(steps, overtime.NormalizationStep{
			Seconds:           portion,
			TierThresholdSecs: threshold,
			NormalizedSeconds: session.IntPart(),
			Rate:              tier.Rate.String(),
		})
		remaining = threshold
	}

	if remaining > 0 {
		normalized = normalized.Add(decimal.NewFromInt(remaining))
		steps = append(steps, overtime.NormalizationStep{
			Seconds:           remaining,
			TierThresholdSecs: 0,
			NormalizedSeconds: remaining,
			Rate:              "1",
		})
	}

	return time.Duration(normalized.IntPart()) * time.Second, steps
}

// RateDayType maps a timesheet's classification to the rate segment.
func RateDayType(ts timesheet.TimeSheet) overtime.RateDayType {
	if ts.LeaveCoefficient != timesheet.LeaveNone {
		return overtime.RateLeave
	}
	switch ts.Coefficient {
	case timesheet.CoefficientHoliday:
		return overtime.RateHoliday
	case timesheet.CoefficientOffday:
		return overtime.RateOffday
	default:
		return overtime.RateWorkday
	}
}
