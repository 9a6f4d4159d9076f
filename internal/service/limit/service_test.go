package limit

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekRange_TilesWithoutGaps(t *testing.T) {
	// week anchored on Monday (2)
	w := WeekRange(date(2026, 3, 4), 2) // a Wednesday
	assert.Equal(t, date(2026, 3, 2), w.Start)
	assert.Equal(t, date(2026, 3, 8), w.End)

	// the anchor day starts its own window
	w = WeekRange(date(2026, 3, 2), 2)
	assert.Equal(t, date(2026, 3, 2), w.Start)

	// the day before the anchor closes the previous window
	w = WeekRange(date(2026, 3, 1), 2)
	assert.Equal(t, date(2026, 2, 23), w.Start)
	assert.Equal(t, date(2026, 3, 1), w.End)
}

func TestWeekRange_SundayAnchor(t *testing.T) {
	w := WeekRange(date(2026, 3, 4), 1)
	assert.Equal(t, date(2026, 3, 1), w.Start)
	assert.Equal(t, date(2026, 3, 7), w.End)
}

func TestWeekRange_EveryDateFallsInExactlyOneWindow(t *testing.T) {
	start := date(2026, 1, 1)
	var prev Window
	for i := 0; i < 60; i++ {
		d := start.AddDate(0, 0, i)
		w := WeekRange(d, 4)
		require.False(t, d.Before(w.Start), "date %v before window start %v", d, w.Start)
		require.False(t, d.After(w.End), "date %v after window end %v", d, w.End)
		if !prev.Start.IsZero() && !w.Start.Equal(prev.Start) {
			require.Equal(t, prev.End.AddDate(0, 0, 1), w.Start, "windows must tile")
		}
		prev = w
	}
}

func TestCheck_SelfCountsNewDuration(t *testing.T) {
	s := NewService(nil, 1)

	// fits exactly
	err := s.Check(KindWeekly, approval.ModeSelf, 2*time.Hour, 8*time.Hour, 10*time.Hour)
	assert.NoError(t, err)

	// one second over
	err = s.Check(KindWeekly, approval.ModeSelf, 2*time.Hour+time.Second, 8*time.Hour, 10*time.Hour)
	var exceeded *ExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, KindWeekly, exceeded.Kind)
	assert.Equal(t, 10*time.Hour, exceeded.Limit)
	assert.Equal(t, 8*time.Hour, exceeded.Existing)
}

func TestCheck_RetroactiveEditsIgnoreNewDuration(t *testing.T) {
	s := NewService(nil, 1)

	// HR edits only fail when the existing sum is already over
	err := s.Check(KindDaily, approval.ModeHR, 5*time.Hour, 3*time.Hour, 4*time.Hour)
	assert.NoError(t, err)

	err = s.Check(KindDaily, approval.ModeHR, time.Minute, 5*time.Hour, 4*time.Hour)
	assert.Error(t, err)

	// supervisors get the same treatment
	err = s.Check(KindDaily, approval.ModeSupervisor, 5*time.Hour, 3*time.Hour, 4*time.Hour)
	assert.NoError(t, err)
}

func TestExceededError_Message(t *testing.T) {
	err := &ExceededError{
		Kind:      KindDaily,
		Limit:     4 * time.Hour,
		Existing:  3*time.Hour + 30*time.Minute,
		Requested: 45 * time.Minute,
	}
	assert.Equal(t, "daily limit exceeded: limit 4:00:00, existing 3:30:00, requested 0:45:00", err.Error())
}
