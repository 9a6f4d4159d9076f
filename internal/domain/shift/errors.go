package shift

import "errors"

var (
	ErrShiftNotFound     = errors.New("work shift not found")
	ErrSettingNotFound   = errors.New("no attendance setting assigned")
	ErrShiftAndHours     = errors.New("work shift and working hours are mutually exclusive")
	ErrNoTimingForDate   = errors.New("no work timing defined for the date")
	ErrSettingNotApplied = errors.New("attendance setting is not applicable on the date")
)
