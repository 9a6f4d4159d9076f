package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	// GetShift returns a work shift with its days and timings.
	GetShift(ctx context.Context, id string) (WorkShift, error)

	// GetSettingForUser returns the attendance setting in force for the
	// user on the date, honoring applicable_from/to windows.
	GetSettingForUser(ctx context.Context, userID string, date time.Time) (AttendanceSetting, error)

	// SaveSetting upserts an attendance setting (administrative path).
	SaveSetting(ctx context.Context, setting AttendanceSetting) (AttendanceSetting, error)
}
