package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	creditsvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/credithour"
	otsvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/overtime"
	presvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/preapproval"
	tssvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/timesheet"
	travelsvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/travel"
)

// EngineJobs wires the attendance engine's periodic work into the
// scheduler. All handlers are idempotent, so overlapping or repeated
// runs are safe.
type EngineJobs struct {
	users       user.UserRepository
	timesheets  *tssvc.Service
	overtime    *otsvc.Service
	credits     *creditsvc.Service
	preApproval *presvc.Service
	travel      *travelsvc.Service
}

func NewEngineJobs(
	users user.UserRepository,
	timesheets *tssvc.Service,
	overtime *otsvc.Service,
	credits *creditsvc.Service,
	preApproval *presvc.Service,
	travel *travelsvc.Service,
) *EngineJobs {
	return &EngineJobs{
		users:       users,
		timesheets:  timesheets,
		overtime:    overtime,
		credits:     credits,
		preApproval: preApproval,
		travel:      travel,
	}
}

func (j *EngineJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("materialize_timesheets", 1*time.Hour, j.MaterializeTimesheets)
	scheduler.AddJob("generate_overtime", 1*time.Hour, j.GenerateOvertime)
	scheduler.AddJob("expire_overtime_claims", 1*time.Hour, j.ExpireOvertimeClaims)
	scheduler.AddJob("convert_pre_approvals", 15*time.Minute, j.ConvertPreApprovals)
	scheduler.AddJob("grant_credit_hours", 15*time.Minute, j.GrantCreditHours)
	scheduler.AddJob("process_travel_days", 15*time.Minute, j.ProcessTravelDays)
}

// MaterializeTimesheets ensures every user has a timesheet row for the
// current day so shift data is resolved before the first punch.
func (j *EngineJobs) MaterializeTimesheets(ctx context.Context) error {
	users, err := j.users.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	now := time.Now().UTC()
	for _, u := range users {
		if _, err := j.timesheets.GetOrCreateTimesheet(ctx, u.ID, now); err != nil {
			slog.Error("Cron: Failed to materialize timesheet",
				"user_id", u.ID,
				"date", now.Format("2006-01-02"),
				"error", err)
		}
	}

	return nil
}

// GenerateOvertime sweeps the previous day's timesheets into overtime
// entries. Only runs during the first hour of the day; generation skips
// timesheets that already have an entry.
func (j *EngineJobs) GenerateOvertime(ctx context.Context) error {
	now := time.Now().UTC()
	if now.Hour() != 0 {
		return nil
	}

	yesterday := now.AddDate(0, 0, -1)
	slog.Info("Cron: Generating overtime entries", "date", yesterday.Format("2006-01-02"))

	return j.overtime.GenerateForDate(ctx, yesterday)
}

// ExpireOvertimeClaims archives unclaimed overtime past its claim
// window.
func (j *EngineJobs) ExpireOvertimeClaims(ctx context.Context) error {
	return j.overtime.ExpireClaims(ctx, time.Now().UTC())
}

// ConvertPreApprovals turns decided pre-approval requests into overtime
// entries once their timesheet is complete.
func (j *EngineJobs) ConvertPreApprovals(ctx context.Context) error {
	return j.preApproval.ConvertDecided(ctx)
}

// GrantCreditHours moves approved credit requests into leave account
// balances once their timesheet is complete.
func (j *EngineJobs) GrantCreditHours(ctx context.Context) error {
	return j.credits.GrantPending(ctx)
}

// ProcessTravelDays materializes synthetic punches for approved travel
// days that have been reached.
func (j *EngineJobs) ProcessTravelDays(ctx context.Context) error {
	return j.travel.ProcessPending(ctx, time.Now().UTC())
}
