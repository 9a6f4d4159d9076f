package preapproval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/preapproval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	approvalsvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/service/limit"
	otsvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/overtime"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Service owns pre-approval overtime: requests filed before the work
// happens, their approval workflow, and the conversion job that turns
// decided requests into overtime entries once the day's timesheet is
// complete.
type Service struct {
	db        *database.DB
	repo      preapproval.Repository
	otRepo    overtime.Repository
	tsRepo    timesheet.TimeSheetRepository
	shiftRepo shift.ShiftRepository
	users     user.UserRepository
	engine    *otsvc.Engine
	workflow  *approvalsvc.Engine
	limits    *limit.Service
	notifier  notification.Service

	// convertOn is the status a request must reach before conversion:
	// Approved normally, Confirmed when the deployment requires an HR
	// confirmation on top.
	convertOn approval.Status
}

func NewService(
	db *database.DB,
	repo preapproval.Repository,
	otRepo overtime.Repository,
	tsRepo timesheet.TimeSheetRepository,
	shiftRepo shift.ShiftRepository,
	users user.UserRepository,
	engine *otsvc.Engine,
	workflow *approvalsvc.Engine,
	limits *limit.Service,
	notifier notification.Service,
	requireConfirmation bool,
) *Service {
	convertOn := approval.StatusApproved
	if requireConfirmation {
		convertOn = approval.StatusConfirmed
	}
	return &Service{
		db:        db,
		repo:      repo,
		otRepo:    otRepo,
		tsRepo:    tsRepo,
		shiftRepo: shiftRepo,
		users:     users,
		engine:    engine,
		workflow:  workflow,
		limits:    limits,
		notifier:  notifier,
		convertOn: convertOn,
	}
}

// CreateRequest validates and stores a pre-approval for a future (or
// current) date. Only users whose overtime setting requires prior
// approval may file one.
func (s *Service) CreateRequest(ctx context.Context, input preapproval.CreateInput, actorID string, mode approval.Mode) (preapproval.Overtime, error) {
	otSetting, err := s.settingFor(ctx, input.SenderID, input.Date)
	if err != nil {
		return preapproval.Overtime{}, err
	}
	if !otSetting.RequirePriorApproval {
		return preapproval.Overtime{}, preapproval.ErrNotEnabled
	}

	open, err := s.repo.GetOpenForDate(ctx, input.SenderID, input.Date)
	if err != nil {
		return preapproval.Overtime{}, fmt.Errorf("checking open pre approvals: %w", err)
	}
	if open != nil {
		return preapproval.Overtime{}, preapproval.ErrDuplicateOpenRequest
	}

	sender, err := s.users.GetByID(ctx, input.SenderID)
	if err != nil {
		return preapproval.Overtime{}, err
	}
	if err := s.validateLimits(ctx, otSetting, sender, input, mode, ""); err != nil {
		return preapproval.Overtime{}, err
	}

	req := preapproval.Overtime{
		ID:             uuid.NewString(),
		Sender:         input.SenderID,
		Recipient:      input.SenderID,
		Status:         approval.StatusRequested,
		Date:           utils.DateOnly(input.Date),
		Duration:       input.Duration,
		RequestRemarks: input.Remarks,
	}
	recipient, err := s.workflow.NextRecipient(ctx, &req, approval.StatusRequested)
	if err != nil {
		return preapproval.Overtime{}, err
	}
	req.Recipient = recipient

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if req, err = s.repo.Create(txCtx, req); err != nil {
			return fmt.Errorf("creating pre approval: %w", err)
		}
		return s.repo.CreateHistory(txCtx, preapproval.History{
			ID:          uuid.NewString(),
			RequestID:   req.ID,
			ActorID:     actorID,
			RecipientID: req.Recipient,
			Action:      approval.StatusRequested,
			Remark:      input.Remarks,
		})
	})
	if err != nil {
		return preapproval.Overtime{}, err
	}

	s.notify(ctx, req.Recipient, &actorID, notification.TypeClaimRequested,
		"Overtime pre approval requested",
		fmt.Sprintf("A pre approval of %s for %s awaits your action.",
			utils.HumanizeInterval(req.Duration), req.Date.Format(time.DateOnly)),
		map[string]interface{}{"request_id": req.ID})
	return req, nil
}

// PerformAction runs one workflow transition on a pre-approval.
func (s *Service) PerformAction(ctx context.Context, requestID, actorID string, mode approval.Mode, action, remark string) (preapproval.Overtime, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return preapproval.Overtime{}, err
	}

	target, err := approvalsvc.ActionStatus(action)
	if err != nil {
		return preapproval.Overtime{}, err
	}
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return preapproval.Overtime{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		history, err := s.workflow.Transition(txCtx, &req, actor, mode, target, approvalsvc.RequestPolicy(), remark)
		if err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, req); err != nil {
			return fmt.Errorf("updating pre approval: %w", err)
		}
		return s.repo.CreateHistory(txCtx, history)
	})
	if err != nil {
		return preapproval.Overtime{}, err
	}
	return req, nil
}

// Edit changes the duration of a still-pending request. Only the
// sender may edit, and only before a decision.
func (s *Service) Edit(ctx context.Context, requestID, actorID string, duration time.Duration, remarks string) (preapproval.Overtime, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return preapproval.Overtime{}, err
	}
	if req.Sender != actorID {
		return preapproval.Overtime{}, approval.ErrNotRecipient
	}
	if req.Status != approval.StatusRequested && req.Status != approval.StatusForwarded {
		return preapproval.Overtime{}, preapproval.ErrEditNotAllowed
	}

	req.Duration = duration
	req.RequestRemarks = remarks
	if err := s.repo.Update(ctx, req); err != nil {
		return preapproval.Overtime{}, fmt.Errorf("updating pre approval: %w", err)
	}
	return req, nil
}

// ConvertDecided walks decided pre-approvals without an overtime entry
// and materializes them. A request whose timesheet is still open waits
// for the next run; the job is idempotent because the entry link is
// written in the same transaction as the entry.
func (s *Service) ConvertDecided(ctx context.Context) error {
	pending, err := s.repo.ListConvertible(ctx, s.convertOn)
	if err != nil {
		return fmt.Errorf("listing convertible pre approvals: %w", err)
	}
	for _, req := range pending {
		if err := s.convert(ctx, req); err != nil {
			slog.Error("Pre approval conversion failed", "request_id", req.ID, "error", err)
		}
	}
	return nil
}

func (s *Service) convert(ctx context.Context, req preapproval.Overtime) error {
	ts, err := s.tsRepo.GetByUserAndDate(ctx, req.Sender, req.Date)
	if err != nil {
		return fmt.Errorf("loading timesheet: %w", err)
	}
	if ts == nil || !ts.IsPresent || ts.PunchOut == nil {
		return nil
	}

	otSetting, err := s.settingFor(ctx, req.Sender, req.Date)
	if err != nil {
		if errors.Is(err, shift.ErrSettingNotFound) {
			return nil
		}
		return err
	}

	early, late := s.engine.ComputeEarlyLate(*ts, otSetting)
	earned := early + late

	claimed := req.Duration
	if otSetting.ReduceOTIfActualLTApproved && earned < claimed {
		claimed = earned
	}
	if otSetting.ActualOTIfActualGTApproved && earned > claimed {
		claimed = earned
	}

	entry := overtime.Entry{
		ID:            uuid.NewString(),
		UserID:        req.Sender,
		TimeSheetID:   ts.ID,
		SettingID:     otSetting.ID,
		PreApprovalID: &req.ID,
	}
	detail := overtime.EntryDetail{
		ID:               uuid.NewString(),
		EntryID:          entry.ID,
		PunchInOvertime:  early,
		PunchOutOvertime: late,
		ClaimedOvertime:  claimed,
	}
	detail.NormalizedOvertime, _ = s.engine.Normalize(claimed, otSetting.RatesFor(otsvc.RateDayType(*ts)))

	// post approval re-opens the claim in front of the supervisor chain;
	// otherwise the pre-approval decision carries over.
	claim := overtime.Claim{
		ID:        uuid.NewString(),
		EntryID:   entry.ID,
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Status:    approval.StatusApproved,
	}
	if otSetting.RequirePostApprovalOfPreApproved {
		recipient, err := s.workflow.NextRecipient(ctx, &claim, approval.StatusRequested)
		if err != nil {
			return err
		}
		claim.Status = approval.StatusRequested
		claim.Recipient = recipient
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if entry, err = s.otRepo.CreateEntry(txCtx, entry); err != nil {
			return fmt.Errorf("creating overtime entry: %w", err)
		}
		if detail, err = s.otRepo.CreateDetail(txCtx, detail); err != nil {
			return fmt.Errorf("creating overtime detail: %w", err)
		}
		if claim, err = s.otRepo.CreateClaim(txCtx, claim); err != nil {
			return fmt.Errorf("creating overtime claim: %w", err)
		}
		if err := s.otRepo.CreateClaimHistory(txCtx, overtime.ClaimHistory{
			ID:          uuid.NewString(),
			ClaimID:     claim.ID,
			ActorID:     user.SystemActorID,
			RecipientID: claim.Recipient,
			Action:      claim.Status,
			Remark:      "Generated from a pre approved overtime request.",
		}); err != nil {
			return err
		}
		req.OvertimeEntryID = &entry.ID
		return s.repo.Update(txCtx, req)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, req.Sender, nil, notification.TypeOvertimeGenerated,
		"Pre approved overtime generated",
		fmt.Sprintf("Overtime of %s was generated for %s from your pre approval.",
			utils.HumanizeInterval(claimed), req.Date.Format(time.DateOnly)),
		map[string]interface{}{"entry_id": entry.ID, "claim_id": claim.ID})
	return nil
}

// validateLimits checks the weekly and fiscal-monthly ceilings of the
// overtime setting against already pre-approved durations; the daily
// ceiling is enforced at claim time by the claimable cap.
func (s *Service) validateLimits(ctx context.Context, otSetting overtime.Setting, sender user.User, input preapproval.CreateInput, mode approval.Mode, excludeID string) error {
	type check struct {
		kind       limit.Kind
		applicable bool
		minutes    int
		window     limit.Window
	}
	date := utils.DateOnly(input.Date)
	checks := []check{
		{limit.KindWeekly, otSetting.WeeklyLimitApplicable, otSetting.WeeklyLimitMinutes, s.limits.WeekRange(date)},
	}
	if otSetting.MonthlyLimitApplicable {
		window, err := s.limits.FiscalMonthRange(ctx, sender.OrganizationID, date)
		if err != nil {
			return err
		}
		checks = append(checks, check{limit.KindMonthly, true, otSetting.MonthlyLimitMinutes, window})
	}

	for _, c := range checks {
		if !c.applicable {
			continue
		}
		existing, err := s.repo.SumWindow(ctx, sender.ID, c.window.Start, c.window.End, excludeID)
		if err != nil {
			return fmt.Errorf("aggregating %s overtime: %w", c.kind, err)
		}
		if err := s.limits.Check(c.kind, mode, input.Duration, existing, time.Duration(c.minutes)*time.Minute); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) settingFor(ctx context.Context, userID string, date time.Time) (overtime.Setting, error) {
	setting, err := s.shiftRepo.GetSettingForUser(ctx, userID, date)
	if err != nil {
		return overtime.Setting{}, err
	}
	if !setting.EnableOvertime || setting.OvertimeSettingID == nil {
		return overtime.Setting{}, overtime.ErrSettingNotFound
	}
	return s.otRepo.GetSetting(ctx, *setting.OvertimeSettingID)
}

func (s *Service) actor(ctx context.Context, actorID string) (user.User, error) {
	if actorID == user.SystemActorID {
		return user.SystemActor(), nil
	}
	return s.users.GetByID(ctx, actorID)
}

func (s *Service) notify(ctx context.Context, recipientID string, senderID *string, nType notification.NotificationType, title, message string, data map[string]interface{}) {
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		slog.Warn("Notification recipient lookup failed", "user_id", recipientID, "error", err)
		return
	}
	if err := s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
		OrganizationID: recipient.OrganizationID,
		RecipientID:    recipientID,
		SenderID:       senderID,
		Type:           nType,
		Title:          title,
		Message:        message,
		Data:           data,
	}); err != nil {
		slog.Warn("Notification enqueue failed", "type", string(nType), "error", err)
	}
}
