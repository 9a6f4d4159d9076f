package overtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/events"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	approvalsvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/approval"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const generatedBySystemRemark = "Overtime Generated by the System."

// Service owns overtime entries and their approval-bearing claims:
// nightly generation from completed timesheets, workflow actions,
// recalibration after timesheet corrections, edits and expiry.
type Service struct {
	db        *database.DB
	repo      overtime.Repository
	tsRepo    timesheet.TimeSheetRepository
	shiftRepo shift.ShiftRepository
	users     user.UserRepository
	engine    *Engine
	workflow  *approvalsvc.Engine
	notifier  notification.Service
}

func NewService(
	db *database.DB,
	repo overtime.Repository,
	tsRepo timesheet.TimeSheetRepository,
	shiftRepo shift.ShiftRepository,
	users user.UserRepository,
	engine *Engine,
	workflow *approvalsvc.Engine,
	notifier notification.Service,
) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		tsRepo:    tsRepo,
		shiftRepo: shiftRepo,
		users:     users,
		engine:    engine,
		workflow:  workflow,
		notifier:  notifier,
	}
}

// GenerateForTimesheet computes and stores the overtime entry for one
// completed timesheet. It is a no-op when the user has no overtime
// setting, when the setting routes earning through prior approval,
// when an entry already exists, or when nothing was earned. The claim
// starts Unclaimed with the owner as both sender and recipient.
func (s *Service) GenerateForTimesheet(ctx context.Context, ts timesheet.TimeSheet) (*overtime.Entry, error) {
	if !ts.IsPresent || ts.PunchIn == nil || ts.PunchOut == nil {
		return nil, nil
	}

	setting, err := s.shiftRepo.GetSettingForUser(ctx, ts.UserID, ts.Date)
	if err != nil {
		if errors.Is(err, shift.ErrSettingNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolving attendance setting: %w", err)
	}
	if !setting.EnableOvertime || setting.OvertimeSettingID == nil {
		return nil, nil
	}

	existing, err := s.repo.GetEntryByTimeSheet(ctx, ts.ID)
	if err != nil {
		return nil, fmt.Errorf("checking existing overtime entry: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	otSetting, err := s.repo.GetSetting(ctx, *setting.OvertimeSettingID)
	if err != nil {
		return nil, fmt.Errorf("loading overtime setting: %w", err)
	}
	if otSetting.RequirePriorApproval {
		// earning goes through the pre-approval path instead
		return nil, nil
	}

	early, late := s.engine.ComputeEarlyLate(ts, otSetting)
	if early == 0 && late == 0 {
		return nil, nil
	}

	detail := overtime.EntryDetail{
		ID:               uuid.NewString(),
		PunchInOvertime:  early,
		PunchOutOvertime: late,
	}
	detail.ClaimedOvertime = s.engine.ClaimableOvertime(detail, otSetting, ts)
	detail.NormalizedOvertime, _ = s.engine.Normalize(detail.ClaimedOvertime, otSetting.RatesFor(RateDayType(ts)))

	entry := overtime.Entry{
		ID:          uuid.NewString(),
		UserID:      ts.UserID,
		TimeSheetID: ts.ID,
		SettingID:   otSetting.ID,
	}
	detail.EntryID = entry.ID

	claim := overtime.Claim{
		ID:        uuid.NewString(),
		EntryID:   entry.ID,
		Sender:    ts.UserID,
		Recipient: ts.UserID,
		Status:    approval.StatusUnclaimed,
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if entry, err = s.repo.CreateEntry(txCtx, entry); err != nil {
			return fmt.Errorf("creating overtime entry: %w", err)
		}
		if detail, err = s.repo.CreateDetail(txCtx, detail); err != nil {
			return fmt.Errorf("creating overtime detail: %w", err)
		}
		if claim, err = s.repo.CreateClaim(txCtx, claim); err != nil {
			return fmt.Errorf("creating overtime claim: %w", err)
		}
		return s.repo.CreateClaimHistory(txCtx, overtime.ClaimHistory{
			ID:          uuid.NewString(),
			ClaimID:     claim.ID,
			ActorID:     user.SystemActorID,
			RecipientID: claim.Recipient,
			Action:      approval.StatusUnclaimed,
			Remark:      generatedBySystemRemark,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, ts.UserID, nil, notification.TypeOvertimeGenerated,
		"Overtime generated",
		fmt.Sprintf("Overtime of %s was generated for %s.",
			utils.HumanizeInterval(detail.Total()), ts.Date.Format(time.DateOnly)),
		map[string]interface{}{"entry_id": entry.ID, "claim_id": claim.ID})

	return &entry, nil
}

// GenerateForDate runs the nightly batch over every present timesheet.
// Per-timesheet failures are logged and skipped so one bad record does
// not stall the run.
func (s *Service) GenerateForDate(ctx context.Context, date time.Time) error {
	sheets, err := s.tsRepo.ListPresentForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("listing timesheets for %s: %w", date.Format(time.DateOnly), err)
	}
	for _, ts := range sheets {
		if _, err := s.GenerateForTimesheet(ctx, ts); err != nil {
			slog.Error("Overtime generation failed",
				"timesheet_id", ts.ID, "user_id", ts.UserID, "error", err)
		}
	}
	return nil
}

// PerformAction runs one workflow transition on a claim: request,
// forward, approve, deny, confirm or cancel.
func (s *Service) PerformAction(ctx context.Context, claimID, actorID string, mode approval.Mode, req overtime.ClaimActionRequest) (overtime.Claim, error) {
	claim, err := s.repo.GetClaim(ctx, claimID)
	if err != nil {
		return overtime.Claim{}, err
	}
	if claim.IsArchived {
		return overtime.Claim{}, overtime.ErrClaimArchived
	}

	target, err := approvalsvc.ActionStatus(req.Action)
	if err != nil {
		return overtime.Claim{}, err
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return overtime.Claim{}, err
	}

	var history approval.HistoryEntry
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		history, err = s.workflow.Transition(txCtx, &claim, actor, mode, target, approvalsvc.ClaimPolicy(), req.Remark)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateClaim(txCtx, claim); err != nil {
			return fmt.Errorf("updating claim: %w", err)
		}
		return s.repo.CreateClaimHistory(txCtx, overtime.ClaimHistory{
			ID:          history.ID,
			ClaimID:     claim.ID,
			ActorID:     history.ActorID,
			RecipientID: history.RecipientID,
			Action:      history.Action,
			Remark:      history.Remark,
		})
	})
	if err != nil {
		return overtime.Claim{}, err
	}

	s.notifyTransition(ctx, claim, actorID, target)
	return claim, nil
}

// Recalibrate recomputes a claim's earned values from the current
// timesheet. Only unclaimed and declined claims recalibrate, and
// entries born from a pre-approval never do. Returns false without a
// history row when nothing changed.
func (s *Service) Recalibrate(ctx context.Context, entryID string, actor user.User, remarks string) (bool, error) {
	entry, err := s.repo.GetEntryByID(ctx, entryID)
	if err != nil {
		return false, err
	}
	if entry.PreApprovalID != nil {
		return false, &overtime.RecalibrationSkip{
			Reason: "overtime generated from a pre approval request cannot be recalibrated",
		}
	}

	claim, err := s.repo.GetClaimByEntry(ctx, entry.ID)
	if err != nil {
		return false, err
	}
	if claim == nil {
		return false, overtime.ErrClaimNotFound
	}
	if claim.Status != approval.StatusUnclaimed && claim.Status != approval.StatusDeclined {
		return false, &overtime.StateError{Status: string(claim.Status)}
	}

	ts, err := s.tsRepo.GetByID(ctx, entry.TimeSheetID)
	if err != nil {
		return false, fmt.Errorf("loading timesheet: %w", err)
	}
	otSetting, err := s.repo.GetSetting(ctx, entry.SettingID)
	if err != nil {
		return false, err
	}
	detail, err := s.repo.GetDetailByEntry(ctx, entry.ID)
	if err != nil {
		return false, err
	}

	early, late := s.engine.ComputeEarlyLate(ts, otSetting)
	if early == detail.PunchInOvertime && late == detail.PunchOutOvertime {
		return false, nil
	}

	history := overtime.EntryDetailHistory{
		ID:                       uuid.NewString(),
		DetailID:                 detail.ID,
		ActorID:                  actor.ID,
		PreviousPunchInOvertime:  detail.PunchInOvertime,
		PreviousPunchOutOvertime: detail.PunchOutOvertime,
		CurrentPunchInOvertime:   early,
		CurrentPunchOutOvertime:  late,
		Remarks:                  remarks,
	}

	detail.PunchInOvertime = early
	detail.PunchOutOvertime = late
	detail.ClaimedOvertime = s.engine.ClaimableOvertime(detail, otSetting, ts)
	detail.NormalizedOvertime, _ = s.engine.Normalize(detail.ClaimedOvertime, otSetting.RatesFor(RateDayType(ts)))

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if err := s.repo.UpdateDetail(txCtx, detail); err != nil {
			return fmt.Errorf("updating overtime detail: %w", err)
		}
		return s.repo.CreateDetailHistory(txCtx, history)
	})
	if err != nil {
		return false, err
	}

	s.notify(ctx, claim.Sender, nil, notification.TypeClaimRecalibrated,
		"Overtime recalibrated",
		fmt.Sprintf("Your overtime for %s was recalibrated to %s.",
			ts.Date.Format(time.DateOnly), utils.HumanizeInterval(detail.Total())),
		map[string]interface{}{"entry_id": entry.ID})

	return true, nil
}

// HandleTimesheetCorrected recalibrates the overtime entry attached to
// a corrected timesheet. Registered on the in-process event bus;
// must stay idempotent because corrections can replay.
func (s *Service) HandleTimesheetCorrected(ctx context.Context, e events.Event) {
	corrected, ok := e.(timesheet.CorrectedEvent)
	if !ok {
		return
	}
	entry, err := s.repo.GetEntryByTimeSheet(ctx, corrected.TimeSheetID)
	if err != nil {
		slog.Error("Overtime lookup after correction failed",
			"timesheet_id", corrected.TimeSheetID, "error", err)
		return
	}
	if entry == nil {
		return
	}

	var skip *overtime.RecalibrationSkip
	var state *overtime.StateError
	_, err = s.Recalibrate(ctx, entry.ID, user.SystemActor(), "Late attendance entry modified timesheet.")
	switch {
	case err == nil:
	case errors.As(err, &skip), errors.As(err, &state):
		slog.Info("Overtime recalibration skipped",
			"entry_id", entry.ID, "reason", err.Error())
	default:
		slog.Error("Overtime recalibration failed", "entry_id", entry.ID, "error", err)
	}
}

// EditDetail overwrites the earned values of an unclaimed or declined
// entry. Values are bounded by what the system would compute from the
// timesheet; pre-approved entries additionally need the setting's edit
// flag.
func (s *Service) EditDetail(ctx context.Context, entryID string, actor user.User, req overtime.EditDetailRequest) (overtime.EntryDetail, error) {
	entry, err := s.repo.GetEntryByID(ctx, entryID)
	if err != nil {
		return overtime.EntryDetail{}, err
	}
	claim, err := s.repo.GetClaimByEntry(ctx, entry.ID)
	if err != nil {
		return overtime.EntryDetail{}, err
	}
	if claim == nil {
		return overtime.EntryDetail{}, overtime.ErrClaimNotFound
	}
	if claim.Status != approval.StatusUnclaimed && claim.Status != approval.StatusDeclined {
		return overtime.EntryDetail{}, overtime.ErrEditNotAllowed
	}

	otSetting, err := s.repo.GetSetting(ctx, entry.SettingID)
	if err != nil {
		return overtime.EntryDetail{}, err
	}
	if entry.PreApprovalID != nil && !otSetting.AllowEditOfPreApprovedOvertime {
		return overtime.EntryDetail{}, overtime.ErrEditNotAllowed
	}

	ts, err := s.tsRepo.GetByID(ctx, entry.TimeSheetID)
	if err != nil {
		return overtime.EntryDetail{}, fmt.Errorf("loading timesheet: %w", err)
	}
	earnedIn, earnedOut := s.engine.ComputeEarlyLate(ts, otSetting)
	if req.PunchInOvertime > earnedIn || req.PunchOutOvertime > earnedOut {
		return overtime.EntryDetail{}, overtime.ErrEditExceedsEarned
	}

	detail, err := s.repo.GetDetailByEntry(ctx, entry.ID)
	if err != nil {
		return overtime.EntryDetail{}, err
	}

	history := overtime.EntryDetailHistory{
		ID:                       uuid.NewString(),
		DetailID:                 detail.ID,
		ActorID:                  actor.ID,
		PreviousPunchInOvertime:  detail.PunchInOvertime,
		PreviousPunchOutOvertime: detail.PunchOutOvertime,
		CurrentPunchInOvertime:   req.PunchInOvertime,
		CurrentPunchOutOvertime:  req.PunchOutOvertime,
		Remarks:                  req.Remarks,
	}

	detail.PunchInOvertime = req.PunchInOvertime
	detail.PunchOutOvertime = req.PunchOutOvertime
	detail.ClaimedOvertime = s.engine.ClaimableOvertime(detail, otSetting, ts)
	detail.NormalizedOvertime, _ = s.engine.Normalize(detail.ClaimedOvertime, otSetting.RatesFor(RateDayType(ts)))

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if err := s.repo.UpdateDetail(txCtx, detail); err != nil {
			return fmt.Errorf("updating overtime detail: %w", err)
		}
		return s.repo.CreateDetailHistory(txCtx, history)
	})
	if err != nil {
		return overtime.EntryDetail{}, err
	}
	return detail, nil
}

// ExpireClaims archives unclaimed claims that outlived their setting's
// expiry window. Runs from the scheduler.
func (s *Service) ExpireClaims(ctx context.Context, now time.Time) error {
	claims, err := s.repo.ListExpirableClaims(ctx, []approval.Status{approval.StatusUnclaimed}, now)
	if err != nil {
		return fmt.Errorf("listing expirable claims: %w", err)
	}

	for _, claim := range claims {
		entry, err := s.repo.GetEntryByID(ctx, claim.EntryID)
		if err != nil {
			slog.Error("Claim expiry lookup failed", "claim_id", claim.ID, "error", err)
			continue
		}
		otSetting, err := s.repo.GetSetting(ctx, entry.SettingID)
		if err != nil {
			slog.Error("Claim expiry setting lookup failed", "claim_id", claim.ID, "error", err)
			continue
		}
		if !otSetting.ClaimExpires {
			continue
		}
		if expiryDeadline(claim.CreatedAt, otSetting).After(now) {
			continue
		}

		if err := s.repo.ArchiveClaim(ctx, claim.ID); err != nil {
			slog.Error("Claim archive failed", "claim_id", claim.ID, "error", err)
			continue
		}
		s.notify(ctx, claim.Sender, nil, notification.TypeClaimExpired,
			"Overtime claim expired",
			"An unclaimed overtime claim passed its expiry window and was archived.",
			map[string]interface{}{"claim_id": claim.ID})
	}
	return nil
}

// SumWindow exposes the claimed-overtime aggregate for limit checks.
func (s *Service) SumWindow(ctx context.Context, senderID string, from, to time.Time, excludeEntryID string) (time.Duration, error) {
	return s.repo.SumWindow(ctx, senderID, from, to, excludeEntryID)
}

// ClaimDetail assembles the read shape of one claim.
func (s *Service) ClaimDetail(ctx context.Context, claimID string) (overtime.ClaimResponse, error) {
	claim, err := s.repo.GetClaim(ctx, claimID)
	if err != nil {
		return overtime.ClaimResponse{}, err
	}
	entry, err := s.repo.GetEntryByID(ctx, claim.EntryID)
	if err != nil {
		return overtime.ClaimResponse{}, err
	}
	detail, err := s.repo.GetDetailByEntry(ctx, entry.ID)
	if err != nil {
		return overtime.ClaimResponse{}, err
	}
	ts, err := s.tsRepo.GetByID(ctx, entry.TimeSheetID)
	if err != nil {
		return overtime.ClaimResponse{}, fmt.Errorf("loading timesheet: %w", err)
	}

	return overtime.ClaimResponse{
		ID:                 claim.ID,
		SenderID:           claim.Sender,
		RecipientID:        claim.Recipient,
		Status:             string(claim.Status),
		Date:               ts.Date.Format(time.DateOnly),
		PunchInOvertime:    utils.HumanizeInterval(detail.PunchInOvertime),
		PunchOutOvertime:   utils.HumanizeInterval(detail.PunchOutOvertime),
		ClaimedOvertime:    utils.HumanizeInterval(detail.ClaimedOvertime),
		NormalizedOvertime: utils.HumanizeInterval(detail.NormalizedOvertime),
		IsArchived:         claim.IsArchived,
	}, nil
}

func (s *Service) actor(ctx context.Context, actorID string) (user.User, error) {
	if actorID == user.SystemActorID {
		return user.SystemActor(), nil
	}
	return s.users.GetByID(ctx, actorID)
}

func (s *Service) notifyTransition(ctx context.Context, claim overtime.Claim, actorID string, status approval.Status) {
	var (
		nType     notification.NotificationType
		recipient string
		message   string
	)
	switch status {
	case approval.StatusRequested:
		nType, recipient = notification.TypeClaimRequested, claim.Recipient
		message = "An overtime claim was requested and awaits your action."
	case approval.StatusForwarded:
		nType, recipient = notification.TypeClaimForwarded, claim.Recipient
		message = "An overtime claim was forwarded to you."
	case approval.StatusApproved:
		nType, recipient = notification.TypeClaimApproved, claim.Sender
		message = "Your overtime claim was approved."
	case approval.StatusDeclined:
		nType, recipient = notification.TypeClaimDeclined, claim.Sender
		message = "Your overtime claim was declined."
	case approval.StatusConfirmed:
		nType, recipient = notification.TypeClaimConfirmed, claim.Sender
		message = "Your overtime claim was confirmed."
	default:
		return
	}
	sender := actorID
	s.notify(ctx, recipient, &sender, nType, "Overtime claim "+string(status),
		message, map[string]interface{}{"claim_id": claim.ID})
}

// notify is fire and forget; the workflow outcome never depends on the
// notification pipeline.
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

// expiryDeadline adds the configured expiry window to the claim's
// creation instant.
func expiryDeadline(createdAt time.Time, s overtime.Setting) time.Time {
	switch s.ExpiresAfterUnit {
	case overtime.ExpireMonths:
		return createdAt.AddDate(0, s.ExpiresAfter, 0)
	case overtime.ExpireYears:
		return createdAt.AddDate(s.ExpiresAfter, 0, 0)
	default:
		return createdAt.AddDate(0, 0, s.ExpiresAfter)
	}
}
