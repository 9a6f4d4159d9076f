package credithour

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/credithour"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/leaveaccount"
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
	"github.com/cmlabs-hris/attendance-engine-go/internal/service/limit"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Service owns credit-hour requests: validation against period limits
// and the leave account ceiling, the approval workflow, granting earned
// credit into the leave account, recalibration after timesheet
// corrections, and reversal through delete requests.
type Service struct {
	db        *database.DB
	repo      credithour.Repository
	tsRepo    timesheet.TimeSheetRepository
	shiftRepo shift.ShiftRepository
	otRepo    overtime.Repository
	accounts  leaveaccount.AccountRepository
	users     user.UserRepository
	workflow  *approvalsvc.Engine
	limits    *limit.Service
	notifier  notification.Service
}

func NewService(
	db *database.DB,
	repo credithour.Repository,
	tsRepo timesheet.TimeSheetRepository,
	shiftRepo shift.ShiftRepository,
	otRepo overtime.Repository,
	accounts leaveaccount.AccountRepository,
	users user.UserRepository,
	workflow *approvalsvc.Engine,
	limits *limit.Service,
	notifier notification.Service,
) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		tsRepo:    tsRepo,
		shiftRepo: shiftRepo,
		otRepo:    otRepo,
		accounts:  accounts,
		users:     users,
		workflow:  workflow,
		limits:    limits,
		notifier:  notifier,
	}
}

// CreateRequest validates and stores a credit-hour request. Self
// submissions start Requested and route to the level-1 supervisor; HR
// submissions on behalf start Approved with the actor as recipient.
func (s *Service) CreateRequest(ctx context.Context, input credithour.CreateRequestInput, actorID string, mode approval.Mode) (credithour.Request, error) {
	_, chSetting, err := s.settingFor(ctx, input.SenderID, input.Date)
	if err != nil {
		return credithour.Request{}, err
	}

	if input.Duration < chSetting.MinimumRequestDuration {
		return credithour.Request{}, &credithour.BelowMinimumError{
			Requested: input.Duration,
			Minimum:   chSetting.MinimumRequestDuration,
		}
	}

	open, err := s.repo.GetOpenRequest(ctx, input.SenderID, input.Date)
	if err != nil {
		return credithour.Request{}, fmt.Errorf("checking open requests: %w", err)
	}
	if open != nil {
		return credithour.Request{}, credithour.ErrDuplicateOpenRequest
	}

	account, err := s.accounts.GetForUser(ctx, input.SenderID)
	if err != nil {
		return credithour.Request{}, err
	}
	if int(input.Duration.Minutes()) > account.Headroom() {
		return credithour.Request{}, leaveaccount.ErrMaxBalanceExceeded
	}

	sender, err := s.users.GetByID(ctx, input.SenderID)
	if err != nil {
		return credithour.Request{}, err
	}
	if err := s.validateLimits(ctx, chSetting, sender, input, mode, ""); err != nil {
		return credithour.Request{}, err
	}

	req := credithour.Request{
		ID:          uuid.NewString(),
		Sender:      input.SenderID,
		Recipient:   input.SenderID,
		Status:      approval.StatusRequested,
		Lifecycle:   approval.LifecycleActive,
		Date:        utils.DateOnly(input.Date),
		Duration:    input.Duration,
		Remarks:     input.Remarks,
		GrantStatus: credithour.GrantNotAdded,
	}

	// HR on-behalf submissions are born approved; self submissions route
	// to the level-1 supervisor.
	if mode == approval.ModeHR {
		req.Status = approval.StatusApproved
		req.Recipient = actorID
	} else {
		recipient, err := s.workflow.NextRecipient(ctx, &req, approval.StatusRequested)
		if err != nil {
			return credithour.Request{}, err
		}
		req.Recipient = recipient
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if req, err = s.repo.CreateRequest(txCtx, req); err != nil {
			return fmt.Errorf("creating credit request: %w", err)
		}
		return s.repo.CreateRequestHistory(txCtx, credithour.History{
			ID:          uuid.NewString(),
			RequestID:   req.ID,
			ActorID:     actorID,
			RecipientID: req.Recipient,
			Action:      req.Status,
			Remark:      input.Remarks,
		})
	})
	if err != nil {
		return credithour.Request{}, err
	}

	s.notifyCreated(ctx, req, actorID)
	return req, nil
}

// notifyCreated pings the recipient only for requests born Requested.
// HR on-behalf submissions are already approved and nobody has a
// pending action on them.
func (s *Service) notifyCreated(ctx context.Context, req credithour.Request, actorID string) {
	if req.Status != approval.StatusRequested {
		return
	}
	s.notify(ctx, req.Recipient, &actorID, notification.TypeClaimRequested,
		"Credit hour requested",
		fmt.Sprintf("A credit hour request of %s for %s awaits your action.",
			utils.HumanizeInterval(req.Duration), req.Date.Format(time.DateOnly)),
		map[string]interface{}{"request_id": req.ID})
}

// BulkOnBehalf lets HR seed directly-approved requests for several
// users at once. Items validate independently; failures are reported
// per index without blocking the rest.
func (s *Service) BulkOnBehalf(ctx context.Context, input credithour.BulkOnBehalfInput) ([]credithour.Request, map[int]string) {
	var created []credithour.Request
	failed := make(map[int]string)
	for i, item := range input.Requests {
		req, err := s.CreateRequest(ctx, item, input.ActorID, approval.ModeHR)
		if err != nil {
			failed[i] = err.Error()
			continue
		}
		created = append(created, req)
	}
	return created, failed
}

// PerformAction runs one workflow transition on a request.
func (s *Service) PerformAction(ctx context.Context, requestID, actorID string, mode approval.Mode, action, remark string) (credithour.Request, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return credithour.Request{}, err
	}
	if req.Lifecycle == approval.LifecycleDeleted {
		return credithour.Request{}, credithour.ErrRequestDeleted
	}

	target, err := approvalsvc.ActionStatus(action)
	if err != nil {
		return credithour.Request{}, err
	}
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return credithour.Request{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		history, err := s.workflow.Transition(txCtx, &req, actor, mode, target, approvalsvc.RequestPolicy(), remark)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateRequest(txCtx, req); err != nil {
			return fmt.Errorf("updating credit request: %w", err)
		}
		return s.repo.CreateRequestHistory(txCtx, history)
	})
	if err != nil {
		return credithour.Request{}, err
	}

	s.notifyTransition(ctx, req, actorID, target)
	return req, nil
}

// GrantPending walks approved requests that have not reached the leave
// account yet. Run from the scheduler after timesheets settle.
func (s *Service) GrantPending(ctx context.Context) error {
	pending, err := s.repo.ListUngranted(ctx)
	if err != nil {
		return fmt.Errorf("listing ungranted credit requests: %w", err)
	}
	for _, req := range pending {
		if err := s.Grant(ctx, req); err != nil {
			slog.Error("Credit grant failed", "request_id", req.ID, "error", err)
		}
	}
	return nil
}

// Grant converts one approved request into leave account balance. The
// earned value comes from the day's actual punches; the addition is
// capped by the account's maximum balance. A request whose timesheet is
// still open is left for the next run.
func (s *Service) Grant(ctx context.Context, req credithour.Request) error {
	ts, err := s.tsRepo.GetByUserAndDate(ctx, req.Sender, req.Date)
	if err != nil {
		return fmt.Errorf("loading timesheet: %w", err)
	}
	if ts == nil || !ts.IsPresent || ts.PunchOut == nil {
		return nil
	}

	_, chSetting, err := s.settingFor(ctx, req.Sender, req.Date)
	if err != nil {
		return err
	}

	earned, err := s.earnedCredit(ctx, *ts)
	if err != nil {
		return err
	}

	credit := req.Duration
	if chSetting.ReduceCreditIfActualLTApproved && earned < credit {
		credit = earned
	}
	if credit < 0 {
		credit = 0
	}

	account, err := s.accounts.GetForUser(ctx, req.Sender)
	if err != nil {
		return err
	}
	grantMinutes := int(credit.Minutes())
	if grantMinutes > account.Headroom() {
		grantMinutes = account.Headroom()
	}

	entry := credithour.TimeSheetEntry{
		ID:          uuid.NewString(),
		TimeSheetID: ts.ID,
		SettingID:   chSetting.ID,
		RequestID:   req.ID,
		Earned:      time.Duration(grantMinutes) * time.Minute,
		Status:      approval.StatusApproved,
	}

	history := leaveaccount.History{
		ID:                    uuid.NewString(),
		AccountID:             account.ID,
		ActorID:               user.SystemActorID,
		Action:                leaveaccount.ActionAdded,
		PreviousBalance:       account.Balance,
		PreviousUsableBalance: account.UsableBalance,
		Remarks:               fmt.Sprintf("Added %d minutes for credit hours on %s.", grantMinutes, req.Date.Format(time.DateOnly)),
	}
	account.Balance += grantMinutes
	account.UsableBalance += grantMinutes
	history.NewBalance = account.Balance
	history.NewUsableBalance = account.UsableBalance

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		created, err := s.repo.CreateEntry(txCtx, entry)
		if err != nil {
			return fmt.Errorf("creating credit entry: %w", err)
		}
		req.CreditEntryID = &created.ID
		req.GrantStatus = credithour.GrantAdded
		if err := s.repo.UpdateRequest(txCtx, req); err != nil {
			return fmt.Errorf("updating credit request: %w", err)
		}
		if err := s.accounts.UpdateBalance(txCtx, account); err != nil {
			return fmt.Errorf("updating leave account: %w", err)
		}
		return s.accounts.CreateHistory(txCtx, history)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, req.Sender, nil, notification.TypeCreditGranted,
		"Credit hours granted",
		fmt.Sprintf("%d minutes of credit were added to your leave balance.", grantMinutes),
		map[string]interface{}{"request_id": req.ID})
	return nil
}

// RequestDeletion opens a reversal request for an approved, granted
// credit request. Consumed credit cannot be reverted.
func (s *Service) RequestDeletion(ctx context.Context, requestID, actorID, remarks string) (credithour.DeleteRequest, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return credithour.DeleteRequest{}, err
	}
	if req.Lifecycle == approval.LifecycleDeleted {
		return credithour.DeleteRequest{}, credithour.ErrRequestDeleted
	}
	if req.Status != approval.StatusApproved && req.Status != approval.StatusConfirmed {
		return credithour.DeleteRequest{}, credithour.ErrDeleteNotApproved
	}
	if req.CreditEntryID != nil {
		entry, err := s.repo.GetEntry(ctx, *req.CreditEntryID)
		if err != nil {
			return credithour.DeleteRequest{}, err
		}
		if entry.Consumed > 0 {
			return credithour.DeleteRequest{}, credithour.ErrEntryConsumed
		}
	}

	open, err := s.repo.GetOpenDeleteRequest(ctx, req.ID)
	if err != nil {
		return credithour.DeleteRequest{}, fmt.Errorf("checking open delete requests: %w", err)
	}
	if open != nil {
		return credithour.DeleteRequest{}, credithour.ErrDeleteRequestExists
	}

	del := credithour.DeleteRequest{
		ID:         uuid.NewString(),
		RequestRef: req.ID,
		Sender:     req.Sender,
		Recipient:  req.Sender,
		Status:     approval.StatusRequested,
		Remarks:    remarks,
	}
	recipient, err := s.workflow.NextRecipient(ctx, &del, approval.StatusRequested)
	if err != nil {
		return credithour.DeleteRequest{}, err
	}
	del.Recipient = recipient

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if del, err = s.repo.CreateDeleteRequest(txCtx, del); err != nil {
			return fmt.Errorf("creating delete request: %w", err)
		}
		return s.repo.CreateDeleteRequestHistory(txCtx, credithour.History{
			ID:          uuid.NewString(),
			RequestID:   del.ID,
			ActorID:     actorID,
			RecipientID: del.Recipient,
			Action:      approval.StatusRequested,
			Remark:      remarks,
		})
	})
	if err != nil {
		return credithour.DeleteRequest{}, err
	}
	return del, nil
}

// ActOnDeleteRequest transitions a reversal request. Approval performs
// the deduction: the granted minutes leave the account, capped at what
// is still usable, and the original request is marked deleted.
func (s *Service) ActOnDeleteRequest(ctx context.Context, deleteRequestID, actorID string, mode approval.Mode, action, remark string) (credithour.DeleteRequest, error) {
	del, err := s.repo.GetDeleteRequest(ctx, deleteRequestID)
	if err != nil {
		return credithour.DeleteRequest{}, err
	}

	target, err := approvalsvc.ActionStatus(action)
	if err != nil {
		return credithour.DeleteRequest{}, err
	}
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return credithour.DeleteRequest{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		history, err := s.workflow.Transition(txCtx, &del, actor, mode, target, approvalsvc.RequestPolicy(), remark)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateDeleteRequest(txCtx, del); err != nil {
			return fmt.Errorf("updating delete request: %w", err)
		}
		if err := s.repo.CreateDeleteRequestHistory(txCtx, history); err != nil {
			return err
		}
		if target != approval.StatusApproved {
			return nil
		}
		return s.revertGrant(txCtx, del, actor)
	})
	if err != nil {
		return credithour.DeleteRequest{}, err
	}
	return del, nil
}

// revertGrant deducts a granted credit from the leave account inside
// the caller's transaction. The deduction never drops the usable
// balance below zero even when part of the credit was already spent
// elsewhere.
func (s *Service) revertGrant(txCtx context.Context, del credithour.DeleteRequest, actor user.User) error {
	req, err := s.repo.GetRequest(txCtx, del.RequestRef)
	if err != nil {
		return err
	}

	var granted int
	if req.CreditEntryID != nil {
		entry, err := s.repo.GetEntry(txCtx, *req.CreditEntryID)
		if err != nil {
			return err
		}
		granted = int(entry.Earned.Minutes())
		entry.Status = approval.StatusCancelled
		if err := s.repo.UpdateEntry(txCtx, entry); err != nil {
			return fmt.Errorf("cancelling credit entry: %w", err)
		}
	}

	account, err := s.accounts.GetForUser(txCtx, req.Sender)
	if err != nil {
		return err
	}
	deduct := granted
	if deduct > account.UsableBalance {
		deduct = account.UsableBalance
	}

	history := leaveaccount.History{
		ID:                    uuid.NewString(),
		AccountID:             account.ID,
		ActorID:               actor.ID,
		Action:                leaveaccount.ActionDeducted,
		PreviousBalance:       account.Balance,
		PreviousUsableBalance: account.UsableBalance,
		Remarks:               fmt.Sprintf("Deducted %d minutes after credit hour deletion for %s.", deduct, req.Date.Format(time.DateOnly)),
	}
	account.Balance -= deduct
	account.UsableBalance -= deduct
	history.NewBalance = account.Balance
	history.NewUsableBalance = account.UsableBalance

	if err := s.accounts.UpdateBalance(txCtx, account); err != nil {
		return fmt.Errorf("updating leave account: %w", err)
	}
	if err := s.accounts.CreateHistory(txCtx, history); err != nil {
		return err
	}

	req.Lifecycle = approval.LifecycleDeleted
	return s.repo.UpdateRequest(txCtx, req)
}

// HandleTimesheetCorrected re-derives the granted credit for a
// corrected day and applies the difference to the leave account.
// Consumed entries are left alone. Idempotent: a replay computes a zero
// difference.
func (s *Service) HandleTimesheetCorrected(ctx context.Context, e events.Event) {
	corrected, ok := e.(timesheet.CorrectedEvent)
	if !ok {
		return
	}
	req, err := s.repo.GetOpenRequest(ctx, corrected.UserID, corrected.Date)
	if err != nil {
		slog.Error("Credit lookup after correction failed", "timesheet_id", corrected.TimeSheetID, "error", err)
		return
	}
	// only approved requests that already reached the account need
	// re-deriving; ungranted ones pick up the corrected values on grant
	if req == nil || req.CreditEntryID == nil {
		return
	}
	if err := s.recalibrateGrant(ctx, *req); err != nil {
		slog.Error("Credit recalibration failed", "request_id", req.ID, "error", err)
	}
}

func (s *Service) recalibrateGrant(ctx context.Context, req credithour.Request) error {
	entry, err := s.repo.GetEntry(ctx, *req.CreditEntryID)
	if err != nil {
		return err
	}
	if entry.Consumed > 0 {
		return nil
	}

	ts, err := s.tsRepo.GetByID(ctx, entry.TimeSheetID)
	if err != nil {
		return err
	}
	_, chSetting, err := s.settingFor(ctx, req.Sender, req.Date)
	if err != nil {
		return err
	}
	earned, err := s.earnedCredit(ctx, ts)
	if err != nil {
		return err
	}

	credit := req.Duration
	if chSetting.ReduceCreditIfActualLTApproved && earned < credit {
		credit = earned
	}
	if credit < 0 {
		credit = 0
	}

	account, err := s.accounts.GetForUser(ctx, req.Sender)
	if err != nil {
		return err
	}
	newMinutes := int(credit.Minutes())
	oldMinutes := int(entry.Earned.Minutes())
	diff := newMinutes - oldMinutes
	if diff > 0 && diff > account.Headroom() {
		diff = account.Headroom()
	}
	if diff < 0 && -diff > account.UsableBalance {
		diff = -account.UsableBalance
	}
	if diff == 0 {
		return nil
	}

	action := leaveaccount.ActionAdded
	if diff < 0 {
		action = leaveaccount.ActionDeducted
	}
	history := leaveaccount.History{
		ID:                    uuid.NewString(),
		AccountID:             account.ID,
		ActorID:               user.SystemActorID,
		Action:                action,
		PreviousBalance:       account.Balance,
		PreviousUsableBalance: account.UsableBalance,
		Remarks:               fmt.Sprintf("Recalibrated credit hours for %s after a timesheet correction.", req.Date.Format(time.DateOnly)),
	}
	account.Balance += diff
	account.UsableBalance += diff
	history.NewBalance = account.Balance
	history.NewUsableBalance = account.UsableBalance

	entry.Earned = time.Duration(oldMinutes+diff) * time.Minute

	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if err := s.repo.UpdateEntry(txCtx, entry); err != nil {
			return fmt.Errorf("updating credit entry: %w", err)
		}
		if err := s.accounts.UpdateBalance(txCtx, account); err != nil {
			return fmt.Errorf("updating leave account: %w", err)
		}
		return s.accounts.CreateHistory(txCtx, history)
	})
}

// earnedCredit is the day's creditable time: early arrival plus late
// departure, minus unpaid breaks, minus whatever overtime already
// claimed from the same timesheet.
func (s *Service) earnedCredit(ctx context.Context, ts timesheet.TimeSheet) (time.Duration, error) {
	if ts.PunchIn == nil || ts.PunchOut == nil {
		return 0, nil
	}
	var earned time.Duration
	if ts.ExpectedPunchIn != nil && ts.PunchIn.Before(*ts.ExpectedPunchIn) {
		earned += ts.ExpectedPunchIn.Sub(*ts.PunchIn)
	}
	if ts.ExpectedPunchOut != nil && ts.PunchOut.After(*ts.ExpectedPunchOut) {
		earned += ts.PunchOut.Sub(*ts.ExpectedPunchOut)
	}
	earned -= ts.UnpaidBreakHours

	otEntry, err := s.otRepo.GetEntryByTimeSheet(ctx, ts.ID)
	if err != nil {
		return 0, fmt.Errorf("checking overtime reservation: %w", err)
	}
	if otEntry != nil {
		detail, err := s.otRepo.GetDetailByEntry(ctx, otEntry.ID)
		if err != nil {
			return 0, err
		}
		earned -= detail.ClaimedOvertime
	}
	if earned < 0 {
		earned = 0
	}
	return earned, nil
}

// SumWindow exposes the credit aggregate for limit checks.
func (s *Service) SumWindow(ctx context.Context, senderID string, from, to time.Time, excludeID string) (time.Duration, error) {
	return s.repo.SumWindow(ctx, senderID, from, to, excludeID)
}

// validateLimits checks the daily, weekly and fiscal-monthly ceilings,
// attaching the overtime redirect suggestion when the sibling policy
// routes earning through prior approval.
func (s *Service) validateLimits(ctx context.Context, chSetting credithour.Setting, sender user.User, input credithour.CreateRequestInput, mode approval.Mode, excludeID string) error {
	type check struct {
		kind       limit.Kind
		applicable bool
		minutes    int
		window     limit.Window
	}
	date := utils.DateOnly(input.Date)
	checks := []check{
		{limit.KindDaily, chSetting.DailyLimitApplicable, chSetting.DailyLimitMinutes, limit.Window{Start: date, End: date}},
		{limit.KindWeekly, chSetting.WeeklyLimitApplicable, chSetting.WeeklyLimitMinutes, s.limits.WeekRange(date)},
	}
	if chSetting.MonthlyLimitApplicable {
		window, err := s.limits.FiscalMonthRange(ctx, sender.OrganizationID, date)
		if err != nil {
			return err
		}
		checks = append(checks, check{limit.KindMonthly, true, chSetting.MonthlyLimitMinutes, window})
	}

	for _, c := range checks {
		if !c.applicable {
			continue
		}
		existing, err := s.repo.SumWindow(ctx, sender.ID, c.window.Start, c.window.End, excludeID)
		if err != nil {
			return fmt.Errorf("aggregating %s credit: %w", c.kind, err)
		}
		err = s.limits.Check(c.kind, mode, input.Duration, existing, time.Duration(c.minutes)*time.Minute)
		if err == nil {
			continue
		}
		var exceeded *limit.ExceededError
		if errors.As(err, &exceeded) {
			if suggestion := s.overtimeRedirect(ctx, chSetting, input); suggestion != nil {
				exceeded.Suggestion = suggestion
			}
		}
		return err
	}
	return nil
}

// overtimeRedirect builds the sibling-workflow suggestion when the
// linked overtime setting accepts prior-approval requests.
func (s *Service) overtimeRedirect(ctx context.Context, chSetting credithour.Setting, input credithour.CreateRequestInput) *limit.RedirectSuggestion {
	if chSetting.OvertimeSettingID == nil {
		return nil
	}
	otSetting, err := s.otRepo.GetSetting(ctx, *chSetting.OvertimeSettingID)
	if err != nil || !otSetting.RequirePriorApproval {
		return nil
	}
	return &limit.RedirectSuggestion{
		Workflow: "overtime",
		Payload: limit.RedirectPayload{
			Date:     input.Date,
			Duration: input.Duration,
			Remarks:  input.Remarks,
		},
	}
}

func (s *Service) settingFor(ctx context.Context, userID string, date time.Time) (shift.AttendanceSetting, credithour.Setting, error) {
	setting, err := s.shiftRepo.GetSettingForUser(ctx, userID, date)
	if err != nil {
		return shift.AttendanceSetting{}, credithour.Setting{}, err
	}
	if !setting.EnableCreditHour || setting.CreditHourSettingID == nil {
		return shift.AttendanceSetting{}, credithour.Setting{}, credithour.ErrSettingNotFound
	}
	chSetting, err := s.repo.GetSetting(ctx, *setting.CreditHourSettingID)
	if err != nil {
		return shift.AttendanceSetting{}, credithour.Setting{}, err
	}
	return setting, chSetting, nil
}

func (s *Service) actor(ctx context.Context, actorID string) (user.User, error) {
	if actorID == user.SystemActorID {
		return user.SystemActor(), nil
	}
	return s.users.GetByID(ctx, actorID)
}

func (s *Service) notifyTransition(ctx context.Context, req credithour.Request, actorID string, status approval.Status) {
	var (
		nType     notification.NotificationType
		recipient string
		message   string
	)
	switch status {
	case approval.StatusRequested:
		nType, recipient = notification.TypeClaimRequested, req.Recipient
		message = "A credit hour request awaits your action."
	case approval.StatusForwarded:
		nType, recipient = notification.TypeClaimForwarded, req.Recipient
		message = "A credit hour request was forwarded to you."
	case approval.StatusApproved:
		nType, recipient = notification.TypeClaimApproved, req.Sender
		message = "Your credit hour request was approved."
	case approval.StatusDeclined:
		nType, recipient = notification.TypeClaimDeclined, req.Sender
		message = "Your credit hour request was declined."
	case approval.StatusConfirmed:
		nType, recipient = notification.TypeClaimConfirmed, req.Sender
		message = "Your credit hour request was confirmed."
	default:
		return
	}
	sender := actorID
	s.notify(ctx, recipient, &sender, nType, "Credit hour "+string(status), message,
		map[string]interface{}{"request_id": req.ID})
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
