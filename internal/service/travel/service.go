package travel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/credithour"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/travel"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	approvalsvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/approval"
	chsvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/credithour"
	"github.com/cmlabs-hris/attendance-engine-go/internal/service/shiftcalendar"
	tssvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/timesheet"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Service owns travel attendance: range requests, the approval-time
// explosion into per-day rows, synthetic clocking so travellers count
// as present, optional per-day credit requests, and reversal through
// delete requests.
type Service struct {
	db         *database.DB
	repo       travel.Repository
	users      user.UserRepository
	calendar   *shiftcalendar.Service
	timesheets *tssvc.Service
	credits    *chsvc.Service
	workflow   *approvalsvc.Engine
	notifier   notification.Service
}

func NewService(
	db *database.DB,
	repo travel.Repository,
	users user.UserRepository,
	calendar *shiftcalendar.Service,
	timesheets *tssvc.Service,
	credits *chsvc.Service,
	workflow *approvalsvc.Engine,
	notifier notification.Service,
) *Service {
	return &Service{
		db:         db,
		repo:       repo,
		users:      users,
		calendar:   calendar,
		timesheets: timesheets,
		credits:    credits,
		workflow:   workflow,
		notifier:   notifier,
	}
}

// CreateRequest validates and stores a travel request. The range must
// contain at least one day the traveller is scheduled to work; the
// check runs up front so an unusable range fails fast instead of
// approving into nothing.
func (s *Service) CreateRequest(ctx context.Context, input travel.CreateInput, actorID string) (travel.Request, error) {
	start := utils.DateOnly(input.StartDate)
	end := utils.DateOnly(input.EndDate)
	if end.Before(start) {
		return travel.Request{}, travel.ErrInvalidDateRange
	}

	overlap, err := s.repo.GetOverlappingOpen(ctx, input.SenderID, start, end)
	if err != nil {
		return travel.Request{}, fmt.Errorf("checking overlapping travel: %w", err)
	}
	if overlap != nil {
		return travel.Request{}, travel.ErrOverlappingRequest
	}

	applicable, err := s.applicableDays(ctx, input.SenderID, start, end)
	if err != nil {
		return travel.Request{}, err
	}
	if len(applicable) == 0 {
		return travel.Request{}, travel.ErrNoApplicableDays
	}

	req := travel.Request{
		ID:                 uuid.NewString(),
		Sender:             input.SenderID,
		Recipient:          input.SenderID,
		Status:             approval.StatusRequested,
		Lifecycle:          approval.LifecycleActive,
		StartDate:          start,
		EndDate:            end,
		StartTime:          input.StartTime,
		EndTime:            input.EndTime,
		Location:           input.Location,
		Remarks:            input.Remarks,
		WorkingRemotely:    input.WorkingRemotely,
		RequestCreditHours: input.RequestCreditHours,
		CreditDuration:     input.CreditDuration,
	}
	recipient, err := s.workflow.NextRecipient(ctx, &req, approval.StatusRequested)
	if err != nil {
		return travel.Request{}, err
	}
	req.Recipient = recipient

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if req, err = s.repo.CreateRequest(txCtx, req); err != nil {
			return fmt.Errorf("creating travel request: %w", err)
		}
		return s.repo.CreateRequestHistory(txCtx, travel.History{
			ID:          uuid.NewString(),
			RequestID:   req.ID,
			ActorID:     actorID,
			RecipientID: req.Recipient,
			Action:      approval.StatusRequested,
			Remark:      input.Remarks,
		})
	})
	if err != nil {
		return travel.Request{}, err
	}

	s.notify(ctx, req.Recipient, &actorID, notification.TypeClaimRequested,
		"Travel attendance requested",
		fmt.Sprintf("A travel request for %s to %s awaits your action.",
			start.Format(time.DateOnly), end.Format(time.DateOnly)),
		map[string]interface{}{"request_id": req.ID})
	return req, nil
}

// PerformAction runs one workflow transition. Reaching Approved
// explodes the range into day rows inside the same transaction; days
// the traveller is not scheduled to work are skipped.
func (s *Service) PerformAction(ctx context.Context, requestID, actorID string, mode approval.Mode, action, remark string) (travel.Request, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return travel.Request{}, err
	}
	if req.Lifecycle == approval.LifecycleDeleted {
		return travel.Request{}, travel.ErrRequestNotFound
	}

	target, err := approvalsvc.ActionStatus(action)
	if err != nil {
		return travel.Request{}, err
	}
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return travel.Request{}, err
	}

	var applicable []time.Time
	if target == approval.StatusApproved {
		if applicable, err = s.applicableDays(ctx, req.Sender, req.StartDate, req.EndDate); err != nil {
			return travel.Request{}, err
		}
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		history, err := s.workflow.Transition(txCtx, &req, actor, mode, target, approvalsvc.RequestPolicy(), remark)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateRequest(txCtx, req); err != nil {
			return fmt.Errorf("updating travel request: %w", err)
		}
		if err := s.repo.CreateRequestHistory(txCtx, history); err != nil {
			return err
		}
		for _, date := range applicable {
			if _, err := s.repo.CreateDay(txCtx, travel.Day{
				ID:        uuid.NewString(),
				RequestID: req.ID,
				Date:      date,
			}); err != nil {
				return fmt.Errorf("creating travel day %s: %w", date.Format(time.DateOnly), err)
			}
		}
		return nil
	})
	if err != nil {
		return travel.Request{}, err
	}

	s.notifyTransition(ctx, req, actorID, target)
	return req, nil
}

// ProcessPending walks every approved request with unprocessed days
// that have come due. Runs from the scheduler.
func (s *Service) ProcessPending(ctx context.Context, now time.Time) error {
	requests, err := s.repo.ListWithUnprocessedDays(ctx, utils.DateOnly(now))
	if err != nil {
		return fmt.Errorf("listing pending travel requests: %w", err)
	}
	for _, req := range requests {
		if err := s.ProcessDays(ctx, req.ID, now); err != nil {
			slog.Error("Travel request processing failed", "request_id", req.ID, "error", err)
		}
	}
	return nil
}

// ProcessDays clocks synthetic punches for materialized days whose
// date has arrived. Runs from the scheduler; already-processed days
// and future days are skipped, so replays are harmless.
func (s *Service) ProcessDays(ctx context.Context, requestID string, now time.Time) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	days, err := s.repo.ListDays(ctx, req.ID)
	if err != nil {
		return fmt.Errorf("listing travel days: %w", err)
	}

	today := utils.DateOnly(now)
	for _, day := range days {
		if day.IsProcessed || day.Date.After(today) {
			continue
		}
		if err := s.processDay(ctx, req, day); err != nil {
			slog.Error("Travel day processing failed",
				"request_id", req.ID, "date", day.Date.Format(time.DateOnly), "error", err)
		}
	}
	return nil
}

func (s *Service) processDay(ctx context.Context, req travel.Request, day travel.Day) error {
	punchIn := day.Date.Add(req.StartTime)
	punchOut := day.Date.Add(req.EndTime)

	ts, err := s.timesheets.Clock(ctx, timesheet.ClockRequest{
		UserID:          req.Sender,
		Timestamp:       punchIn,
		EntryMethod:     timesheet.MethodTravel,
		Remarks:         req.Location,
		WorkingRemotely: req.WorkingRemotely,
	})
	if err != nil {
		return fmt.Errorf("clocking travel punch in: %w", err)
	}
	if _, err := s.timesheets.Clock(ctx, timesheet.ClockRequest{
		UserID:          req.Sender,
		Timestamp:       punchOut,
		EntryMethod:     timesheet.MethodTravel,
		Remarks:         req.Location,
		WorkingRemotely: req.WorkingRemotely,
	}); err != nil {
		return fmt.Errorf("clocking travel punch out: %w", err)
	}

	day.TimeSheetID = &ts.ID
	day.IsProcessed = true
	if err := s.repo.UpdateDay(ctx, day); err != nil {
		return fmt.Errorf("marking travel day processed: %w", err)
	}

	if req.RequestCreditHours && req.CreditDuration > 0 {
		_, err := s.credits.CreateRequest(ctx, credithour.CreateRequestInput{
			SenderID: req.Sender,
			Date:     day.Date,
			Duration: req.CreditDuration,
			Remarks:  fmt.Sprintf("Credit hours for travel to %s.", req.Location),
		}, user.SystemActorID, approval.ModeHR)
		if err != nil {
			slog.Warn("Travel credit request failed",
				"request_id", req.ID, "date", day.Date.Format(time.DateOnly), "error", err)
		}
	}

	s.notify(ctx, req.Sender, nil, notification.TypeTravelMaterialized,
		"Travel day recorded",
		fmt.Sprintf("Attendance for %s was recorded from your travel request.",
			day.Date.Format(time.DateOnly)),
		map[string]interface{}{"request_id": req.ID, "timesheet_id": ts.ID})
	return nil
}

// RequestDeletion opens a reversal request for an approved travel
// request.
func (s *Service) RequestDeletion(ctx context.Context, requestID, actorID, remarks string) (travel.DeleteRequest, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return travel.DeleteRequest{}, err
	}
	if req.Lifecycle == approval.LifecycleDeleted {
		return travel.DeleteRequest{}, travel.ErrRequestNotFound
	}
	if req.Status != approval.StatusApproved {
		return travel.DeleteRequest{}, travel.ErrDeleteNotApproved
	}

	open, err := s.repo.GetOpenDeleteRequest(ctx, req.ID)
	if err != nil {
		return travel.DeleteRequest{}, fmt.Errorf("checking open delete requests: %w", err)
	}
	if open != nil {
		return travel.DeleteRequest{}, travel.ErrDeleteRequestExists
	}

	del := travel.DeleteRequest{
		ID:         uuid.NewString(),
		RequestRef: req.ID,
		Sender:     req.Sender,
		Recipient:  req.Sender,
		Status:     approval.StatusRequested,
		Remarks:    remarks,
	}
	recipient, err := s.workflow.NextRecipient(ctx, &del, approval.StatusRequested)
	if err != nil {
		return travel.DeleteRequest{}, err
	}
	del.Recipient = recipient

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if del, err = s.repo.CreateDeleteRequest(txCtx, del); err != nil {
			return fmt.Errorf("creating delete request: %w", err)
		}
		return s.repo.CreateDeleteRequestHistory(txCtx, travel.History{
			ID:          uuid.NewString(),
			RequestID:   del.ID,
			ActorID:     actorID,
			RecipientID: del.Recipient,
			Action:      approval.StatusRequested,
			Remark:      remarks,
		})
	})
	if err != nil {
		return travel.DeleteRequest{}, err
	}
	return del, nil
}

// ActOnDeleteRequest transitions a reversal request. Approval removes
// the synthetic punches of every processed day and marks the travel
// request deleted.
func (s *Service) ActOnDeleteRequest(ctx context.Context, deleteRequestID, actorID string, mode approval.Mode, action, remark string) (travel.DeleteRequest, error) {
	del, err := s.repo.GetDeleteRequest(ctx, deleteRequestID)
	if err != nil {
		return travel.DeleteRequest{}, err
	}

	target, err := approvalsvc.ActionStatus(action)
	if err != nil {
		return travel.DeleteRequest{}, err
	}
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return travel.DeleteRequest{}, err
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
		return s.repo.CreateDeleteRequestHistory(txCtx, history)
	})
	if err != nil {
		return travel.DeleteRequest{}, err
	}

	if target == approval.StatusApproved {
		if err := s.revertDays(ctx, del); err != nil {
			return travel.DeleteRequest{}, err
		}
	}
	return del, nil
}

// revertDays strips each processed day's synthetic entries and deletes
// the day rows. Entry removal goes through the timesheet soft-delete so
// derived overtime and credit recalibrate through the usual events.
func (s *Service) revertDays(ctx context.Context, del travel.DeleteRequest) error {
	req, err := s.repo.GetRequest(ctx, del.RequestRef)
	if err != nil {
		return err
	}
	days, err := s.repo.ListDays(ctx, req.ID)
	if err != nil {
		return fmt.Errorf("listing travel days: %w", err)
	}

	for _, day := range days {
		if day.IsProcessed && day.TimeSheetID != nil {
			if err := s.timesheets.DeleteEntriesByMethod(ctx, *day.TimeSheetID, timesheet.MethodTravel); err != nil {
				return fmt.Errorf("reverting travel day %s: %w", day.Date.Format(time.DateOnly), err)
			}
		}
		if err := s.repo.DeleteDay(ctx, day.ID); err != nil {
			return fmt.Errorf("deleting travel day: %w", err)
		}
	}

	req.Lifecycle = approval.LifecycleDeleted
	return s.repo.UpdateRequest(ctx, req)
}

// applicableDays filters the range down to days the sender is actually
// scheduled to work. Holidays and off-days never become travel days.
func (s *Service) applicableDays(ctx context.Context, senderID string, start, end time.Time) ([]time.Time, error) {
	var out []time.Time
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		coefficient, err := s.calendar.Coefficient(ctx, senderID, date)
		if err != nil {
			return nil, fmt.Errorf("classifying %s: %w", date.Format(time.DateOnly), err)
		}
		if coefficient != timesheet.CoefficientWorkday {
			continue
		}
		out = append(out, date)
	}
	return out, nil
}

func (s *Service) actor(ctx context.Context, actorID string) (user.User, error) {
	if actorID == user.SystemActorID {
		return user.SystemActor(), nil
	}
	return s.users.GetByID(ctx, actorID)
}

func (s *Service) notifyTransition(ctx context.Context, req travel.Request, actorID string, status approval.Status) {
	var (
		nType     notification.NotificationType
		recipient string
		message   string
	)
	switch status {
	case approval.StatusForwarded:
		nType, recipient = notification.TypeClaimForwarded, req.Recipient
		message = "A travel request was forwarded to you."
	case approval.StatusApproved:
		nType, recipient = notification.TypeClaimApproved, req.Sender
		message = "Your travel request was approved."
	case approval.StatusDeclined:
		nType, recipient = notification.TypeClaimDeclined, req.Sender
		message = "Your travel request was declined."
	default:
		return
	}
	sender := actorID
	s.notify(ctx, recipient, &sender, nType, "Travel request "+string(status), message,
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
