package timesheet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/supervisor"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/events"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-engine-go/internal/service/shiftcalendar"
	"github.com/jackc/pgx/v5"
)

// Service owns the TimeSheet/TimeSheetEntry lifecycle. The day's
// entries are the source of truth; the timesheet's punch fields are a
// derived cache rebuilt on every new punch.
type Service struct {
	db                    *database.DB
	repo                  timesheet.TimeSheetRepository
	shiftRepo             shift.ShiftRepository
	edges                 supervisor.EdgeRepository
	calendar              *shiftcalendar.Service
	bus                   *events.Bus
	unpaidBreakCategories []string
}

func NewService(
	db *database.DB,
	repo timesheet.TimeSheetRepository,
	shiftRepo shift.ShiftRepository,
	edges supervisor.EdgeRepository,
	calendar *shiftcalendar.Service,
	bus *events.Bus,
	unpaidBreakCategories []string,
) *Service {
	return &Service{
		db:                    db,
		repo:                  repo,
		shiftRepo:             shiftRepo,
		edges:                 edges,
		calendar:              calendar,
		bus:                   bus,
		unpaidBreakCategories: unpaidBreakCategories,
	}
}

// ListRange returns the user's timesheets inside [from, to].
func (s *Service) ListRange(ctx context.Context, userID string, from, to time.Time) ([]timesheet.TimeSheet, error) {
	return s.repo.ListByUserAndRange(ctx, userID, from, to)
}

// Entries returns a timesheet's punches ordered by timestamp.
func (s *Service) Entries(ctx context.Context, timeSheetID string) ([]timesheet.TimeSheetEntry, error) {
	return s.repo.ListEntries(ctx, timeSheetID)
}

// GetOrCreateTimesheet resolves the shift slot for the punch instant
// and upserts the daily record. When no timing matches, an off-day or
// holiday record without expected punches is created instead. The
// coefficient is recomputed on every touch because calendar edits can
// reclassify a day after the fact.
func (s *Service) GetOrCreateTimesheet(ctx context.Context, userID string, at time.Time) (timesheet.TimeSheet, error) {
	attribution, err := s.calendar.TimingInfo(ctx, userID, at)
	if err != nil && !errors.Is(err, shift.ErrNoTimingForDate) {
		if errors.Is(err, shift.ErrSettingNotFound) {
			return timesheet.TimeSheet{}, timesheet.ErrNoTimeSheet
		}
		return timesheet.TimeSheet{}, fmt.Errorf("failed to resolve timing: %w", err)
	}

	ts := timesheet.TimeSheet{
		UserID:           userID,
		LeaveCoefficient: timesheet.LeaveNone,
	}
	if attribution != nil {
		ts.Date = attribution.Date
		ts.WorkShiftID = &attribution.Shift.ID
		ts.WorkTimingID = &attribution.Timing.ID
		start, end := attribution.Timing.Window(attribution.Date)
		ts.ExpectedPunchIn = &start
		ts.ExpectedPunchOut = &end
	} else {
		ts.Date = utils.DateOnly(at)
	}

	existing, err := s.repo.GetByUserAndDate(ctx, userID, ts.Date)
	if err != nil {
		return timesheet.TimeSheet{}, fmt.Errorf("failed to look up timesheet: %w", err)
	}
	if existing != nil {
		ts.LeaveCoefficient = existing.LeaveCoefficient
	}

	coefficient, err := s.calendar.Coefficient(ctx, userID, ts.Date)
	if err != nil {
		return timesheet.TimeSheet{}, fmt.Errorf("failed to classify day: %w", err)
	}
	ts.Coefficient = coefficient

	ts, err = s.repo.Upsert(ctx, ts)
	if err != nil {
		return timesheet.TimeSheet{}, fmt.Errorf("failed to upsert timesheet: %w", err)
	}
	return ts, nil
}

// Clock records a punch and reprocesses the day. A timestamp collision
// is recovered by delete-and-recreate inside the same transaction so
// the day never holds duplicates.
func (s *Service) Clock(ctx context.Context, req timesheet.ClockRequest) (timesheet.TimeSheet, error) {
	ts, err := s.GetOrCreateTimesheet(ctx, req.UserID, req.Timestamp)
	if err != nil {
		return timesheet.TimeSheet{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		entry := timesheet.TimeSheetEntry{
			TimeSheetID:    ts.ID,
			Timestamp:      req.Timestamp,
			EntryType:      timesheet.EntryUnknown,
			EntryMethod:    req.EntryMethod,
			Category:       timesheet.CategoryUncategorized,
			RemarkCategory: req.RemarkCategory,
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
		}
		if _, err := s.repo.CreateEntry(txCtx, entry); err != nil {
			if !errors.Is(err, timesheet.ErrDuplicateEntry) {
				return fmt.Errorf("failed to create entry: %w", err)
			}
			if err := s.repo.DeleteEntriesAt(txCtx, ts.ID, req.Timestamp); err != nil {
				return fmt.Errorf("failed to clear duplicate entries: %w", err)
			}
			if _, err := s.repo.CreateEntry(txCtx, entry); err != nil {
				return fmt.Errorf("failed to recreate entry: %w", err)
			}
		}

		ts.IsPresent = true
		ts.WorkingRemotely = req.WorkingRemotely
		return s.fixEntries(txCtx, &ts)
	})
	if err != nil {
		return timesheet.TimeSheet{}, err
	}

	if req.EntryMethod == timesheet.MethodAdjustment || req.EntryMethod == timesheet.MethodImport {
		s.bus.Publish(ctx, timesheet.CorrectedEvent{
			TimeSheetID: ts.ID,
			UserID:      ts.UserID,
			Date:        ts.Date,
		})
	}
	return ts, nil
}

// GenerateApprovalEntry records a pending punch routed to the first
// supervisor instead of applying it directly. Used when the setting
// requires web punches to be approved.
func (s *Service) GenerateApprovalEntry(ctx context.Context, req timesheet.ClockRequest) (timesheet.TimeSheetEntryApproval, error) {
	ts, err := s.GetOrCreateTimesheet(ctx, req.UserID, req.Timestamp)
	if err != nil {
		return timesheet.TimeSheetEntryApproval{}, err
	}
	edge, err := s.edges.GetAt(ctx, req.UserID, 1)
	if err != nil {
		return timesheet.TimeSheetEntryApproval{}, fmt.Errorf("failed to resolve supervisor: %w", err)
	}
	approvalRow := timesheet.TimeSheetEntryApproval{
		TimeSheetID: ts.ID,
		SenderID:    req.UserID,
		RecipientID: edge.SupervisorID,
		Timestamp:   req.Timestamp,
		EntryMethod: req.EntryMethod,
		Status:      timesheet.EntryPending,
		Remarks:     req.Remarks,
	}
	approvalRow, err = s.repo.CreateEntryApproval(ctx, approvalRow)
	if err != nil {
		return timesheet.TimeSheetEntryApproval{}, fmt.Errorf("failed to create entry approval: %w", err)
	}
	return approvalRow, nil
}

// DecideEntryApproval applies or rejects a pending punch. Approval
// replays the punch through Clock so the day is reprocessed normally.
func (s *Service) DecideEntryApproval(ctx context.Context, approvalID string, approve bool) error {
	row, err := s.repo.GetEntryApproval(ctx, approvalID)
	if err != nil {
		return err
	}
	if row.Status != timesheet.EntryPending {
		return timesheet.ErrApprovalAlreadyDecided
	}
	if approve {
		row.Status = timesheet.EntryApproved
	} else {
		row.Status = timesheet.EntryRejected
	}
	if err := s.repo.UpdateEntryApproval(ctx, row); err != nil {
		return fmt.Errorf("failed to update entry approval: %w", err)
	}
	if !approve {
		return nil
	}
	_, err = s.Clock(ctx, timesheet.ClockRequest{
		UserID:      row.SenderID,
		Timestamp:   row.Timestamp,
		EntryMethod: row.EntryMethod,
	})
	return err
}

// SoftDeleteEntry marks an entry deleted and rebuilds the day from the
// remaining entries. Presence is recomputed from what is left.
func (s *Service) SoftDeleteEntry(ctx context.Context, entryID string, timeSheetID string) error {
	ts, err := s.repo.GetByID(ctx, timeSheetID)
	if err != nil {
		return err
	}
	entries, err := s.repo.ListEntries(ctx, ts.ID)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	var target *timesheet.TimeSheetEntry
	remaining := 0
	for i := range entries {
		if entries[i].IsDeleted {
			continue
		}
		if entries[i].ID == entryID {
			target = &entries[i]
			continue
		}
		remaining++
	}
	if target == nil {
		return timesheet.ErrEntryNotFound
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		target.IsDeleted = true
		if err := s.repo.UpdateEntry(txCtx, *target); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		ts.PunchIn = nil
		ts.PunchOut = nil
		ts.PunchInDelta = nil
		ts.PunchOutDelta = nil
		ts.WorkedHours = 0
		ts.IsPresent = remaining > 0
		return s.fixEntries(txCtx, &ts)
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, timesheet.CorrectedEvent{
		TimeSheetID: ts.ID,
		UserID:      ts.UserID,
		Date:        ts.Date,
	})
	return nil
}

// DeleteEntriesByMethod soft-deletes every entry a given source wrote
// to a timesheet and rebuilds the day. Used when a travel request is
// reverted and its synthetic punches must disappear.
func (s *Service) DeleteEntriesByMethod(ctx context.Context, timeSheetID string, method timesheet.EntryMethod) error {
	ts, err := s.repo.GetByID(ctx, timeSheetID)
	if err != nil {
		return err
	}
	entries, err := s.repo.ListEntries(ctx, ts.ID)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	var targets []timesheet.TimeSheetEntry
	remaining := 0
	for _, e := range entries {
		if e.IsDeleted {
			continue
		}
		if e.EntryMethod == method {
			targets = append(targets, e)
			continue
		}
		remaining++
	}
	if len(targets) == 0 {
		return nil
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		for _, target := range targets {
			target.IsDeleted = true
			if err := s.repo.UpdateEntry(txCtx, target); err != nil {
				return fmt.Errorf("failed to delete entry: %w", err)
			}
		}
		ts.PunchIn = nil
		ts.PunchOut = nil
		ts.PunchInDelta = nil
		ts.PunchOutDelta = nil
		ts.WorkedHours = 0
		ts.IsPresent = remaining > 0
		return s.fixEntries(txCtx, &ts)
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, timesheet.CorrectedEvent{
		TimeSheetID: ts.ID,
		UserID:      ts.UserID,
		Date:        ts.Date,
	})
	return nil
}

// fixEntries rebuilds the timesheet's derived punch fields from the
// full entry set: first entry is the punch in, last the punch out,
// middle entries alternate break out/in. Reprocessing everything on
// each punch keeps entry ordering races from causing divergent state.
func (s *Service) fixEntries(ctx context.Context, ts *timesheet.TimeSheet) error {
	all, err := s.repo.ListEntries(ctx, ts.ID)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	var entries []timesheet.TimeSheetEntry
	for _, e := range all {
		if !e.IsDeleted {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return s.repo.Update(ctx, *ts)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp.Before(entries[j].Timestamp) })

	var ws *shift.WorkShift
	if ts.WorkShiftID != nil {
		loaded, err := s.shiftRepo.GetShift(ctx, *ts.WorkShiftID)
		if err != nil {
			return fmt.Errorf("failed to load shift: %w", err)
		}
		ws = &loaded
	}
	uncategorized := ts.Coefficient != timesheet.CoefficientWorkday || ts.LeaveCoefficient == timesheet.LeaveFull

	punchIn := entries[0]
	punchIn.EntryType = timesheet.EntryPunchIn
	if uncategorized || ws == nil || ts.ExpectedPunchIn == nil {
		punchIn.Category = timesheet.CategoryUncategorized
		ts.PunchInDelta = nil
		ts.Punctuality = nil
	} else {
		delta := punchIn.Timestamp.Sub(*ts.ExpectedPunchIn)
		ts.PunchInDelta = &delta
		switch {
		case punchIn.Timestamp.After(ts.ExpectedPunchIn.Add(ws.StartTimeGrace)):
			punchIn.Category = timesheet.CategoryLateIn
			p := punctuality(*ts.ExpectedPunchIn, punchIn.Timestamp)
			ts.Punctuality = &p
		case punchIn.Timestamp.Before(*ts.ExpectedPunchIn):
			punchIn.Category = timesheet.CategoryEarlyIn
			p := 100.0
			ts.Punctuality = &p
		default:
			punchIn.Category = timesheet.CategoryTimelyIn
			p := 100.0
			ts.Punctuality = &p
		}
	}
	if err := s.repo.UpdateEntry(ctx, punchIn); err != nil {
		return fmt.Errorf("failed to update punch in entry: %w", err)
	}
	ts.PunchIn = &punchIn.Timestamp

	if len(entries) > 1 {
		punchOut := entries[len(entries)-1]
		punchOut.EntryType = timesheet.EntryPunchOut
		if uncategorized || ws == nil || ts.ExpectedPunchOut == nil {
			punchOut.Category = timesheet.CategoryUncategorized
			ts.PunchOutDelta = nil
		} else {
			delta := punchOut.Timestamp.Sub(*ts.ExpectedPunchOut)
			ts.PunchOutDelta = &delta
			switch {
			case punchOut.Timestamp.Before(ts.ExpectedPunchOut.Add(-ws.EndTimeGrace)):
				punchOut.Category = timesheet.CategoryEarlyOut
			case punchOut.Timestamp.After(*ts.ExpectedPunchOut):
				punchOut.Category = timesheet.CategoryLateOut
			default:
				punchOut.Category = timesheet.CategoryTimelyOut
			}
		}
		if err := s.repo.UpdateEntry(ctx, punchOut); err != nil {
			return fmt.Errorf("failed to update punch out entry: %w", err)
		}
		ts.PunchOut = &punchOut.Timestamp

		// Everything between the punches alternates break out / in.
		middle := entries[1 : len(entries)-1]
		var unpaid time.Duration
		for i := 0; i < len(middle); i += 2 {
			breakOut := middle[i]
			breakOut.EntryType = timesheet.EntryBreakOut
			breakOut.Category = timesheet.CategoryUncategorized
			if err := s.repo.UpdateEntry(ctx, breakOut); err != nil {
				return fmt.Errorf("failed to update break entry: %w", err)
			}
			if i+1 < len(middle) {
				breakIn := middle[i+1]
				breakIn.EntryType = timesheet.EntryBreakIn
				breakIn.Category = timesheet.CategoryUncategorized
				if err := s.repo.UpdateEntry(ctx, breakIn); err != nil {
					return fmt.Errorf("failed to update break entry: %w", err)
				}
				if s.isUnpaidBreak(breakOut.RemarkCategory) {
					unpaid += breakIn.Timestamp.Sub(breakOut.Timestamp)
				}
			}
		}
		ts.UnpaidBreakHours = unpaid
		ts.WorkedHours = punchOut.Timestamp.Sub(punchIn.Timestamp) - unpaid
	}

	return s.repo.Update(ctx, *ts)
}

func (s *Service) isUnpaidBreak(category string) bool {
	for _, c := range s.unpaidBreakCategories {
		if c == category {
			return true
		}
	}
	return false
}

// punctuality decays from 100 by 100/60 percent per minute of lateness.
func punctuality(expected, actual time.Time) float64 {
	if !actual.After(expected) {
		return 100.0
	}
	deviation := actual.Sub(expected).Seconds()
	reduceBy := deviation / 60 * (100.0 / 60)
	if reduceBy >= 100.0 {
		return 0
	}
	return 100.0 - reduceBy
}
