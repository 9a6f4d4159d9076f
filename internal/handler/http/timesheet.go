package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	timesheetsvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/timesheet"
	"github.com/go-chi/chi/v5"
)

type TimeSheetHandler interface {
	Clock(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Entries(w http.ResponseWriter, r *http.Request)
	RequestManualEntry(w http.ResponseWriter, r *http.Request)
	DecideEntryApproval(w http.ResponseWriter, r *http.Request)
	DeleteEntry(w http.ResponseWriter, r *http.Request)
}

type TimeSheetHandlerImpl struct {
	timesheetService *timesheetsvc.Service
}

// Clock implements TimeSheetHandler.
func (h *TimeSheetHandlerImpl) Clock(w http.ResponseWriter, r *http.Request) {
	var clockReq timesheet.ClockRequest

	if err := json.NewDecoder(r.Body).Decode(&clockReq); err != nil {
		slog.Error("Clock decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// The punch always belongs to the authenticated user.
	clockReq.UserID = getUserIDFromContext(r)
	if clockReq.Timestamp.IsZero() {
		clockReq.Timestamp = time.Now()
	}
	if clockReq.EntryMethod == "" {
		clockReq.EntryMethod = timesheet.MethodWeb
	}

	ts, err := h.timesheetService.Clock(r.Context(), clockReq)
	if err != nil {
		slog.Error("Clock service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch recorded", timesheet.NewTimeSheetResponse(ts))
}

// List implements TimeSheetHandler.
func (h *TimeSheetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r.URL.Query().Get("from"))
	if err != nil {
		response.BadRequest(w, "Invalid from date, expected YYYY-MM-DD", nil)
		return
	}
	to, err := parseDateParam(r.URL.Query().Get("to"))
	if err != nil {
		response.BadRequest(w, "Invalid to date, expected YYYY-MM-DD", nil)
		return
	}

	userID := getUserIDFromContext(r)
	if target := r.URL.Query().Get("user_id"); target != "" && target != userID {
		// Only HR may read someone else's timesheets.
		if getRoleFromContext(r) != user.RoleHR {
			response.Forbidden(w, "HR role required")
			return
		}
		userID = target
	}

	sheets, err := h.timesheetService.ListRange(r.Context(), userID, from, to)
	if err != nil {
		slog.Error("List timesheets service error", "error", err)
		response.HandleError(w, err)
		return
	}

	responses := make([]timesheet.TimeSheetResponse, 0, len(sheets))
	for _, ts := range sheets {
		responses = append(responses, timesheet.NewTimeSheetResponse(ts))
	}
	response.Success(w, responses)
}

// Entries implements TimeSheetHandler.
func (h *TimeSheetHandlerImpl) Entries(w http.ResponseWriter, r *http.Request) {
	timeSheetID := chi.URLParam(r, "id")

	entries, err := h.timesheetService.Entries(r.Context(), timeSheetID)
	if err != nil {
		slog.Error("List entries service error", "error", err)
		response.HandleError(w, err)
		return
	}

	responses := make([]timesheet.TimeSheetEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, timesheet.NewTimeSheetEntryResponse(e))
	}
	response.Success(w, responses)
}

// RequestManualEntry implements TimeSheetHandler. Manual punches do not
// hit the timesheet directly; they wait for a supervisor decision.
func (h *TimeSheetHandlerImpl) RequestManualEntry(w http.ResponseWriter, r *http.Request) {
	var clockReq timesheet.ClockRequest

	if err := json.NewDecoder(r.Body).Decode(&clockReq); err != nil {
		slog.Error("RequestManualEntry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	clockReq.UserID = getUserIDFromContext(r)
	if clockReq.Timestamp.IsZero() {
		response.BadRequest(w, "timestamp is required", nil)
		return
	}
	clockReq.EntryMethod = timesheet.MethodAdjustment

	entryApproval, err := h.timesheetService.GenerateApprovalEntry(r.Context(), clockReq)
	if err != nil {
		slog.Error("RequestManualEntry service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Manual punch submitted for approval", entryApproval.ID)
}

type decideEntryApprovalRequest struct {
	Approve bool `json:"approve"`
}

// DecideEntryApproval implements TimeSheetHandler.
func (h *TimeSheetHandlerImpl) DecideEntryApproval(w http.ResponseWriter, r *http.Request) {
	approvalID := chi.URLParam(r, "id")

	var decideReq decideEntryApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&decideReq); err != nil {
		slog.Error("DecideEntryApproval decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.timesheetService.DecideEntryApproval(r.Context(), approvalID, decideReq.Approve); err != nil {
		slog.Error("DecideEntryApproval service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Punch approval decided")
}

// DeleteEntry implements TimeSheetHandler.
func (h *TimeSheetHandlerImpl) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	timeSheetID := chi.URLParam(r, "id")
	entryID := chi.URLParam(r, "entryID")

	if err := h.timesheetService.SoftDeleteEntry(r.Context(), entryID, timeSheetID); err != nil {
		slog.Error("DeleteEntry service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Punch removed")
}

func NewTimeSheetHandler(timesheetService *timesheetsvc.Service) TimeSheetHandler {
	return &TimeSheetHandlerImpl{timesheetService: timesheetService}
}
