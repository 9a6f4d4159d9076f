package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	overtimesvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/overtime"
	"github.com/go-chi/chi/v5"
)

type OvertimeHandler interface {
	ClaimDetail(w http.ResponseWriter, r *http.Request)
	PerformAction(w http.ResponseWriter, r *http.Request)
	EditDetail(w http.ResponseWriter, r *http.Request)
	Recalibrate(w http.ResponseWriter, r *http.Request)
	GenerateForDate(w http.ResponseWriter, r *http.Request)
}

type OvertimeHandlerImpl struct {
	overtimeService *overtimesvc.Service
	userRepo        user.UserRepository
}

// ClaimDetail implements OvertimeHandler.
func (h *OvertimeHandlerImpl) ClaimDetail(w http.ResponseWriter, r *http.Request) {
	claimID := chi.URLParam(r, "id")

	detail, err := h.overtimeService.ClaimDetail(r.Context(), claimID)
	if err != nil {
		slog.Error("ClaimDetail service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, detail)
}

// PerformAction implements OvertimeHandler.
func (h *OvertimeHandlerImpl) PerformAction(w http.ResponseWriter, r *http.Request) {
	claimID := chi.URLParam(r, "id")

	var actionReq actionRequest
	if err := json.NewDecoder(r.Body).Decode(&actionReq); err != nil {
		slog.Error("Overtime action decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	claim, err := h.overtimeService.PerformAction(r.Context(), claimID, getUserIDFromContext(r), actorMode(r, actionReq.As), overtime.ClaimActionRequest{
		Action: actionReq.Action,
		Remark: actionReq.Remark,
	})
	if err != nil {
		slog.Error("Overtime action service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Claim updated", map[string]interface{}{
		"id":           claim.ID,
		"status":       claim.Status,
		"recipient_id": claim.Recipient,
	})
}

type editDetailRequest struct {
	PunchInOvertimeSeconds  int64  `json:"punch_in_overtime_seconds"`
	PunchOutOvertimeSeconds int64  `json:"punch_out_overtime_seconds"`
	Remarks                 string `json:"remarks"`
}

// EditDetail implements OvertimeHandler.
func (h *OvertimeHandlerImpl) EditDetail(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	var editReq editDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&editReq); err != nil {
		slog.Error("EditDetail decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	actor, err := h.userRepo.GetByID(r.Context(), getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	detail, err := h.overtimeService.EditDetail(r.Context(), entryID, actor, overtime.EditDetailRequest{
		PunchInOvertime:  time.Duration(editReq.PunchInOvertimeSeconds) * time.Second,
		PunchOutOvertime: time.Duration(editReq.PunchOutOvertimeSeconds) * time.Second,
		Remarks:          editReq.Remarks,
	})
	if err != nil {
		slog.Error("EditDetail service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime detail updated", map[string]interface{}{
		"id":                 detail.ID,
		"punch_in_overtime":  detail.PunchInOvertime.String(),
		"punch_out_overtime": detail.PunchOutOvertime.String(),
	})
}

type recalibrateRequest struct {
	Remarks string `json:"remarks"`
}

// Recalibrate implements OvertimeHandler.
func (h *OvertimeHandlerImpl) Recalibrate(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	var recalReq recalibrateRequest
	if err := json.NewDecoder(r.Body).Decode(&recalReq); err != nil {
		slog.Error("Recalibrate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	actor, err := h.userRepo.GetByID(r.Context(), getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	changed, err := h.overtimeService.Recalibrate(r.Context(), entryID, actor, recalReq.Remarks)
	if err != nil {
		slog.Error("Recalibrate service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Recalibration finished", map[string]interface{}{
		"changed": changed,
	})
}

// GenerateForDate implements OvertimeHandler. Normally overtime entries
// materialize via the scheduler; HR can force a date by hand.
func (h *OvertimeHandlerImpl) GenerateForDate(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	if err := h.overtimeService.GenerateForDate(r.Context(), date); err != nil {
		slog.Error("GenerateForDate service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Overtime generation finished")
}

func NewOvertimeHandler(overtimeService *overtimesvc.Service, userRepo user.UserRepository) OvertimeHandler {
	return &OvertimeHandlerImpl{
		overtimeService: overtimeService,
		userRepo:        userRepo,
	}
}
