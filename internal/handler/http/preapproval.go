package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/preapproval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	preapprovalsvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/preapproval"
	"github.com/go-chi/chi/v5"
)

type PreApprovalHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	PerformAction(w http.ResponseWriter, r *http.Request)
	Edit(w http.ResponseWriter, r *http.Request)
}

type PreApprovalHandlerImpl struct {
	preApprovalService *preapprovalsvc.Service
}

type createPreApprovalRequest struct {
	SenderID        string `json:"sender_id,omitempty"`
	Date            string `json:"date"`
	DurationSeconds int64  `json:"duration_seconds"`
	Remarks         string `json:"remarks"`
	As              string `json:"as,omitempty"`
}

// Create implements PreApprovalHandler.
func (h *PreApprovalHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq createPreApprovalRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create pre-approval decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	date, err := time.Parse("2006-01-02", createReq.Date)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	actorID := getUserIDFromContext(r)
	senderID := createReq.SenderID
	if senderID == "" {
		senderID = actorID
	}

	created, err := h.preApprovalService.CreateRequest(r.Context(), preapproval.CreateInput{
		SenderID: senderID,
		Date:     date,
		Duration: time.Duration(createReq.DurationSeconds) * time.Second,
		Remarks:  createReq.Remarks,
	}, actorID, actorMode(r, createReq.As))
	if err != nil {
		slog.Error("Create pre-approval service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Pre-approval overtime request created", preapproval.NewResponse(created))
}

// PerformAction implements PreApprovalHandler.
func (h *PreApprovalHandlerImpl) PerformAction(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var actionReq actionRequest
	if err := json.NewDecoder(r.Body).Decode(&actionReq); err != nil {
		slog.Error("Pre-approval action decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.preApprovalService.PerformAction(r.Context(), requestID, getUserIDFromContext(r), actorMode(r, actionReq.As), actionReq.Action, actionReq.Remark)
	if err != nil {
		slog.Error("Pre-approval action service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pre-approval request updated", preapproval.NewResponse(updated))
}

type editPreApprovalRequest struct {
	DurationSeconds int64  `json:"duration_seconds"`
	Remarks         string `json:"remarks"`
}

// Edit implements PreApprovalHandler.
func (h *PreApprovalHandlerImpl) Edit(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var editReq editPreApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&editReq); err != nil {
		slog.Error("Edit pre-approval decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.preApprovalService.Edit(r.Context(), requestID, getUserIDFromContext(r), time.Duration(editReq.DurationSeconds)*time.Second, editReq.Remarks)
	if err != nil {
		slog.Error("Edit pre-approval service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pre-approval request updated", preapproval.NewResponse(updated))
}

func NewPreApprovalHandler(preApprovalService *preapprovalsvc.Service) PreApprovalHandler {
	return &PreApprovalHandlerImpl{preApprovalService: preApprovalService}
}
