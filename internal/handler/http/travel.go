package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/travel"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	travelsvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/travel"
	"github.com/go-chi/chi/v5"
)

type TravelHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	PerformAction(w http.ResponseWriter, r *http.Request)
	RequestDeletion(w http.ResponseWriter, r *http.Request)
	ActOnDeleteRequest(w http.ResponseWriter, r *http.Request)
}

type TravelHandlerImpl struct {
	travelService *travelsvc.Service
}

type createTravelRequest struct {
	StartDate             string `json:"start_date"`
	EndDate               string `json:"end_date"`
	StartTimeSeconds      int64  `json:"start_time_seconds"` // offset from midnight
	EndTimeSeconds        int64  `json:"end_time_seconds"`
	Location              string `json:"location"`
	Remarks               string `json:"remarks"`
	WorkingRemotely       bool   `json:"working_remotely"`
	RequestCreditHours    bool   `json:"request_credit_hours"`
	CreditDurationSeconds int64  `json:"credit_duration_seconds"`
}

// Create implements TravelHandler.
func (h *TravelHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq createTravelRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create travel decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	startDate, err := time.Parse("2006-01-02", createReq.StartDate)
	if err != nil {
		response.BadRequest(w, "Invalid start_date, expected YYYY-MM-DD", nil)
		return
	}
	endDate, err := time.Parse("2006-01-02", createReq.EndDate)
	if err != nil {
		response.BadRequest(w, "Invalid end_date, expected YYYY-MM-DD", nil)
		return
	}

	actorID := getUserIDFromContext(r)
	created, err := h.travelService.CreateRequest(r.Context(), travel.CreateInput{
		SenderID:           actorID,
		StartDate:          startDate,
		EndDate:            endDate,
		StartTime:          time.Duration(createReq.StartTimeSeconds) * time.Second,
		EndTime:            time.Duration(createReq.EndTimeSeconds) * time.Second,
		Location:           createReq.Location,
		Remarks:            createReq.Remarks,
		WorkingRemotely:    createReq.WorkingRemotely,
		RequestCreditHours: createReq.RequestCreditHours,
		CreditDuration:     time.Duration(createReq.CreditDurationSeconds) * time.Second,
	}, actorID)
	if err != nil {
		slog.Error("Create travel service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Travel request created", travel.NewRequestResponse(created))
}

// PerformAction implements TravelHandler.
func (h *TravelHandlerImpl) PerformAction(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var actionReq actionRequest
	if err := json.NewDecoder(r.Body).Decode(&actionReq); err != nil {
		slog.Error("Travel action decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.travelService.PerformAction(r.Context(), requestID, getUserIDFromContext(r), actorMode(r, actionReq.As), actionReq.Action, actionReq.Remark)
	if err != nil {
		slog.Error("Travel action service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Travel request updated", travel.NewRequestResponse(updated))
}

// RequestDeletion implements TravelHandler.
func (h *TravelHandlerImpl) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var delReq deletionRequest
	if err := json.NewDecoder(r.Body).Decode(&delReq); err != nil {
		slog.Error("Travel deletion decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.travelService.RequestDeletion(r.Context(), requestID, getUserIDFromContext(r), delReq.Remarks)
	if err != nil {
		slog.Error("Travel deletion service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Travel deletion request created", travel.NewDeleteRequestResponse(created))
}

// ActOnDeleteRequest implements TravelHandler.
func (h *TravelHandlerImpl) ActOnDeleteRequest(w http.ResponseWriter, r *http.Request) {
	deleteRequestID := chi.URLParam(r, "id")

	var actionReq actionRequest
	if err := json.NewDecoder(r.Body).Decode(&actionReq); err != nil {
		slog.Error("Travel delete action decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.travelService.ActOnDeleteRequest(r.Context(), deleteRequestID, getUserIDFromContext(r), actorMode(r, actionReq.As), actionReq.Action, actionReq.Remark)
	if err != nil {
		slog.Error("Travel delete action service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Travel deletion request updated", travel.NewDeleteRequestResponse(updated))
}

func NewTravelHandler(travelService *travelsvc.Service) TravelHandler {
	return &TravelHandlerImpl{travelService: travelService}
}
