package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/credithour"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	credithoursvc "github.com/cmlabs-hris/attendance-engine-go/internal/service/credithour"
	"github.com/go-chi/chi/v5"
)

type CreditHourHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	BulkOnBehalf(w http.ResponseWriter, r *http.Request)
	PerformAction(w http.ResponseWriter, r *http.Request)
	RequestDeletion(w http.ResponseWriter, r *http.Request)
	ActOnDeleteRequest(w http.ResponseWriter, r *http.Request)
}

type CreditHourHandlerImpl struct {
	creditService *credithoursvc.Service
}

type createCreditHourRequest struct {
	SenderID        string `json:"sender_id,omitempty"` // supervisor/HR on-behalf
	Date            string `json:"date"`
	DurationSeconds int64  `json:"duration_seconds"`
	Remarks         string `json:"remarks"`
	As              string `json:"as,omitempty"`
}

func (req createCreditHourRequest) toInput(defaultSender string) (credithour.CreateRequestInput, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return credithour.CreateRequestInput{}, err
	}
	senderID := req.SenderID
	if senderID == "" {
		senderID = defaultSender
	}
	return credithour.CreateRequestInput{
		SenderID: senderID,
		Date:     date,
		Duration: time.Duration(req.DurationSeconds) * time.Second,
		Remarks:  req.Remarks,
	}, nil
}

// Create implements CreditHourHandler.
func (h *CreditHourHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq createCreditHourRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create credit hour decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	actorID := getUserIDFromContext(r)
	input, err := createReq.toInput(actorID)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	created, err := h.creditService.CreateRequest(r.Context(), input, actorID, actorMode(r, createReq.As))
	if err != nil {
		slog.Error("Create credit hour service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Credit hour request created", credithour.NewRequestResponse(created))
}

type bulkOnBehalfRequest struct {
	Requests []createCreditHourRequest `json:"requests"`
}

// BulkOnBehalf implements CreditHourHandler. HR seeds a batch of
// requests that land directly in Approved.
func (h *CreditHourHandlerImpl) BulkOnBehalf(w http.ResponseWriter, r *http.Request) {
	var bulkReq bulkOnBehalfRequest

	if err := json.NewDecoder(r.Body).Decode(&bulkReq); err != nil {
		slog.Error("BulkOnBehalf decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if len(bulkReq.Requests) == 0 {
		response.BadRequest(w, "requests must not be empty", nil)
		return
	}

	actorID := getUserIDFromContext(r)
	input := credithour.BulkOnBehalfInput{ActorID: actorID}
	for i, raw := range bulkReq.Requests {
		item, err := raw.toInput("")
		if err != nil || item.SenderID == "" {
			response.BadRequest(w, "Each request needs a sender_id and a YYYY-MM-DD date", map[string]string{
				"index": fmt.Sprintf("%d", i),
			})
			return
		}
		input.Requests = append(input.Requests, item)
	}

	created, failures := h.creditService.BulkOnBehalf(r.Context(), input)

	responses := make([]credithour.RequestResponse, 0, len(created))
	for _, req := range created {
		responses = append(responses, credithour.NewRequestResponse(req))
	}
	response.SuccessWithMessage(w, "Bulk credit hour requests processed", map[string]interface{}{
		"created":  responses,
		"failures": failures,
	})
}

// PerformAction implements CreditHourHandler.
func (h *CreditHourHandlerImpl) PerformAction(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var actionReq actionRequest
	if err := json.NewDecoder(r.Body).Decode(&actionReq); err != nil {
		slog.Error("Credit hour action decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.creditService.PerformAction(r.Context(), requestID, getUserIDFromContext(r), actorMode(r, actionReq.As), actionReq.Action, actionReq.Remark)
	if err != nil {
		slog.Error("Credit hour action service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Credit hour request updated", credithour.NewRequestResponse(updated))
}

type deletionRequest struct {
	Remarks string `json:"remarks"`
}

// RequestDeletion implements CreditHourHandler.
func (h *CreditHourHandlerImpl) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var delReq deletionRequest
	if err := json.NewDecoder(r.Body).Decode(&delReq); err != nil {
		slog.Error("Credit hour deletion decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.creditService.RequestDeletion(r.Context(), requestID, getUserIDFromContext(r), delReq.Remarks)
	if err != nil {
		slog.Error("Credit hour deletion service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Deletion request created", credithour.NewDeleteRequestResponse(created))
}

// ActOnDeleteRequest implements CreditHourHandler.
func (h *CreditHourHandlerImpl) ActOnDeleteRequest(w http.ResponseWriter, r *http.Request) {
	deleteRequestID := chi.URLParam(r, "id")

	var actionReq actionRequest
	if err := json.NewDecoder(r.Body).Decode(&actionReq); err != nil {
		slog.Error("Credit hour delete action decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.creditService.ActOnDeleteRequest(r.Context(), deleteRequestID, getUserIDFromContext(r), actorMode(r, actionReq.As), actionReq.Action, actionReq.Remark)
	if err != nil {
		slog.Error("Credit hour delete action service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Deletion request updated", credithour.NewDeleteRequestResponse(updated))
}

func NewCreditHourHandler(creditService *credithoursvc.Service) CreditHourHandler {
	return &CreditHourHandlerImpl{creditService: creditService}
}
