package credithour

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
)

// CreateRequest is a self-service credit-hour submission.
type CreateRequestInput struct {
	SenderID string        `json:"sender_id"`
	Date     time.Time     `json:"date"`
	Duration time.Duration `json:"duration"`
	Remarks  string        `json:"remarks"`
}

// BulkOnBehalfInput seeds requests directly approved by HR.
type BulkOnBehalfInput struct {
	ActorID  string               `json:"actor_id"`
	Requests []CreateRequestInput `json:"requests"`
}

// RequestResponse is the read shape of a request.
type RequestResponse struct {
	ID          string `json:"id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Status      string `json:"status"`
	Date        string `json:"date"`
	Duration    string `json:"duration"`
	Remarks     string `json:"remarks"`
	GrantStatus string `json:"grant_status"`
	IsDeleted   bool   `json:"is_deleted"`
}

func NewRequestResponse(r Request) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		SenderID:    r.Sender,
		RecipientID: r.Recipient,
		Status:      string(r.Status),
		Date:        r.Date.Format("2006-01-02"),
		Duration:    r.Duration.String(),
		Remarks:     r.Remarks,
		GrantStatus: string(r.GrantStatus),
		IsDeleted:   r.Lifecycle == approval.LifecycleDeleted,
	}
}

// DeleteRequestResponse is the read shape of a deletion request.
type DeleteRequestResponse struct {
	ID          string `json:"id"`
	RequestID   string `json:"request_id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Status      string `json:"status"`
	Remarks     string `json:"remarks"`
}

func NewDeleteRequestResponse(d DeleteRequest) DeleteRequestResponse {
	return DeleteRequestResponse{
		ID:          d.ID,
		RequestID:   d.RequestRef,
		SenderID:    d.Sender,
		RecipientID: d.Recipient,
		Status:      string(d.Status),
		Remarks:     d.Remarks,
	}
}
