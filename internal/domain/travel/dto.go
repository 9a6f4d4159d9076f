package travel

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
)

// CreateInput is a travel attendance submission covering a date range.
type CreateInput struct {
	SenderID           string        `json:"sender_id"`
	StartDate          time.Time     `json:"start_date"`
	EndDate            time.Time     `json:"end_date"`
	StartTime          time.Duration `json:"start_time"` // offset from midnight
	EndTime            time.Duration `json:"end_time"`
	Location           string        `json:"location"`
	Remarks            string        `json:"remarks"`
	WorkingRemotely    bool          `json:"working_remotely"`
	RequestCreditHours bool          `json:"request_credit_hours"`
	CreditDuration     time.Duration `json:"credit_duration"`
}

// RequestResponse is the read shape of a travel request.
type RequestResponse struct {
	ID          string `json:"id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Location    string `json:"location"`
	Days        int    `json:"days"`
	IsDeleted   bool   `json:"is_deleted"`
}

func NewRequestResponse(r Request) RequestResponse {
	days := int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
	return RequestResponse{
		ID:          r.ID,
		SenderID:    r.Sender,
		RecipientID: r.Recipient,
		Status:      string(r.Status),
		StartDate:   r.StartDate.Format("2006-01-02"),
		EndDate:     r.EndDate.Format("2006-01-02"),
		Location:    r.Location,
		Days:        days,
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
