package preapproval

import "time"

// CreateInput is a pre-approval overtime submission.
type CreateInput struct {
	SenderID string        `json:"sender_id"`
	Date     time.Time     `json:"date"`
	Duration time.Duration `json:"duration"`
	Remarks  string        `json:"remarks"`
}

// Response is the read shape of a pre-approval request.
type Response struct {
	ID              string  `json:"id"`
	SenderID        string  `json:"sender_id"`
	RecipientID     string  `json:"recipient_id"`
	Status          string  `json:"status"`
	Date            string  `json:"date"`
	Duration        string  `json:"duration"`
	Remarks         string  `json:"remarks"`
	OvertimeEntryID *string `json:"overtime_entry_id,omitempty"`
}

func NewResponse(o Overtime) Response {
	return Response{
		ID:              o.ID,
		SenderID:        o.Sender,
		RecipientID:     o.Recipient,
		Status:          string(o.Status),
		Date:            o.Date.Format("2006-01-02"),
		Duration:        o.Duration.String(),
		Remarks:         o.RequestRemarks,
		OvertimeEntryID: o.OvertimeEntryID,
	}
}
