package overtime

import "time"

// ClaimActionRequest drives a workflow transition on a claim.
type ClaimActionRequest struct {
	Action string `json:"action"` // request|forward|approve|deny|confirm|cancel
	Remark string `json:"remark"`
}

// EditDetailRequest updates the earned values of an unclaimed or
// declined entry, bounded by the system generated values.
type EditDetailRequest struct {
	PunchInOvertime  time.Duration `json:"punch_in_overtime"`
	PunchOutOvertime time.Duration `json:"punch_out_overtime"`
	Remarks          string        `json:"remarks"`
}

// ClaimResponse is the read shape of a claim with its quantities.
type ClaimResponse struct {
	ID                 string `json:"id"`
	SenderID           string `json:"sender_id"`
	RecipientID        string `json:"recipient_id"`
	Status             string `json:"status"`
	Date               string `json:"date"`
	PunchInOvertime    string `json:"punch_in_overtime"`
	PunchOutOvertime   string `json:"punch_out_overtime"`
	ClaimedOvertime    string `json:"claimed_overtime"`
	NormalizedOvertime string `json:"normalized_overtime"`
	IsArchived         bool   `json:"is_archived"`
}

// NormalizationStep is one rung of the rate walk, kept for auditing.
type NormalizationStep struct {
	Seconds           int64  `json:"seconds"`
	TierThresholdSecs int64  `json:"tier_threshold_seconds"`
	NormalizedSeconds int64  `json:"normalized_seconds"`
	Rate              string `json:"rate"`
}
