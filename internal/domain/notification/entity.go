package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLateIn             NotificationType = "late_in"
	TypeClaimRequested     NotificationType = "claim_requested"
	TypeClaimForwarded     NotificationType = "claim_forwarded"
	TypeClaimApproved      NotificationType = "claim_approved"
	TypeClaimDeclined      NotificationType = "claim_declined"
	TypeClaimConfirmed     NotificationType = "claim_confirmed"
	TypeClaimExpired       NotificationType = "claim_expired"
	TypeClaimRecalibrated  NotificationType = "claim_recalibrated"
	TypeOvertimeGenerated  NotificationType = "overtime_generated"
	TypeCreditGranted      NotificationType = "credit_granted"
	TypeTravelMaterialized NotificationType = "travel_materialized"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeLateIn,
		TypeClaimRequested,
		TypeClaimForwarded,
		TypeClaimApproved,
		TypeClaimDeclined,
		TypeClaimConfirmed,
		TypeClaimExpired,
		TypeClaimRecalibrated,
		TypeOvertimeGenerated,
		TypeCreditGranted,
		TypeTravelMaterialized,
	}
}

// Notification represents a notification entity
type Notification struct {
	ID             string
	OrganizationID string
	RecipientID    string
	SenderID       *string
	Type           NotificationType
	Title          string
	Message        string
	Data           map[string]interface{}
	IsRead         bool
	ReadAt         *time.Time
	CreatedAt      time.Time
}

// NotificationPreference represents user preference for a notification type
type NotificationPreference struct {
	ID               string
	UserID           string
	NotificationType NotificationType
	EmailEnabled     bool
	PushEnabled      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
