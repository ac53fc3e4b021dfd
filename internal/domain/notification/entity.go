package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeSalaryRecalculated NotificationType = "salary_recalculated"
	TypeSalaryPaid         NotificationType = "salary_paid"
	TypeAdvanceApproved    NotificationType = "advance_approved"
	TypeBonusApproved      NotificationType = "bonus_approved"
	TypeDeductionApproved  NotificationType = "deduction_approved"
)

// AdminTopic is the stream every admin subscribes to in addition to their own.
const AdminTopic = "admins"

// Notification is pushed to the recipient's stream and to AdminTopic.
type Notification struct {
	RecipientID string                 `json:"recipient_id"`
	Type        NotificationType       `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Data        map[string]interface{} `json:"data,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}
