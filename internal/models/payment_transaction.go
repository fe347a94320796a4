package models

import "time"

const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// PaymentTransaction tracks one gateway interaction for an appointment.
// Rows created at preference time have no GatewayPaymentID yet; webhook
// reconciliation fills it (or inserts a new row keyed by it).
type PaymentTransaction struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID string `gorm:"size:36;index;not null" json:"appointment_id"`
	UserID        uint   `gorm:"index" json:"user_id"`

	PreferenceID     string  `gorm:"size:100;index" json:"preference_id"`
	GatewayPaymentID *string `gorm:"size:50;uniqueIndex" json:"gateway_payment_id"`

	Amount     float64 `json:"amount"`
	Commission float64 `json:"commission"`
	Status     string  `gorm:"size:30;default:'pending'" json:"status"`
	RawPayload string  `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
