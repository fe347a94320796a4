package payment

import (
	"context"
	"math"
)

// Gateway statuses we act on. Anything else is stored as reported.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

type PreferenceRequest struct {
	AppointmentID  string
	Description    string
	Amount         float64
	MarketplaceFee float64

	SuccessURL      string
	FailureURL      string
	PendingURL      string
	NotificationURL string
}

type Preference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

type PaymentInfo struct {
	ID                string
	Status            string
	ExternalReference string
	Amount            float64
}

func (p *PaymentInfo) Approved() bool {
	return p.Status == StatusApproved
}

type Gateway interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
}

// Commission is the platform share of amount, rounded to cents.
func Commission(amount, rate float64) float64 {
	return math.Round(amount*rate*100) / 100
}
