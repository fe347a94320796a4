package payment

import (
	"context"
	"fmt"
	"log"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
	appointmentdomain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	domain "github.com/BruksfildServices01/seucuidado/internal/domain/payment"
	"github.com/BruksfildServices01/seucuidado/internal/flash"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	appointmentuc "github.com/BruksfildServices01/seucuidado/internal/usecase/appointment"
)

type Transactions interface {
	Create(ctx context.Context, tx *models.PaymentTransaction) error
	UpsertByGatewayPayment(ctx context.Context, tx *models.PaymentTransaction) (*models.PaymentTransaction, error)
}

// URLs the gateway redirects to or notifies.
type URLs struct {
	BaseURL     string
	FrontendURL string
}

func (u URLs) success(appointmentID string) string {
	return u.BaseURL + "/api/payment/success?appointment_id=" + appointmentID
}

func (u URLs) Dashboard(query string) string {
	return u.FrontendURL + "/dashboard?" + query
}

// Service holds the payment handoff. A nil gateway means payments are not
// configured.
type Service struct {
	gateway      domain.Gateway
	appointments appointmentdomain.Repository
	transactions Transactions
	transition   *appointmentuc.TransitionAppointment
	flash        flash.Store
	audit        *audit.Dispatcher

	urls    URLs
	feeRate float64
}

func NewService(
	gateway domain.Gateway,
	appointments appointmentdomain.Repository,
	transactions Transactions,
	transition *appointmentuc.TransitionAppointment,
	flashes flash.Store,
	audit *audit.Dispatcher,
	urls URLs,
	feeRate float64,
) *Service {
	return &Service{
		gateway:      gateway,
		appointments: appointments,
		transactions: transactions,
		transition:   transition,
		flash:        flashes,
		audit:        audit,
		urls:         urls,
		feeRate:      feeRate,
	}
}

// ======================================================
// Preference
// ======================================================

type InitiateInput struct {
	UserID        uint
	AppointmentID string
	Amount        float64
	Description   string
}

type InitiateResult struct {
	PreferenceID     string  `json:"id"`
	InitPoint        string  `json:"init_point"`
	SandboxInitPoint string  `json:"sandbox_init_point,omitempty"`
	Commission       float64 `json:"commission"`
}

func (s *Service) Initiate(ctx context.Context, in InitiateInput) (*InitiateResult, error) {
	if s.gateway == nil {
		return nil, httperr.ErrBusiness("payments_disabled")
	}
	if in.Amount < 0 {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	ap, err := s.appointments.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if ap.UserID != in.UserID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if appointmentdomain.Status(ap.Status) != appointmentdomain.StatusRequested {
		return nil, httperr.ErrBusinessDetail("not_payable", ap.Status)
	}

	amount := in.Amount
	if amount == 0 {
		amount = ap.Price
	}
	if amount <= 0 {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	description := in.Description
	if description == "" {
		description = "Atendimento SeuCuidado"
	}

	fee := domain.Commission(amount, s.feeRate)

	pref, err := s.gateway.CreatePreference(ctx, domain.PreferenceRequest{
		AppointmentID:   ap.ID,
		Description:     description,
		Amount:          amount,
		MarketplaceFee:  fee,
		SuccessURL:      s.urls.success(ap.ID),
		FailureURL:      s.urls.FrontendURL + "/payment/failure",
		PendingURL:      s.urls.FrontendURL + "/payment/pending",
		NotificationURL: s.urls.BaseURL + "/api/payments/webhook",
	})
	if err != nil {
		log.Printf("payment preference for %s: %v", ap.ID, err)
		return nil, httperr.ErrBusinessDetail("payment_gateway_error", err.Error())
	}

	if err := s.transactions.Create(ctx, &models.PaymentTransaction{
		AppointmentID: ap.ID,
		UserID:        in.UserID,
		PreferenceID:  pref.ID,
		Amount:        amount,
		Commission:    fee,
		Status:        models.PaymentStatusPending,
	}); err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "payment_initiated",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{"preference_id": pref.ID, "amount": amount, "commission": fee},
	})

	return &InitiateResult{
		PreferenceID:     pref.ID,
		InitPoint:        pref.InitPoint,
		SandboxInitPoint: pref.SandboxInitPoint,
		Commission:       fee,
	}, nil
}

// ======================================================
// Return from checkout
// ======================================================

// ConfirmReturn handles the browser coming back from an approved checkout.
// When the gateway appended a payment id it must be approved and refer to
// the same appointment.
func (s *Service) ConfirmReturn(ctx context.Context, appointmentID, paymentID string) (*models.Appointment, error) {
	if appointmentID == "" {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	ap, err := s.appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if paymentID != "" && s.gateway != nil {
		info, err := s.gateway.GetPayment(ctx, paymentID)
		if err != nil {
			return nil, httperr.ErrBusinessDetail("payment_gateway_error", err.Error())
		}
		if !info.Approved() || info.ExternalReference != ap.ID {
			return nil, httperr.ErrBusiness("payment_not_approved")
		}
		if _, err := s.record(ctx, ap, info, ""); err != nil {
			return nil, err
		}
	}

	if err := s.schedule(ctx, ap); err != nil {
		return nil, err
	}

	if err := s.flash.Set(ctx, flash.PaymentSuccessKey(ap.UserID), flash.DefaultTTL); err != nil {
		log.Printf("payment banner flash for user %d: %v", ap.UserID, err)
	}

	return ap, nil
}

// ======================================================
// Webhook
// ======================================================

type Notification struct {
	Type      string
	PaymentID string
	Raw       string
}

// Webhook outcomes.
const (
	WebhookIgnored   = "ignored"
	WebhookRecorded  = "recorded"
	WebhookScheduled = "scheduled"
)

// Reconcile applies a gateway notification. Errors are only returned when
// the gateway should redeliver.
func (s *Service) Reconcile(ctx context.Context, n Notification) (string, error) {
	log.Printf("payment webhook: type=%s id=%s payload=%s", n.Type, n.PaymentID, n.Raw)

	if n.Type != "payment" || n.PaymentID == "" {
		return WebhookIgnored, nil
	}
	if s.gateway == nil {
		log.Println("payment webhook received with payments disabled")
		return WebhookIgnored, nil
	}

	info, err := s.gateway.GetPayment(ctx, n.PaymentID)
	if err != nil {
		return "", fmt.Errorf("lookup payment %s: %w", n.PaymentID, err)
	}
	if info.ExternalReference == "" {
		log.Printf("payment %s has no external reference", info.ID)
		return WebhookIgnored, nil
	}

	ap, err := s.appointments.GetAppointment(ctx, info.ExternalReference)
	if httperr.IsBusiness(err, "appointment_not_found") {
		log.Printf("payment %s refers to unknown appointment %s", info.ID, info.ExternalReference)
		return WebhookIgnored, nil
	}
	if err != nil {
		return "", err
	}

	if _, err := s.record(ctx, ap, info, n.Raw); err != nil {
		return "", err
	}

	if !info.Approved() {
		return WebhookRecorded, nil
	}

	switch appointmentdomain.Status(ap.Status) {
	case appointmentdomain.StatusRequested:
		if err := s.schedule(ctx, ap); err != nil {
			if httperr.IsBusiness(err, "status_conflict") || httperr.IsBusiness(err, "invalid_transition") {
				log.Printf("payment %s: appointment %s changed concurrently: %v", info.ID, ap.ID, err)
				return WebhookRecorded, nil
			}
			return "", err
		}
		return WebhookScheduled, nil
	case appointmentdomain.StatusScheduled:
		return WebhookRecorded, nil
	default:
		log.Printf("payment %s approved for %s appointment %s, left as is", info.ID, ap.Status, ap.ID)
		return WebhookRecorded, nil
	}
}

// ======================================================
// helpers
// ======================================================

func (s *Service) record(ctx context.Context, ap *models.Appointment, info *domain.PaymentInfo, raw string) (*models.PaymentTransaction, error) {
	pid := info.ID
	status := info.Status
	if status == "" {
		status = models.PaymentStatusPending
	}

	tx, err := s.transactions.UpsertByGatewayPayment(ctx, &models.PaymentTransaction{
		AppointmentID:    ap.ID,
		UserID:           ap.UserID,
		GatewayPaymentID: &pid,
		Amount:           info.Amount,
		Commission:       domain.Commission(info.Amount, s.feeRate),
		Status:           status,
		RawPayload:       raw,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		UserID:   &ap.UserID,
		Action:   "payment_" + status,
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{"payment_id": pid, "amount": info.Amount},
	})

	return tx, nil
}

// schedule moves a requested appointment to scheduled on behalf of the
// gateway. An appointment already scheduled is left untouched.
func (s *Service) schedule(ctx context.Context, ap *models.Appointment) error {
	if appointmentdomain.Status(ap.Status) == appointmentdomain.StatusScheduled {
		return nil
	}

	updated, err := s.transition.Execute(ctx, appointmentuc.TransitionInput{
		AppointmentID: ap.ID,
		To:            appointmentdomain.StatusScheduled,
		Actor:         appointmentdomain.ActorPayment,
	})
	if be, ok := httperr.AsBusiness(err); ok && be.Code == "status_conflict" && be.Detail == string(appointmentdomain.StatusScheduled) {
		ap.Status = be.Detail
		return nil
	}
	if err != nil {
		return err
	}

	*ap = *updated
	return nil
}
