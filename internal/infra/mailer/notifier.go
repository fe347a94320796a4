package mailer

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type AppointmentLookup interface {
	GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)
}

// Notifier e-mails the other party when an appointment changes: the
// professional on a new request, the client when it is scheduled or
// canceled.
type Notifier struct {
	sender       sender
	from         string
	appointments AppointmentLookup
	loc          *time.Location
}

func NewNotifier(host string, port int, user, pass, from string, appointments AppointmentLookup, loc *time.Location) *Notifier {
	if from == "" {
		from = user
	}
	return &Notifier{
		sender:       gomail.NewDialer(host, port, user, pass),
		from:         from,
		appointments: appointments,
		loc:          loc,
	}
}

func (n *Notifier) Name() string { return "mailer" }

func (n *Notifier) Handle(ctx context.Context, ev audit.Event) error {
	switch ev.Action {
	case "appointment_created", "appointment_scheduled", "appointment_canceled":
	default:
		return nil
	}

	ap, err := n.appointments.GetAppointment(ctx, ev.EntityID)
	if err != nil {
		return err
	}

	m := n.compose(ev.Action, ap)
	if m == nil {
		return nil
	}
	return n.sender.DialAndSend(m)
}

func (n *Notifier) compose(action string, ap *models.Appointment) *gomail.Message {
	when := ap.ScheduledAt.In(n.loc).Format("02/01/2006 15:04")

	var to, subject, body string
	switch action {
	case "appointment_created":
		if ap.Professional == nil || ap.Professional.User == nil {
			return nil
		}
		to = ap.Professional.User.Email
		subject = "Nova solicitação de atendimento"
		client := "Um cliente"
		if ap.User != nil {
			client = ap.User.Name
		}
		body = fmt.Sprintf("%s solicitou um atendimento para %s.", client, when)

	case "appointment_scheduled":
		if ap.User == nil {
			return nil
		}
		to = ap.User.Email
		subject = "Atendimento confirmado"
		body = fmt.Sprintf("Seu atendimento de %s está confirmado.", when)

	case "appointment_canceled":
		if ap.User == nil {
			return nil
		}
		to = ap.User.Email
		subject = "Atendimento cancelado"
		body = fmt.Sprintf("O atendimento de %s foi cancelado.", when)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}
