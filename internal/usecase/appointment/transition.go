package appointment

import (
	"context"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
	domain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	"github.com/BruksfildServices01/seucuidado/internal/monitoring"
)

type TransitionInput struct {
	AppointmentID string
	To            domain.Status
	Actor         domain.Actor

	// From, when set, pins the status the caller expects (reject only
	// applies to requests, cancel to scheduled sessions).
	From domain.Status

	// UserID is the signed-in caller. Unused for ActorPayment.
	UserID uint
}

// TransitionAppointment is the single write path for status changes:
// accept, reject, complete, cancel and payment confirmation all go through
// it. Concurrent writers race on a compare-and-swap and the first one wins.
type TransitionAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	settings Settings
}

func NewTransitionAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	settings Settings,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:     repo,
		audit:    audit,
		settings: settings,
	}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorize(ctx, ap, in); err != nil {
		return nil, err
	}

	if in.From != "" && domain.Status(ap.Status) != in.From {
		return nil, httperr.ErrBusinessDetail("invalid_transition", ap.Status+" -> "+string(in.To))
	}

	t, err := domain.Plan(ap, in.To, in.Actor, uc.settings.now())
	if err != nil {
		monitoring.AppointmentTransitions.WithLabelValues(ap.Status, string(in.To), "rejected").Inc()
		return nil, err
	}

	if err := uc.repo.CompareAndSwapStatus(ctx, t); err != nil {
		if be, ok := httperr.AsBusiness(err); ok && be.Code == "status_conflict" {
			monitoring.AppointmentTransitions.WithLabelValues(string(t.From), string(t.To), "conflict").Inc()
			uc.audit.Dispatch(audit.Event{
				UserID:   actorUser(in),
				Action:   "appointment_transition_conflict",
				Entity:   "appointment",
				EntityID: ap.ID,
				Metadata: map[string]any{
					"from":    t.From,
					"to":      t.To,
					"actor":   t.By,
					"current": be.Detail,
				},
			})
		}
		return nil, err
	}

	domain.Apply(ap, t)
	monitoring.AppointmentTransitions.WithLabelValues(string(t.From), string(t.To), "ok").Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   actorUser(in),
		Action:   "appointment_" + string(t.To),
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"from":  t.From,
			"to":    t.To,
			"actor": t.By,
		},
	})

	return ap, nil
}

// authorize scopes the appointment to the caller. Appointments of someone
// else are reported as not found.
func (uc *TransitionAppointment) authorize(ctx context.Context, ap *models.Appointment, in TransitionInput) error {
	switch in.Actor {
	case domain.ActorPayment:
		return nil

	case domain.ActorClient:
		if ap.UserID != in.UserID {
			return httperr.ErrBusiness("appointment_not_found")
		}
		return nil

	case domain.ActorProfessional:
		prof, err := uc.repo.GetProfessionalByUser(ctx, in.UserID)
		if err != nil {
			return err
		}
		if ap.ProfessionalID != prof.ID {
			return httperr.ErrBusiness("appointment_not_found")
		}
		return nil
	}

	return httperr.ErrBusiness("forbidden_transition")
}

func actorUser(in TransitionInput) *uint {
	if in.Actor == domain.ActorPayment || in.UserID == 0 {
		return nil
	}
	id := in.UserID
	return &id
}
