package appointment

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
	domain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID       uint
	ProfessionalID uint

	Date  string
	Slot  string
	Notes string

	IdempotencyKey string
}

type CreateAppointmentResult struct {
	Appointment *models.Appointment
	// Replayed is set when the idempotency key matched an earlier request.
	Replayed bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	settings Settings
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	settings Settings,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		audit:    audit,
		settings: settings,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*CreateAppointmentResult, error) {

	// --------------------------------------------------
	// 1️⃣ Repetição da mesma requisição
	// --------------------------------------------------
	if in.IdempotencyKey != "" {
		prev, err := uc.repo.FindByIdempotencyKey(ctx, in.ClientID, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			return &CreateAppointmentResult{Appointment: prev, Replayed: true}, nil
		}
	}

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone configurado
	// --------------------------------------------------
	start, err := domain.ResolveSlot(
		in.Date,
		in.Slot,
		uc.settings.now(),
		uc.settings.loc(),
		uc.settings.MinAdvance,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Profissional aprovado
	// --------------------------------------------------
	prof, err := uc.repo.GetApprovedProfessional(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Expediente (quando configurado)
	// --------------------------------------------------
	if err := uc.checkWorkingHours(ctx, prof.ID, start); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Criação sem conflito de horário (preço congelado)
	// --------------------------------------------------
	ap := &models.Appointment{
		ID:             uuid.NewString(),
		UserID:         in.ClientID,
		ProfessionalID: prof.ID,
		ScheduledAt:    start,
		Status:         string(domain.InitialStatus()),
		Price:          prof.PricePerHour,
		Notes:          in.Notes,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		ap.IdempotencyKey = &key
	}

	if err := uc.repo.CreateWithoutConflict(ctx, ap); err != nil {
		// concurrent retry with the same key won the insert
		if ap.IdempotencyKey != nil {
			if prev, ferr := uc.repo.FindByIdempotencyKey(ctx, in.ClientID, in.IdempotencyKey); ferr == nil && prev != nil {
				return &CreateAppointmentResult{Appointment: prev, Replayed: true}, nil
			}
		}
		if _, ok := httperr.AsBusiness(err); !ok {
			log.Printf("create appointment: %v", err)
		}
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ClientID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"professional_id": prof.ID,
			"scheduled_at":    ap.ScheduledAt,
			"price":           ap.Price,
			"status":          ap.Status,
		},
	})

	return &CreateAppointmentResult{Appointment: ap}, nil
}

func (uc *CreateAppointment) checkWorkingHours(ctx context.Context, professionalID uint, start time.Time) error {
	configured, err := uc.repo.HasWorkingHours(ctx, professionalID)
	if err != nil || !configured {
		return err
	}

	wh, err := uc.repo.GetWorkingHours(ctx, professionalID, int(start.Weekday()))
	if err != nil {
		return err
	}
	if !domain.IsWithinWorkingHours(wh, start, start.Add(domain.SessionDuration)) {
		return httperr.ErrBusiness("outside_working_hours")
	}
	return nil
}
