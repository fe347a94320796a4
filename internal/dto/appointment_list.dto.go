package dto

import (
	"time"

	domain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// AppointmentListDTO is the row shown on both dashboards.
type AppointmentListDTO struct {
	ID          string    `json:"id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	EndsAt      time.Time `json:"ends_at"`
	Status      string    `json:"status"`
	Price       float64   `json:"price"`
	Notes       string    `json:"notes,omitempty"`

	ClientID         uint   `json:"client_id"`
	ClientName       string `json:"client_name,omitempty"`
	ClientPhone      string `json:"client_phone,omitempty"`
	ProfessionalID   uint   `json:"professional_id"`
	ProfessionalName string `json:"professional_name,omitempty"`
	Specialty        string `json:"specialty,omitempty"`

	CanceledBy  string     `json:"canceled_by,omitempty"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func FromAppointment(ap *models.Appointment, loc *time.Location) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:             ap.ID,
		ScheduledAt:    ap.ScheduledAt.In(loc),
		EndsAt:         domain.EndOf(ap).In(loc),
		Status:         ap.Status,
		Price:          ap.Price,
		Notes:          ap.Notes,
		ClientID:       ap.UserID,
		ProfessionalID: ap.ProfessionalID,
		CanceledBy:     ap.CanceledBy,
		CanceledAt:     ap.CanceledAt,
		CompletedAt:    ap.CompletedAt,
	}

	if ap.User != nil {
		out.ClientName = ap.User.Name
		out.ClientPhone = ap.User.Phone
	}
	if ap.Professional != nil {
		out.Specialty = ap.Professional.Specialty
		if ap.Professional.User != nil {
			out.ProfessionalName = ap.Professional.User.Name
		}
	}
	return out
}

func FromAppointments(aps []models.Appointment, loc *time.Location) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for i := range aps {
		out = append(out, FromAppointment(&aps[i], loc))
	}
	return out
}
