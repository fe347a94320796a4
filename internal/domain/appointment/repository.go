package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/seucuidado/internal/models"
)

type Repository interface {
	// -------- Professional --------
	GetApprovedProfessional(
		ctx context.Context,
		professionalID uint,
	) (*models.Professional, error)

	GetProfessionalByUser(
		ctx context.Context,
		userID uint,
	) (*models.Professional, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	FindByIdempotencyKey(
		ctx context.Context,
		userID uint,
		key string,
	) (*models.Appointment, error)

	// CreateWithoutConflict inserts ap atomically with the overlap check
	// against open appointments of the same professional (time_conflict).
	CreateWithoutConflict(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		appointmentID string,
	) (*models.Appointment, error)

	// CompareAndSwapStatus writes t only while the row still has status
	// t.From. It returns appointment_not_found or status_conflict otherwise.
	CompareAndSwapStatus(
		ctx context.Context,
		t Transition,
	) error

	// -------- Listing --------
	ListForProfessional(
		ctx context.Context,
		professionalID uint,
	) ([]models.Appointment, error)

	ListForClient(
		ctx context.Context,
		userID uint,
	) ([]models.Appointment, error)

	// -------- Availability --------
	GetWorkingHours(
		ctx context.Context,
		professionalID uint,
		weekday int,
	) (*models.WorkingHours, error)

	HasWorkingHours(
		ctx context.Context,
		professionalID uint,
	) (bool, error)

	ListActiveForPeriod(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
