package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// Timestamps are written in UTC so comparisons behave the same on every
// driver.

var activeStatuses = []string{
	string(domain.StatusRequested),
	string(domain.StatusScheduled),
}

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Professional
// --------------------------------------------------

func (r *AppointmentGormRepository) GetApprovedProfessional(
	ctx context.Context,
	professionalID uint,
) (*models.Professional, error) {

	var p models.Professional
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ? AND approved = ?", professionalID, true).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("professional_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AppointmentGormRepository) GetProfessionalByUser(
	ctx context.Context,
	userID uint,
) (*models.Professional, error) {

	var p models.Professional
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("profile_not_linked")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ap.ScheduledAt = ap.ScheduledAt.UTC()
	return r.db.WithContext(ctx).Omit("User", "Professional").Create(ap).Error
}

func (r *AppointmentGormRepository) FindByIdempotencyKey(
	ctx context.Context,
	userID uint,
	key string,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// CreateWithoutConflict inserts ap unless the one-hour session overlaps an
// open appointment of the same professional. The professional row is locked
// for the whole check-and-insert so concurrent bookings serialize.
func (r *AppointmentGormRepository) CreateWithoutConflict(
	ctx context.Context,
	ap *models.Appointment,
) error {

	start := ap.ScheduledAt.UTC()
	end := start.Add(domain.SessionDuration)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var prof models.Professional
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", ap.ProfessionalID).
			First(&prof).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("professional_not_found")
			}
			return err
		}

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Where(
				"professional_id = ? AND status IN ? AND scheduled_at < ? AND scheduled_at > ?",
				ap.ProfessionalID,
				activeStatuses,
				end,
				start.Add(-domain.SessionDuration),
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		ap.ScheduledAt = start
		return tx.Omit("User", "Professional").Create(ap).Error
	})
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Professional").
		Preload("Professional.User").
		Where("id = ?", appointmentID).
		First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CompareAndSwapStatus(
	ctx context.Context,
	t domain.Transition,
) error {

	at := t.At.UTC()
	updates := map[string]any{
		"status":     string(t.To),
		"updated_at": at,
	}
	switch t.To {
	case domain.StatusCanceled:
		updates["canceled_at"] = at
		updates["canceled_by"] = string(t.By)
	case domain.StatusCompleted:
		updates["completed_at"] = at
	}

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", t.AppointmentID, string(t.From)).
		UpdateColumns(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var current models.Appointment
	err := r.db.WithContext(ctx).
		Select("id", "status").
		Where("id = ?", t.AppointmentID).
		First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return err
	}

	return httperr.ErrBusinessDetail("status_conflict", current.Status)
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForProfessional(
	ctx context.Context,
	professionalID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("professional_id = ?", professionalID).
		Order("scheduled_at ASC").
		Find(&apps).Error
	return apps, err
}

func (r *AppointmentGormRepository) ListForClient(
	ctx context.Context,
	userID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Professional").
		Preload("Professional.User").
		Where("user_id = ?", userID).
		Order("scheduled_at ASC").
		Find(&apps).Error
	return apps, err
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	professionalID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *AppointmentGormRepository) HasWorkingHours(
	ctx context.Context,
	professionalID uint,
) (bool, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WorkingHours{}).
		Where("professional_id = ?", professionalID).
		Count(&count).Error
	return count > 0, err
}

// ListActiveForPeriod returns open appointments overlapping [start, end),
// ordered by start.
func (r *AppointmentGormRepository) ListActiveForPeriod(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Select("id", "scheduled_at", "status").
		Where(
			"professional_id = ? AND status IN ? AND scheduled_at > ? AND scheduled_at < ?",
			professionalID,
			activeStatuses,
			start.Add(-domain.SessionDuration).UTC(),
			end.UTC(),
		).
		Order("scheduled_at ASC").
		Find(&apps).Error
	return apps, err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
