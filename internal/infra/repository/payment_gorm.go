package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/seucuidado/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) Create(ctx context.Context, tx *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// UpsertByGatewayPayment records the gateway's view of a payment. The row
// keyed by the gateway payment id is updated; otherwise the pending
// preference row of the appointment is claimed; otherwise a new row is
// inserted. Applying the same notification twice leaves one row.
func (r *PaymentGormRepository) UpsertByGatewayPayment(
	ctx context.Context,
	in *models.PaymentTransaction,
) (*models.PaymentTransaction, error) {

	if in.GatewayPaymentID == nil || *in.GatewayPaymentID == "" {
		return nil, errors.New("payment: gateway payment id is required")
	}

	var out models.PaymentTransaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PaymentTransaction

		err := tx.Where("gateway_payment_id = ?", *in.GatewayPaymentID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = tx.
				Where("appointment_id = ? AND gateway_payment_id IS NULL", in.AppointmentID).
				Order("id DESC").
				First(&existing).Error
		}

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = *in
			return tx.Create(&out).Error
		case err != nil:
			return err
		}

		existing.GatewayPaymentID = in.GatewayPaymentID
		existing.Status = in.Status
		existing.RawPayload = in.RawPayload
		if in.Amount > 0 {
			existing.Amount = in.Amount
		}
		if existing.UserID == 0 {
			existing.UserID = in.UserID
		}
		out = existing
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PaymentGormRepository) ListByAppointment(ctx context.Context, appointmentID string) ([]models.PaymentTransaction, error) {
	var out []models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
