package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Persisted appointment statuses. The domain package owns the transitions;
// this list only guards what may reach the table.
var appointmentStatuses = map[string]bool{
	"requested": true,
	"scheduled": true,
	"completed": true,
	"canceled":  true,
}

type Appointment struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	UserID uint  `gorm:"not null;index;uniqueIndex:ux_appointment_user_idem,priority:1" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"user,omitempty"`

	ProfessionalID uint          `gorm:"index;not null" json:"professional_id"`
	Professional   *Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"professional,omitempty"`

	ScheduledAt time.Time `gorm:"index;not null" json:"scheduled_at"`
	Status      string    `gorm:"size:20;default:'requested';index" json:"status"`

	// Price is the professional's hourly rate when the request was made.
	Price float64 `gorm:"not null" json:"price"`
	Notes string  `gorm:"size:500" json:"notes"`

	IdempotencyKey *string `gorm:"size:100;uniqueIndex:ux_appointment_user_idem,priority:2" json:"-"`

	CanceledAt  *time.Time `json:"canceled_at"`
	CanceledBy  string     `gorm:"size:20" json:"canceled_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsAppointmentStatus(s string) bool {
	return appointmentStatuses[s]
}

// BeforeCreate rejects rows whose status is outside the enumeration.
// Status updates go through UpdateColumns and are checked by the repository.
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if !IsAppointmentStatus(a.Status) {
		return fmt.Errorf("appointment: invalid status %q", a.Status)
	}
	return nil
}
