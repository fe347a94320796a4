package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// Logger persists events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Name() string { return "db" }

func (l *Logger) Handle(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		UserID:    ev.UserID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  metaJSON,
		CreatedAt: ev.At.UTC(),
	}

	return l.db.WithContext(ctx).Create(&row).Error
}
