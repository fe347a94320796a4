package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/seucuidado/internal/models"
)

type MessageGormRepository struct {
	db *gorm.DB
}

func NewMessageGormRepository(db *gorm.DB) *MessageGormRepository {
	return &MessageGormRepository{db: db}
}

func (r *MessageGormRepository) Create(ctx context.Context, m *models.Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return r.db.WithContext(ctx).Create(m).Error
}

// ListAfter returns the chat history oldest first. A zero after returns
// everything.
func (r *MessageGormRepository) ListAfter(
	ctx context.Context,
	chatID string,
	after time.Time,
	limit int,
) ([]models.Message, error) {

	q := r.db.WithContext(ctx).Where("chat_id = ?", chatID)
	if !after.IsZero() {
		q = q.Where("created_at > ?", after.UTC())
	}
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	var msgs []models.Message
	err := q.Order("created_at ASC").Order("id ASC").Limit(limit).Find(&msgs).Error
	return msgs, err
}
