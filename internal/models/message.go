package models

import "time"

// Message is append-only; ChatID is the appointment id of the conversation.
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ChatID   string `gorm:"size:36;index:idx_messages_chat_created,priority:1;not null" json:"chat_id"`
	SenderID uint   `gorm:"not null" json:"sender_id"`
	Content  string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"index:idx_messages_chat_created,priority:2" json:"created_at"`
}
