package models

import "time"

const (
	RoleClient       = "client"
	RoleProfessional = "professional"
	RoleAdmin        = "admin"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'client'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleClient, RoleProfessional, RoleAdmin:
		return true
	}
	return false
}
