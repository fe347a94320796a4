package models

import "time"

// Document describes one uploaded verification file.
type Document struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
	Size int64  `json:"size,omitempty"`
	Type string `json:"type,omitempty"`
}

// PendingSpecialty is the placeholder set at signup.
const PendingSpecialty = "A definir"

type Professional struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	Specialty    string  `gorm:"size:100" json:"specialty"`
	City         string  `gorm:"size:100;index" json:"city"`
	PricePerHour float64 `json:"price_per_hour"`
	RadiusKM     int     `gorm:"default:1" json:"radius_km"`
	Bio          string  `gorm:"type:text" json:"bio"`
	Rating       float64 `json:"rating"`

	Approved   bool       `gorm:"default:false;index" json:"approved"`
	ApprovedAt *time.Time `json:"approved_at"`

	Documents []Document `gorm:"serializer:json;type:text" json:"documents"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
