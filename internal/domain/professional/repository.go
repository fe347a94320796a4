package professional

import (
	"context"
	"time"

	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Specialty    *string
	City         *string
	PricePerHour *float64
	RadiusKM     *int
	Bio          *string
}

type SearchFilter struct {
	City      string
	Specialty string
}

type Repository interface {
	GetByID(ctx context.Context, id uint) (*models.Professional, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Professional, error)

	UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*models.Professional, error)
	AddDocuments(ctx context.Context, id uint, docs []models.Document) (*models.Professional, error)
	Approve(ctx context.Context, id uint, at time.Time) (*models.Professional, error)

	// SearchApproved never returns unapproved professionals.
	SearchApproved(ctx context.Context, f SearchFilter) ([]models.Professional, error)
	GetApproved(ctx context.Context, id uint) (*models.Professional, error)
	ListPending(ctx context.Context) ([]models.Professional, error)

	ListWorkingHours(ctx context.Context, id uint) ([]models.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, id uint, hours []models.WorkingHours) error
}
