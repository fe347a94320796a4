package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/seucuidado/internal/domain/professional"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

type ProfessionalGormRepository struct {
	db *gorm.DB
}

func NewProfessionalGormRepository(db *gorm.DB) *ProfessionalGormRepository {
	return &ProfessionalGormRepository{db: db}
}

func (r *ProfessionalGormRepository) first(ctx context.Context, notFound string, query string, args ...any) (*models.Professional, error) {
	var p models.Professional
	err := r.db.WithContext(ctx).
		Preload("User").
		Where(query, args...).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness(notFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfessionalGormRepository) GetByID(ctx context.Context, id uint) (*models.Professional, error) {
	return r.first(ctx, "professional_not_found", "id = ?", id)
}

func (r *ProfessionalGormRepository) GetByUserID(ctx context.Context, userID uint) (*models.Professional, error) {
	return r.first(ctx, "profile_not_linked", "user_id = ?", userID)
}

func (r *ProfessionalGormRepository) GetApproved(ctx context.Context, id uint) (*models.Professional, error) {
	return r.first(ctx, "professional_not_found", "id = ? AND approved = ?", id, true)
}

// --------------------------------------------------
// Profile
// --------------------------------------------------

func (r *ProfessionalGormRepository) UpdateProfile(
	ctx context.Context,
	id uint,
	in domain.ProfileUpdate,
) (*models.Professional, error) {

	updates := map[string]any{}
	if in.Specialty != nil {
		updates["specialty"] = strings.TrimSpace(*in.Specialty)
	}
	if in.City != nil {
		updates["city"] = strings.TrimSpace(*in.City)
	}
	if in.PricePerHour != nil {
		updates["price_per_hour"] = *in.PricePerHour
	}
	if in.RadiusKM != nil {
		updates["radius_km"] = *in.RadiusKM
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		res := r.db.WithContext(ctx).
			Model(&models.Professional{}).
			Where("id = ?", id).
			UpdateColumns(updates)
		if res.Error != nil {
			return nil, res.Error
		}
	}

	return r.GetByID(ctx, id)
}

func (r *ProfessionalGormRepository) AddDocuments(
	ctx context.Context,
	id uint,
	docs []models.Document,
) (*models.Professional, error) {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Professional
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("professional_not_found")
			}
			return err
		}

		p.Documents = append(p.Documents, docs...)
		return tx.Model(&p).Select("documents", "updated_at").Updates(&p).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *ProfessionalGormRepository) Approve(
	ctx context.Context,
	id uint,
	at time.Time,
) (*models.Professional, error) {

	at = at.UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Professional{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"approved":    true,
			"approved_at": at,
			"updated_at":  at,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	return r.GetByID(ctx, id)
}

// --------------------------------------------------
// Discovery
// --------------------------------------------------

func (r *ProfessionalGormRepository) SearchApproved(
	ctx context.Context,
	f domain.SearchFilter,
) ([]models.Professional, error) {

	q := r.db.WithContext(ctx).
		Preload("User").
		Where("approved = ?", true)

	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}
	if specialty := strings.TrimSpace(f.Specialty); specialty != "" {
		q = q.Where("LOWER(specialty) LIKE ?", "%"+strings.ToLower(specialty)+"%")
	}

	var out []models.Professional
	err := q.Order("rating DESC").Order("id ASC").Find(&out).Error
	return out, err
}

func (r *ProfessionalGormRepository) ListPending(ctx context.Context) ([]models.Professional, error) {
	var out []models.Professional
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("approved = ?", false).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *ProfessionalGormRepository) ListWorkingHours(ctx context.Context, id uint) ([]models.WorkingHours, error) {
	var hours []models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("professional_id = ?", id).
		Order("weekday ASC").
		Find(&hours).Error
	return hours, err
}

func (r *ProfessionalGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	id uint,
	hours []models.WorkingHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("professional_id = ?", id).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		for i := range hours {
			hours[i].ID = 0
			hours[i].ProfessionalID = id
			if err := tx.Create(&hours[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

var _ domain.Repository = (*ProfessionalGormRepository)(nil)
