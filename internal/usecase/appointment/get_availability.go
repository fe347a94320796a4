package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
)

type GetAvailability struct {
	repo     domain.Repository
	settings Settings
}

func NewGetAvailability(repo domain.Repository, settings Settings) *GetAvailability {
	return &GetAvailability{repo: repo, settings: settings}
}

// Execute lists the free one-hour slots of an approved professional on
// date (YYYY-MM-DD, today when empty).
func (uc *GetAvailability) Execute(
	ctx context.Context,
	professionalID uint,
	date string,
) ([]domain.TimeSlot, error) {

	prof, err := uc.repo.GetApprovedProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	loc := uc.settings.loc()
	now := uc.settings.now()

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if date = strings.TrimSpace(date); date != "" {
		day, err = time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
	}

	in := domain.AvailabilityInput{ProfessionalID: prof.ID, Date: day}
	weekday := int(in.Date.Weekday())

	wh := domain.DefaultWorkingHours(weekday)
	configured, err := uc.repo.HasWorkingHours(ctx, prof.ID)
	if err != nil {
		return nil, err
	}
	if configured {
		wh, err = uc.repo.GetWorkingHours(ctx, prof.ID, weekday)
		if err != nil {
			return nil, err
		}
	}

	booked, err := uc.repo.ListActiveForPeriod(ctx, prof.ID, in.Date, in.Date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return domain.FreeSlots(wh, in.Date, booked, now.Add(uc.settings.MinAdvance)), nil
}
