package appointment

import (
	"time"

	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// Day used when a professional never configured working hours.
const (
	DefaultDayStart = "08:00"
	DefaultDayEnd   = "18:00"
)

func clockOn(day time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), true
}

// IsWithinWorkingHours valida se um horário está dentro do expediente
// incluindo pausa de almoço (regra de domínio)
func IsWithinWorkingHours(wh *models.WorkingHours, start, end time.Time) bool {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}

	workStart, ok1 := clockOn(start, wh.StartTime)
	workEnd, ok2 := clockOn(start, wh.EndTime)
	if !ok1 || !ok2 {
		return false
	}

	if start.Before(workStart) || end.After(workEnd) {
		return false
	}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		lunchStart, ok1 := clockOn(start, wh.LunchStart)
		lunchEnd, ok2 := clockOn(start, wh.LunchEnd)
		if ok1 && ok2 && start.Before(lunchEnd) && end.After(lunchStart) {
			return false
		}
	}

	return true
}

func DefaultWorkingHours(weekday int) *models.WorkingHours {
	return &models.WorkingHours{
		Weekday:   weekday,
		StartTime: DefaultDayStart,
		EndTime:   DefaultDayEnd,
		Active:    true,
	}
}

// ValidateWorkingHours checks a weekly schedule before it replaces the
// stored one. Inactive days only need a valid weekday.
func ValidateWorkingHours(days []models.WorkingHours) error {
	seen := map[int]bool{}
	ref := time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC)

	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 || seen[d.Weekday] {
			return httperr.ErrBusinessDetail("invalid_working_hours", "weekday")
		}
		seen[d.Weekday] = true

		if !d.Active {
			continue
		}

		start, ok1 := clockOn(ref, d.StartTime)
		end, ok2 := clockOn(ref, d.EndTime)
		if !ok1 || !ok2 || !start.Before(end) {
			return httperr.ErrBusinessDetail("invalid_working_hours", "start_end")
		}

		if d.LunchStart == "" && d.LunchEnd == "" {
			continue
		}
		ls, ok1 := clockOn(ref, d.LunchStart)
		le, ok2 := clockOn(ref, d.LunchEnd)
		if !ok1 || !ok2 || !ls.Before(le) || ls.Before(start) || le.After(end) {
			return httperr.ErrBusinessDetail("invalid_working_hours", "lunch")
		}
	}
	return nil
}
