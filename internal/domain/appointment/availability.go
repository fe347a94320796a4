package appointment

import (
	"time"

	"github.com/BruksfildServices01/seucuidado/internal/models"
)

type AvailabilityInput struct {
	ProfessionalID uint
	Date           time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeSlots walks the working day in session steps and drops slots that
// touch lunch, overlap a booked session or start before notBefore.
// booked must be ordered by ScheduledAt.
func FreeSlots(wh *models.WorkingHours, day time.Time, booked []models.Appointment, notBefore time.Time) []TimeSlot {
	slots := []TimeSlot{}
	if wh == nil || !wh.Active {
		return slots
	}

	dayStart, ok1 := clockOn(day, wh.StartTime)
	dayEnd, ok2 := clockOn(day, wh.EndTime)
	if !ok1 || !ok2 {
		return slots
	}

	var lunchStart, lunchEnd time.Time
	hasLunch := false
	if wh.LunchStart != "" && wh.LunchEnd != "" {
		ls, ok1 := clockOn(day, wh.LunchStart)
		le, ok2 := clockOn(day, wh.LunchEnd)
		hasLunch = ok1 && ok2
		lunchStart, lunchEnd = ls, le
	}

	apIdx := 0
	for cur := dayStart; !cur.Add(SessionDuration).After(dayEnd); cur = cur.Add(SessionDuration) {
		slotStart := cur
		slotEnd := cur.Add(SessionDuration)

		if !slotStart.After(notBefore) {
			continue
		}

		if hasLunch && slotStart.Before(lunchEnd) && slotEnd.After(lunchStart) {
			continue
		}

		// avança agendamentos finalizados
		for apIdx < len(booked) && !EndOf(&booked[apIdx]).After(slotStart) {
			apIdx++
		}

		conflict := false
		for i := apIdx; i < len(booked) && booked[i].ScheduledAt.Before(slotEnd); i++ {
			if EndOf(&booked[i]).After(slotStart) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	return slots
}
