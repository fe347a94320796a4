package appointment

import (
	"time"

	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// SessionDuration is the length of one booked session; prices are hourly.
const SessionDuration = time.Hour

// Transition is a validated status change, ready for a compare-and-swap
// write: it only applies while the row still has status From.
type Transition struct {
	AppointmentID string
	From          Status
	To            Status
	By            Actor
	At            time.Time
}

// ===============================
// Domain Actions
// ===============================

func Plan(ap *models.Appointment, to Status, actor Actor, now time.Time) (Transition, error) {
	from := Status(ap.Status)
	if err := CanTransition(from, to, actor, ap.ScheduledAt, now); err != nil {
		return Transition{}, err
	}

	return Transition{
		AppointmentID: ap.ID,
		From:          from,
		To:            to,
		By:            actor,
		At:            now,
	}, nil
}

// Apply mirrors a persisted transition on the in-memory row.
func Apply(ap *models.Appointment, t Transition) {
	ap.Status = string(t.To)
	ap.UpdatedAt = t.At

	switch t.To {
	case StatusCanceled:
		at := t.At
		ap.CanceledAt = &at
		ap.CanceledBy = string(t.By)
	case StatusCompleted:
		at := t.At
		ap.CompletedAt = &at
	}
}

func EndOf(ap *models.Appointment) time.Time {
	return ap.ScheduledAt.Add(SessionDuration)
}
