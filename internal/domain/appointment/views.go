package appointment

import (
	"time"

	"github.com/BruksfildServices01/seucuidado/internal/models"
)

type View string

const (
	ViewRequested View = "requested"
	ViewUpcoming  View = "scheduled"
	ViewHistory   View = "history"
)

// Classify puts an appointment in exactly one dashboard view. Terminal
// appointments are history whatever their date, and so is anything whose
// slot has already passed.
func Classify(ap *models.Appointment, now time.Time) View {
	st := Status(ap.Status)
	if st.Terminal() || ap.ScheduledAt.Before(now) {
		return ViewHistory
	}
	if st == StatusRequested {
		return ViewRequested
	}
	return ViewUpcoming
}

type Partition struct {
	Requested []models.Appointment `json:"requested"`
	Scheduled []models.Appointment `json:"scheduled"`
	History   []models.Appointment `json:"history"`
}

func PartitionAt(aps []models.Appointment, now time.Time) Partition {
	p := Partition{
		Requested: []models.Appointment{},
		Scheduled: []models.Appointment{},
		History:   []models.Appointment{},
	}

	for _, ap := range aps {
		switch Classify(&ap, now) {
		case ViewRequested:
			p.Requested = append(p.Requested, ap)
		case ViewUpcoming:
			p.Scheduled = append(p.Scheduled, ap)
		default:
			p.History = append(p.History, ap)
		}
	}

	return p
}
