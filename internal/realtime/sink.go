package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
)

// EventSink pushes appointment events to "appointment:<id>" so open
// dashboards can refresh.
type EventSink struct {
	broker Broker
}

func NewEventSink(broker Broker) *EventSink {
	return &EventSink{broker: broker}
}

type eventPayload struct {
	Action        string    `json:"action"`
	AppointmentID string    `json:"appointment_id"`
	Metadata      any       `json:"metadata,omitempty"`
	At            time.Time `json:"at"`
}

func (s *EventSink) Name() string { return "realtime" }

func (s *EventSink) Handle(ctx context.Context, ev audit.Event) error {
	if ev.Entity != "appointment" || ev.EntityID == "" {
		return nil
	}

	b, err := json.Marshal(eventPayload{
		Action:        ev.Action,
		AppointmentID: ev.EntityID,
		Metadata:      ev.Metadata,
		At:            ev.At,
	})
	if err != nil {
		return err
	}

	return s.broker.Publish(ctx, AppointmentChannel(ev.EntityID), b)
}
