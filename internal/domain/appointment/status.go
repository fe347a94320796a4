package appointment

import (
	"time"

	"github.com/BruksfildServices01/seucuidado/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusRequested Status = "requested"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusScheduled, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

func InitialStatus() Status {
	return StatusRequested
}

// ===============================
// Actors
// ===============================

type Actor string

const (
	ActorClient       Actor = "client"
	ActorProfessional Actor = "professional"
	// ActorPayment is the gateway confirming a payment.
	ActorPayment Actor = "payment"
)

type rule struct {
	actors []Actor
	// requiresElapsed: the slot must have started.
	requiresElapsed bool
}

var transitions = map[Status]map[Status]rule{
	StatusRequested: {
		StatusScheduled: {actors: []Actor{ActorProfessional, ActorPayment}},
		StatusCanceled:  {actors: []Actor{ActorProfessional, ActorClient}},
	},
	StatusScheduled: {
		StatusCompleted: {actors: []Actor{ActorProfessional}, requiresElapsed: true},
		StatusCanceled:  {actors: []Actor{ActorProfessional, ActorClient}},
	},
}

// ===============================
// Validations
// ===============================

// CanTransition checks one edge of the state machine for the given actor.
func CanTransition(from, to Status, actor Actor, scheduledAt, now time.Time) error {
	r, ok := transitions[from][to]
	if !ok {
		return httperr.ErrBusinessDetail("invalid_transition", string(from)+" -> "+string(to))
	}

	allowed := false
	for _, a := range r.actors {
		if a == actor {
			allowed = true
			break
		}
	}
	if !allowed {
		return httperr.ErrBusiness("forbidden_transition")
	}

	if r.requiresElapsed && now.Before(scheduledAt) {
		return httperr.ErrBusiness("too_early")
	}

	return nil
}
