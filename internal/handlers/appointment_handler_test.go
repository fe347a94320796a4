package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/seucuidado/internal/models"
)

func TestBookingRequiresSession(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/appointments", "", map[string]any{"professional_id": 1, "slot": "14:00"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/auth"`)
}

func TestBookingValidation(t *testing.T) {
	s := newServer(t)
	client := s.register("ana", models.RoleClient)
	_, prof := s.approvedProfessional("bia", 90)

	w := s.do(http.MethodPost, "/api/appointments", client.Token, map[string]any{"professional_id": prof.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_slot")

	w = s.do(http.MethodPost, "/api/appointments", client.Token, map[string]any{
		"professional_id": prof.ID, "date": "2030-05-06", "slot": "08:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "slot_in_past")

	pending := s.register("caio", models.RoleProfessional)
	var pp models.Professional
	require.NoError(t, s.db.Where("user_id = ?", pending.User.ID).First(&pp).Error)
	w = s.do(http.MethodPost, "/api/appointments", client.Token, map[string]any{
		"professional_id": pp.ID, "date": "2030-05-06", "slot": "14:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	s.db.Model(&models.Appointment{}).Count(&count)
	assert.Zero(t, count)
}

func TestBookingIsIdempotent(t *testing.T) {
	s := newServer(t)
	client := s.register("ana", models.RoleClient)
	_, prof := s.approvedProfessional("bia", 90)

	body := map[string]any{"professional_id": prof.ID, "date": "2030-05-06", "slot": "14:00"}

	w := s.do(http.MethodPost, "/api/appointments", client.Token, body, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[appointmentResponse](t, w)
	assert.Equal(t, "requested", first.Status)
	assert.Equal(t, 90.0, first.Price)

	w = s.do(http.MethodPost, "/api/appointments", client.Token, body, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, first.ID, decode[appointmentResponse](t, w).ID)

	w = s.do(http.MethodPost, "/api/appointments", client.Token, body, "Idempotency-Key", "k-2")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "time_conflict")
}

func TestIntakeLifecycle(t *testing.T) {
	s := newServer(t)
	client := s.register("ana", models.RoleClient)
	pro, prof := s.approvedProfessional("bia", 120)

	a := s.book(client.Token, prof.ID, "14:00")
	b := s.book(client.Token, prof.ID, "16:00")

	w := s.do(http.MethodGet, "/api/pro/appointments", pro.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[struct {
		Requested         []appointmentResponse `json:"requested"`
		Scheduled         []appointmentResponse `json:"scheduled"`
		History           []appointmentResponse `json:"history"`
		ProfileIncomplete bool                  `json:"profile_incomplete"`
	}](t, w)
	require.Len(t, dash.Requested, 2)
	assert.Empty(t, dash.Scheduled)
	assert.False(t, dash.ProfileIncomplete)

	// clients can't use the professional routes
	w = s.do(http.MethodPost, fmt.Sprintf("/api/pro/appointments/%s/accept", a.ID), client.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/pro/appointments/%s/accept", a.ID), pro.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "scheduled", decode[appointmentResponse](t, w).Status)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/pro/appointments/%s/accept", a.ID), pro.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_transition")

	w = s.do(http.MethodPost, fmt.Sprintf("/api/pro/appointments/%s/complete", a.ID), pro.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "too_early")

	w = s.do(http.MethodPost, fmt.Sprintf("/api/pro/appointments/%s/reject", b.ID), pro.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rejected := decode[appointmentResponse](t, w)
	assert.Equal(t, "canceled", rejected.Status)
	assert.Equal(t, "professional", rejected.CanceledBy)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/appointments/%s/cancel", a.ID), client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "client", decode[appointmentResponse](t, w).CanceledBy)

	w = s.do(http.MethodGet, "/api/me/appointments", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cd := decode[struct {
		Upcoming []appointmentResponse `json:"upcoming"`
		History  []appointmentResponse `json:"history"`
	}](t, w)
	assert.Empty(t, cd.Upcoming)
	assert.Len(t, cd.History, 2)
}

func TestOtherClientsAppointmentIsInvisible(t *testing.T) {
	s := newServer(t)
	ana := s.register("ana", models.RoleClient)
	caio := s.register("caio", models.RoleClient)
	_, prof := s.approvedProfessional("bia", 120)

	ap := s.book(ana.Token, prof.ID, "14:00")

	w := s.do(http.MethodPost, fmt.Sprintf("/api/appointments/%s/cancel", ap.ID), caio.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	other, _ := s.approvedProfessional("dani", 80)
	w = s.do(http.MethodPost, fmt.Sprintf("/api/pro/appointments/%s/accept", ap.ID), other.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityAndDiscovery(t *testing.T) {
	s := newServer(t)
	client := s.register("ana", models.RoleClient)
	_, prof := s.approvedProfessional("bia", 120)
	s.register("caio", models.RoleProfessional)

	s.book(client.Token, prof.ID, "14:00")

	w := s.do(http.MethodGet, fmt.Sprintf("/api/professionals/%d/availability?date=2030-05-06", prof.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	av := decode[struct {
		Slots []struct {
			Start string `json:"start"`
		} `json:"slots"`
	}](t, w)

	starts := []string{}
	for _, sl := range av.Slots {
		starts = append(starts, sl.Start)
	}
	assert.Equal(t, []string{"10:00", "11:00", "12:00", "13:00", "15:00", "16:00", "17:00"}, starts)

	w = s.do(http.MethodGet, "/api/professionals?city=curitiba", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Data []struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
		Total int `json:"total"`
	}](t, w)
	require.Len(t, list.Data, 1)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, prof.ID, list.Data[0].ID)
	assert.Equal(t, "bia", list.Data[0].Name)

	w = s.do(http.MethodGet, "/api/professionals/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
