package handlers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentDomain "github.com/BruksfildServices01/seucuidado/internal/domain/payment"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

func TestPaymentHandoff(t *testing.T) {
	s := newServer(t)
	client := s.register("ana", models.RoleClient)
	_, prof := s.approvedProfessional("bia", 150)
	ap := s.book(client.Token, prof.ID, "14:00")

	w := s.do(http.MethodPost, "/api/payments/preference", client.Token, map[string]any{
		"appointment_id": ap.ID,
		"amount":         150,
		"description":    "Cuidador 1h",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pref := decode[struct {
		ID         string  `json:"id"`
		InitPoint  string  `json:"init_point"`
		Commission float64 `json:"commission"`
	}](t, w)
	assert.Equal(t, "pref-1", pref.ID)
	assert.Equal(t, 15.0, pref.Commission)
	assert.Equal(t, ap.ID, s.gateway.last.AppointmentID)
	assert.Equal(t, "http://api.test/api/payment/success?appointment_id="+ap.ID, s.gateway.last.SuccessURL)
	assert.Equal(t, "http://api.test/api/payments/webhook", s.gateway.last.NotificationURL)

	s.gateway.add(&paymentDomain.PaymentInfo{ID: "777", Status: "approved", ExternalReference: ap.ID, Amount: 150})

	w = s.do(http.MethodGet, "/api/payment/success?appointment_id="+ap.ID+"&payment_id=777", "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://app.test/dashboard?payment_success=1", w.Header().Get("Location"))

	var stored models.Appointment
	require.NoError(t, s.db.First(&stored, "id = ?", ap.ID).Error)
	assert.Equal(t, "scheduled", stored.Status)

	banner := func() bool {
		w := s.do(http.MethodGet, "/api/me/appointments", client.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		return decode[struct {
			Banner bool `json:"payment_success_banner"`
		}](t, w).Banner
	}
	assert.True(t, banner())
	assert.False(t, banner())

	// returning twice is harmless
	w = s.do(http.MethodGet, "/api/payment/success?appointment_id="+ap.ID, "", nil)
	assert.Equal(t, "http://app.test/dashboard?payment_success=1", w.Header().Get("Location"))

	w = s.do(http.MethodPost, "/api/payments/preference", client.Token, map[string]any{"appointment_id": ap.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not_payable")
}

func TestPaymentFailures(t *testing.T) {
	s := newServer(t)
	client := s.register("ana", models.RoleClient)
	_, prof := s.approvedProfessional("bia", 150)
	ap := s.book(client.Token, prof.ID, "14:00")

	s.gateway.fail = true
	w := s.do(http.MethodPost, "/api/payments/preference", client.Token, map[string]any{"appointment_id": ap.ID})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	s.gateway.add(&paymentDomain.PaymentInfo{ID: "9", Status: "rejected", ExternalReference: ap.ID})
	w = s.do(http.MethodGet, "/api/payment/success?appointment_id="+ap.ID+"&payment_id=9", "", nil)
	assert.Equal(t, "http://app.test/dashboard?payment_error=1", w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/api/payment/success?appointment_id=nope", "", nil)
	assert.Equal(t, "http://app.test/dashboard?payment_error=1", w.Header().Get("Location"))

	var stored models.Appointment
	require.NoError(t, s.db.First(&stored, "id = ?", ap.ID).Error)
	assert.Equal(t, "requested", stored.Status)
}

func TestWebhookReconciles(t *testing.T) {
	s := newServer(t)
	client := s.register("ana", models.RoleClient)
	_, prof := s.approvedProfessional("bia", 150)
	ap := s.book(client.Token, prof.ID, "14:00")

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	w := post("/api/payments/webhook", `{"type":"merchant_order","data":{"id":"1"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")

	w = post("/api/payments/webhook", `{"type":"payment","data":{"id":"404"}}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	s.gateway.add(&paymentDomain.PaymentInfo{ID: "555", Status: "approved", ExternalReference: ap.ID, Amount: 150})

	w = post("/api/payments/webhook", `{"type":"payment","data":{"id":555}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "scheduled")

	w = post("/api/payments/webhook?topic=payment&id=555", ``)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recorded")

	var txs []models.PaymentTransaction
	require.NoError(t, s.db.Where("appointment_id = ?", ap.ID).Find(&txs).Error)
	require.Len(t, txs, 1)
	assert.Equal(t, "approved", txs[0].Status)

	var stored models.Appointment
	require.NoError(t, s.db.First(&stored, "id = ?", ap.ID).Error)
	assert.Equal(t, "scheduled", stored.Status)
	assert.Equal(t, fmt.Sprint(150.0), fmt.Sprint(stored.Price))
}
