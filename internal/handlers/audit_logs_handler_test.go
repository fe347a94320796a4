package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/seucuidado/internal/models"
)

func TestAuditLogsAreScopedToTheCaller(t *testing.T) {
	s := newServer(t)
	client := s.register("ana", models.RoleClient)
	other := s.register("caio", models.RoleClient)
	_, prof := s.approvedProfessional("bia", 100)
	s.book(client.Token, prof.ID, "14:00")

	// flush pending events to the database
	s.audit.Close()

	type logsResponse struct {
		Total int64 `json:"total"`
		Logs  []struct {
			UserID *uint  `json:"user_id"`
			Action string `json:"action"`
		} `json:"logs"`
	}

	w := s.do(http.MethodGet, "/api/me/audit-logs", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[logsResponse](t, w)
	require.Equal(t, int64(2), got.Total)
	assert.Equal(t, "appointment_created", got.Logs[0].Action)
	assert.Equal(t, "user_registered", got.Logs[1].Action)
	for _, l := range got.Logs {
		require.NotNil(t, l.UserID)
		assert.Equal(t, client.User.ID, *l.UserID)
	}

	w = s.do(http.MethodGet, "/api/me/audit-logs?action=appointment_created", other.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[logsResponse](t, w).Total)

	w = s.do(http.MethodGet, "/api/me/audit-logs?from=2000-01-01&entity=user", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[logsResponse](t, w).Total)
}
