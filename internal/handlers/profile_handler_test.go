package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/seucuidado/internal/models"
	"github.com/BruksfildServices01/seucuidado/internal/session"
)

type profileResponse struct {
	Professional struct {
		ID           uint    `json:"id"`
		City         string  `json:"city"`
		PricePerHour float64 `json:"price_per_hour"`
		RadiusKM     int     `json:"radius_km"`
		Approved     bool    `json:"approved"`
		Documents    []struct {
			Name string `json:"name"`
			Path string `json:"path"`
			URL  string `json:"url"`
		} `json:"documents"`
	} `json:"professional"`
	Completeness struct {
		Complete bool     `json:"complete"`
		Missing  []string `json:"missing"`
	} `json:"completeness"`
}

func (s *server) upload(token string, files map[string][]byte) *httptest.ResponseRecorder {
	s.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(s.t, err)
		_, err = fw.Write(data)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/pro/profile/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestProfessionalOnboarding(t *testing.T) {
	s := newServer(t)
	pro := s.register("bia", models.RoleProfessional)

	w := s.do(http.MethodGet, "/api/pro/profile", pro.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[profileResponse](t, w)
	assert.False(t, p.Completeness.Complete)
	assert.Contains(t, p.Completeness.Missing, "specialty")

	w = s.do(http.MethodPatch, "/api/pro/profile", pro.Token, map[string]any{"price_per_hour": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_price")

	w = s.do(http.MethodPatch, "/api/pro/profile", pro.Token, map[string]any{
		"specialty": "Enfermagem", "city": "Curitiba", "price_per_hour": 110, "radius_km": -5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p = decode[profileResponse](t, w)
	assert.Equal(t, 1, p.Professional.RadiusKM)
	assert.Equal(t, []string{"documents", "approval"}, p.Completeness.Missing)

	w = s.do(http.MethodPost, "/api/pro/profile/approve", pro.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "documents_required")

	w = s.upload(pro.Token, map[string][]byte{"coren frente.pdf": []byte("%PDF-1.4")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p = decode[profileResponse](t, w)
	require.Len(t, p.Professional.Documents, 1)
	assert.Contains(t, p.Professional.Documents[0].Path, "coren_frente.pdf")
	assert.Len(t, s.store.keys, 1)

	w = s.do(http.MethodPost, "/api/pro/profile/approve", pro.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	p = decode[profileResponse](t, w)
	assert.True(t, p.Professional.Approved)
	assert.True(t, p.Completeness.Complete)

	w = s.do(http.MethodGet, "/api/professionals?specialty=enf", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"bia"`)
}

func TestAdminApproval(t *testing.T) {
	s := newServer(t)
	pro := s.register("bia", models.RoleProfessional)

	admin := models.User{Name: "root", Email: "root@seucuidado.test", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, s.db.Create(&admin).Error)

	var p models.Professional
	require.NoError(t, s.db.Where("user_id = ?", pro.User.ID).First(&p).Error)

	w := s.do(http.MethodGet, "/api/admin/professionals/pending", pro.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := s.tokenFor(admin.ID, models.RoleAdmin)

	w = s.do(http.MethodGet, "/api/admin/professionals/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id"`)

	w = s.do(http.MethodPost, "/api/admin/professionals/"+idOf(p.ID)+"/approve", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(pro.Token, map[string][]byte{"rg.pdf": []byte("%PDF")})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/admin/professionals/"+idOf(p.ID)+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[profileResponse](t, w).Professional.Approved)
}

func TestWorkingHoursRoundTrip(t *testing.T) {
	s := newServer(t)
	pro := s.register("bia", models.RoleProfessional)

	w := s.do(http.MethodGet, "/api/pro/working-hours", pro.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(http.MethodPut, "/api/pro/working-hours", pro.Token, map[string]any{
		"days": []map[string]any{
			{"weekday": 1, "active": true, "start_time": "08:00", "end_time": "12:00"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPut, "/api/pro/working-hours", pro.Token, map[string]any{
		"days": []map[string]any{
			{"weekday": 1, "active": true, "start_time": "12:00", "end_time": "08:00"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/pro/working-hours", pro.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"end_time":"12:00"`)
}
