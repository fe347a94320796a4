package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
	"github.com/BruksfildServices01/seucuidado/internal/config"
	paymentDomain "github.com/BruksfildServices01/seucuidado/internal/domain/payment"
	"github.com/BruksfildServices01/seucuidado/internal/flash"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	"github.com/BruksfildServices01/seucuidado/internal/realtime"
	"github.com/BruksfildServices01/seucuidado/internal/routes"
	"github.com/BruksfildServices01/seucuidado/internal/session"
	"github.com/BruksfildServices01/seucuidado/internal/testutil"
	"github.com/BruksfildServices01/seucuidado/internal/timezone"
)

// Monday, 09:00 in São Paulo.
var testNow = time.Date(2030, 5, 6, 12, 0, 0, 0, time.UTC)

type fakeGateway struct {
	mu       sync.Mutex
	payments map[string]*paymentDomain.PaymentInfo
	fail     bool
	last     paymentDomain.PreferenceRequest
}

func (g *fakeGateway) CreatePreference(_ context.Context, req paymentDomain.PreferenceRequest) (*paymentDomain.Preference, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = req
	if g.fail {
		return nil, errors.New("gateway down")
	}
	return &paymentDomain.Preference{ID: "pref-1", InitPoint: "https://mp.test/checkout/pref-1"}, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, id string) (*paymentDomain.PaymentInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.payments[id]
	if !ok {
		return nil, errors.New("payment not found")
	}
	return p, nil
}

func (g *fakeGateway) add(p *paymentDomain.PaymentInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.payments == nil {
		g.payments = map[string]*paymentDomain.PaymentInfo{}
	}
	g.payments[p.ID] = p
}

type memStore struct {
	mu   sync.Mutex
	keys []string
}

func (m *memStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return "https://files.test/" + key, nil
}

type server struct {
	t       *testing.T
	db      *gorm.DB
	router  *gin.Engine
	gateway *fakeGateway
	store   *memStore
	audit   *audit.Dispatcher
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	gateway := &fakeGateway{}
	store := &memStore{}
	dispatcher := audit.NewDispatcher(audit.New(db))
	t.Cleanup(dispatcher.Close)

	cfg := &config.Config{
		AppEnv:          "test",
		JWTSecret:       "test-secret",
		BaseURL:         "http://api.test",
		FrontendURL:     "http://app.test",
		Timezone:        "America/Sao_Paulo",
		PlatformFeeRate: 0.10,
	}

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		DB:         db,
		Config:     cfg,
		Audit:      dispatcher,
		Broker:     realtime.NewMemoryBroker(),
		Flash:      flash.NewMemoryStore(),
		Denylist:   session.NewMemoryDenylist(),
		Storage:    store,
		Gateway:    gateway,
		Clock:      timezone.FixedClock(testNow),
		EmailCheck: func(string) bool { return true },
	})

	return &server{t: t, db: db, router: r, gateway: gateway, store: store, audit: dispatcher}
}

func (s *server) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func (s *server) register(name, role string) authResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     name,
		"email":    name + "@seucuidado.test",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[authResponse](s.t, w)
}

// approvedProfessional registers a professional and makes it bookable.
func (s *server) approvedProfessional(name string, price float64) (authResponse, *models.Professional) {
	s.t.Helper()
	a := s.register(name, models.RoleProfessional)

	var p models.Professional
	require.NoError(s.t, s.db.Where("user_id = ?", a.User.ID).First(&p).Error)

	now := testNow
	require.NoError(s.t, s.db.Model(&p).UpdateColumns(map[string]any{
		"specialty":      "Cuidador de idosos",
		"city":           "Curitiba",
		"price_per_hour": price,
		"approved":       true,
		"approved_at":    now,
		"documents":      `[{"name":"coren.pdf","path":"x/coren.pdf"}]`,
	}).Error)
	require.NoError(s.t, s.db.First(&p, p.ID).Error)
	return a, &p
}

type appointmentResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Price       float64   `json:"price"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CanceledBy  string    `json:"canceled_by"`
}

func (s *server) book(token string, professionalID uint, slot string) appointmentResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/appointments", token, map[string]any{
		"professional_id": professionalID,
		"date":            "2030-05-06",
		"slot":            slot,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[appointmentResponse](s.t, w)
}

func (s *server) tokenFor(userID uint, role string) string {
	s.t.Helper()
	token, _, err := session.NewIssuer("test-secret").Issue(userID, role)
	require.NoError(s.t, err)
	return token
}

func idOf(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
