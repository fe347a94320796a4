package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/httpresp"
	"github.com/BruksfildServices01/seucuidado/internal/monitoring"
	ucPayment "github.com/BruksfildServices01/seucuidado/internal/usecase/payment"
)

type PaymentHandler struct {
	payments *ucPayment.Service
	urls     ucPayment.URLs
}

func NewPaymentHandler(payments *ucPayment.Service, urls ucPayment.URLs) *PaymentHandler {
	return &PaymentHandler{payments: payments, urls: urls}
}

type CreatePreferenceRequest struct {
	AppointmentID string  `json:"appointment_id" binding:"required"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
}

// ======================================================
// PREFERENCE
// ======================================================

func (h *PaymentHandler) CreatePreference(c *gin.Context) {
	s := currentSession(c)

	var req CreatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.payments.Initiate(c.Request.Context(), ucPayment.InitiateInput{
		UserID:        s.UserID,
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		Description:   strings.TrimSpace(req.Description),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_preference", "Erro ao iniciar pagamento.")
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// RETORNO DO CHECKOUT
// ======================================================

// Success is the gateway's back_url for approved checkouts. The browser
// always lands on the dashboard.
func (h *PaymentHandler) Success(c *gin.Context) {
	appointmentID := c.Query("appointment_id")
	if appointmentID == "" {
		appointmentID = c.Query("external_reference")
	}

	_, err := h.payments.ConfirmReturn(c.Request.Context(), appointmentID, c.Query("payment_id"))
	if err != nil {
		log.Printf("payment success for appointment %q: %v", appointmentID, err)
		if _, ok := httperr.AsBusiness(err); !ok {
			_ = c.Error(err)
		}
		c.Redirect(http.StatusFound, h.urls.Dashboard("payment_error=1"))
		return
	}

	c.Redirect(http.StatusFound, h.urls.Dashboard("payment_success=1"))
}

// ======================================================
// WEBHOOK
// ======================================================

// notificationFrom accepts both the JSON notification and the legacy
// query-string IPN (?topic=payment&id=123).
func notificationFrom(c *gin.Context, raw []byte) ucPayment.Notification {
	n := ucPayment.Notification{Raw: string(raw)}

	var body struct {
		Type  string `json:"type"`
		Topic string `json:"topic"`
		Data  struct {
			ID json.RawMessage `json:"id"`
		} `json:"data"`
	}
	if len(raw) > 0 && json.Unmarshal(raw, &body) == nil {
		n.Type = body.Type
		if n.Type == "" {
			n.Type = body.Topic
		}
		n.PaymentID = rawID(body.Data.ID)
	}

	if n.Type == "" {
		n.Type = c.Query("type")
	}
	if n.Type == "" {
		n.Type = c.Query("topic")
	}
	if n.PaymentID == "" {
		n.PaymentID = c.Query("data.id")
	}
	if n.PaymentID == "" {
		n.PaymentID = c.Query("id")
	}
	return n
}

// rawID reads an id sent either as a JSON string or a number.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func (h *PaymentHandler) Webhook(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Corpo inválido.")
		return
	}

	outcome, err := h.payments.Reconcile(c.Request.Context(), notificationFrom(c, raw))
	if err != nil {
		monitoring.PaymentWebhooks.WithLabelValues("error").Inc()
		_ = c.Error(err)
		httperr.Internal(c, "webhook_failed", "Erro ao processar notificação.")
		return
	}

	monitoring.PaymentWebhooks.WithLabelValues(outcome).Inc()
	c.JSON(http.StatusOK, gin.H{"status": outcome})
}
