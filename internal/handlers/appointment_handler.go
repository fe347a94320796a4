package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	"github.com/BruksfildServices01/seucuidado/internal/dto"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/seucuidado/internal/usecase/appointment"
)

// IdempotencyHeader lets a client retry a booking without creating a
// second appointment.
const IdempotencyHeader = "Idempotency-Key"

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create     *ucAppointment.CreateAppointment
	transition *ucAppointment.TransitionAppointment
	listClient *ucAppointment.ListForClient
	listPro    *ucAppointment.ListForProfessional

	loc *time.Location
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	transition *ucAppointment.TransitionAppointment,
	listClient *ucAppointment.ListForClient,
	listPro *ucAppointment.ListForProfessional,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     create,
		transition: transition,
		listClient: listClient,
		listPro:    listPro,
		loc:        loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	Date           string `json:"date"` // YYYY-MM-DD, optional
	Slot           string `json:"slot"` // HH:mm
	Notes          string `json:"notes" binding:"max=500"`
}

// ======================================================
// CLIENT
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	s := currentSession(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ClientID:       s.UserID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Slot:           req.Slot,
		Notes:          strings.TrimSpace(req.Notes),
		IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyHeader)),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, res.Appointment)
}

func (h *AppointmentHandler) ClientDashboard(c *gin.Context) {
	s := currentSession(c)

	out, err := h.listClient.Execute(c.Request.Context(), s.UserID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upcoming":               dto.FromAppointments(out.Upcoming, h.loc),
		"history":                dto.FromAppointments(out.History, h.loc),
		"payment_success_banner": out.PaymentSuccessBanner,
	})
}

func (h *AppointmentHandler) ClientCancel(c *gin.Context) {
	h.apply(c, domain.ActorClient, domain.StatusCanceled, "")
}

// ======================================================
// PROFESSIONAL
// ======================================================

func (h *AppointmentHandler) ProfessionalDashboard(c *gin.Context) {
	s := currentSession(c)

	out, err := h.listPro.Execute(c.Request.Context(), s.UserID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requested":          dto.FromAppointments(out.Requested, h.loc),
		"scheduled":          dto.FromAppointments(out.Scheduled, h.loc),
		"history":            dto.FromAppointments(out.History, h.loc),
		"professional":       out.Professional,
		"profile_incomplete": out.ProfileIncomplete,
		"missing":            out.Missing,
	})
}

func (h *AppointmentHandler) Accept(c *gin.Context) {
	h.apply(c, domain.ActorProfessional, domain.StatusScheduled, domain.StatusRequested)
}

func (h *AppointmentHandler) Reject(c *gin.Context) {
	h.apply(c, domain.ActorProfessional, domain.StatusCanceled, domain.StatusRequested)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.apply(c, domain.ActorProfessional, domain.StatusCompleted, domain.StatusScheduled)
}

func (h *AppointmentHandler) ProfessionalCancel(c *gin.Context) {
	h.apply(c, domain.ActorProfessional, domain.StatusCanceled, domain.StatusScheduled)
}

// ======================================================
// TRANSITION
// ======================================================

func (h *AppointmentHandler) apply(c *gin.Context, actor domain.Actor, to, from domain.Status) {
	s := currentSession(c)

	ap, err := h.transition.Execute(c.Request.Context(), ucAppointment.TransitionInput{
		AppointmentID: c.Param("id"),
		To:            to,
		From:          from,
		Actor:         actor,
		UserID:        s.UserID,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_appointment", "Erro ao atualizar agendamento.")
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap, h.loc))
}
