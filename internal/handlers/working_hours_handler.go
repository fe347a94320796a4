package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	ucProfessional "github.com/BruksfildServices01/seucuidado/internal/usecase/professional"
)

type WorkingHoursHandler struct {
	professionals *ucProfessional.Service
}

func NewWorkingHoursHandler(professionals *ucProfessional.Service) *WorkingHoursHandler {
	return &WorkingHoursHandler{professionals: professionals}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	s := currentSession(c)

	hours, err := h.professionals.WorkingHours(c.Request.Context(), s.UserID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_working_hours", "Erro ao buscar horários.")
		return
	}
	if hours == nil {
		hours = []models.WorkingHours{}
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	s := currentSession(c)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	days := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, models.WorkingHours{
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}

	if err := h.professionals.ReplaceWorkingHours(c.Request.Context(), s.UserID, days); err != nil {
		httperr.FromError(c, err, "failed_to_save_working_hours", "Erro ao salvar horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
