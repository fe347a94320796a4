package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/seucuidado/internal/domain/professional"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	s := currentSession(c)

	var user models.User
	if err := h.db.First(&user, s.UserID).Error; err != nil {
		httperr.Unauthorized(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	resp := gin.H{
		"user":    userJSON(&user),
		"session": s,
	}

	if user.Role == models.RoleProfessional {
		var prof models.Professional
		if err := h.db.Where("user_id = ?", user.ID).First(&prof).Error; err == nil {
			resp["professional"] = prof
			resp["completeness"] = professional.Evaluate(&prof)
		}
	}

	c.JSON(http.StatusOK, resp)
}
