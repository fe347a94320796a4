package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db  *gorm.DB
	loc *time.Location
}

func NewAuditLogsHandler(db *gorm.DB, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, loc: loc}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	s := currentSession(c)

	action := c.Query("action")
	entity := c.Query("entity")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	// --------------------------------------------------
	// Query base (admin vê tudo, demais só os próprios)
	// --------------------------------------------------

	q := h.db.Model(&models.AuditLog{})
	if !s.IsAdmin() {
		q = q.Where("user_id = ?", s.UserID)
	}

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if from, ok := parseDayIn(h.loc, c.Query("from")); ok {
		q = q.Where("created_at >= ?", from.UTC())
	}

	if to, ok := parseDayIn(h.loc, c.Query("to")); ok {
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1).UTC())
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
