package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/httpresp"
	ucProfessional "github.com/BruksfildServices01/seucuidado/internal/usecase/professional"
)

type AdminHandler struct {
	professionals *ucProfessional.Service
}

func NewAdminHandler(professionals *ucProfessional.Service) *AdminHandler {
	return &AdminHandler{professionals: professionals}
}

// ======================================================
// REVISÃO DE PROFISSIONAIS
// ======================================================

func (h *AdminHandler) ListPending(c *gin.Context) {
	list, err := h.professionals.ListPending(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	httpresp.List(c, list)
}

func (h *AdminHandler) Approve(c *gin.Context) {
	s := currentSession(c)

	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	v, err := h.professionals.Approve(c.Request.Context(), id, s.UserID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_approve", "Erro ao aprovar profissional.")
		return
	}

	httpresp.OK(c, v)
}
