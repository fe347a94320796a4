package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/seucuidado/internal/domain/professional"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/httpresp"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	ucAppointment "github.com/BruksfildServices01/seucuidado/internal/usecase/appointment"
	ucProfessional "github.com/BruksfildServices01/seucuidado/internal/usecase/professional"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves discovery pages. Only approved professionals are
// ever returned.
type PublicHandler struct {
	professionals *ucProfessional.Service
	availability  *ucAppointment.GetAvailability
}

func NewPublicHandler(
	professionals *ucProfessional.Service,
	availability *ucAppointment.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		professionals: professionals,
		availability:  availability,
	}
}

type publicProfessional struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Specialty    string  `json:"specialty"`
	City         string  `json:"city"`
	PricePerHour float64 `json:"price_per_hour"`
	RadiusKM     int     `json:"radius_km"`
	Bio          string  `json:"bio"`
	Rating       float64 `json:"rating"`
}

func toPublic(p *models.Professional) publicProfessional {
	out := publicProfessional{
		ID:           p.ID,
		Specialty:    p.Specialty,
		City:         p.City,
		PricePerHour: p.PricePerHour,
		RadiusKM:     p.RadiusKM,
		Bio:          p.Bio,
		Rating:       p.Rating,
	}
	if p.User != nil {
		out.Name = p.User.Name
	}
	return out
}

////////////////////////////////////////////////////////
// DISCOVERY
////////////////////////////////////////////////////////

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	list, err := h.professionals.Search(c.Request.Context(), domain.SearchFilter{
		City:      c.Query("city"),
		Specialty: c.Query("specialty"),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	out := make([]publicProfessional, 0, len(list))
	for i := range list {
		out = append(out, toPublic(&list[i]))
	}

	httpresp.List(c, out)
}

func (h *PublicHandler) GetProfessional(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	p, err := h.professionals.Public(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_professional", "Erro ao buscar profissional.")
		return
	}

	httpresp.OK(c, toPublic(p))
}

////////////////////////////////////////////////////////
// AVAILABILITY (REUSO TOTAL DO USE CASE)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_availability", "Erro ao buscar disponibilidade.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"professional_id": id,
		"date":            c.Query("date"),
		"slots":           slots,
	})
}
