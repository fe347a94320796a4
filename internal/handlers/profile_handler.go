package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/seucuidado/internal/domain/professional"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/httpresp"
	ucProfessional "github.com/BruksfildServices01/seucuidado/internal/usecase/professional"
)

// ProfileHandler is the signed-in professional's own profile.
type ProfileHandler struct {
	professionals *ucProfessional.Service
}

func NewProfileHandler(professionals *ucProfessional.Service) *ProfileHandler {
	return &ProfileHandler{professionals: professionals}
}

type UpdateProfileRequest struct {
	Specialty    *string  `json:"specialty"`
	City         *string  `json:"city"`
	PricePerHour *float64 `json:"price_per_hour"`
	RadiusKM     *int     `json:"radius_km"`
	Bio          *string  `json:"bio"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	s := currentSession(c)

	v, err := h.professionals.Profile(c.Request.Context(), s.UserID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_profile", "Erro ao buscar perfil.")
		return
	}

	httpresp.OK(c, v)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	s := currentSession(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	v, err := h.professionals.UpdateProfile(c.Request.Context(), s.UserID, domain.ProfileUpdate{
		Specialty:    req.Specialty,
		City:         req.City,
		PricePerHour: req.PricePerHour,
		RadiusKM:     req.RadiusKM,
		Bio:          req.Bio,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_profile", "Erro ao salvar o perfil.")
		return
	}

	httpresp.OK(c, v)
}

// UploadDocuments reads the multipart field "files".
func (h *ProfileHandler) UploadDocuments(c *gin.Context) {
	s := currentSession(c)

	form, err := c.MultipartForm()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Envie os arquivos no campo files.")
		return
	}

	headers := form.File["files"]
	uploads := make([]ucProfessional.Upload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > ucProfessional.MaxDocumentSize {
			httperr.FromError(c, httperr.ErrBusinessDetail("invalid_file", fh.Filename), "", "")
			return
		}

		f, err := fh.Open()
		if err != nil {
			httperr.BadRequest(c, "invalid_file", "Arquivo inválido.")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			httperr.BadRequest(c, "invalid_file", "Arquivo inválido.")
			return
		}

		uploads = append(uploads, ucProfessional.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	v, err := h.professionals.UploadDocuments(c.Request.Context(), s.UserID, uploads)
	if err != nil {
		httperr.FromError(c, err, "failed_to_upload_documents", "Erro ao enviar documentos.")
		return
	}

	httpresp.OK(c, v)
}

func (h *ProfileHandler) Approve(c *gin.Context) {
	s := currentSession(c)

	v, err := h.professionals.SelfApprove(c.Request.Context(), s.UserID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_approve", "Erro ao aprovar perfil.")
		return
	}

	httpresp.OK(c, v)
}
