package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// entry describes how a business code is rendered.
type entry struct {
	status  int
	message string
}

var business = map[string]entry{
	"missing_slot":           {http.StatusBadRequest, "Escolha um horário."},
	"invalid_slot":           {http.StatusBadRequest, "Horário inválido."},
	"invalid_date":           {http.StatusBadRequest, "Data inválida."},
	"slot_in_past":           {http.StatusBadRequest, "O horário escolhido já passou."},
	"outside_working_hours":  {http.StatusBadRequest, "Fora do horário de atendimento."},
	"time_conflict":          {http.StatusConflict, "Conflito de horário."},
	"invalid_transition":     {http.StatusBadRequest, "Transição de status inválida."},
	"forbidden_transition":   {http.StatusForbidden, "Você não pode executar esta ação."},
	"too_early":              {http.StatusBadRequest, "O atendimento ainda não aconteceu."},
	"status_conflict":        {http.StatusConflict, "O agendamento foi alterado por outra pessoa."},
	"appointment_not_found":  {http.StatusNotFound, "Agendamento não encontrado."},
	"professional_not_found": {http.StatusNotFound, "Profissional não encontrado."},
	"profile_not_linked":     {http.StatusForbidden, "Seu usuário não está vinculado a um perfil de profissional."},
	"documents_required":     {http.StatusBadRequest, "Envie ao menos um documento antes de aprovar."},
	"invalid_price":          {http.StatusBadRequest, "Preço por hora inválido."},
	"invalid_amount":         {http.StatusBadRequest, "Valor inválido."},
	"not_payable":            {http.StatusBadRequest, "Este agendamento não aguarda pagamento."},
	"payment_not_approved":   {http.StatusBadRequest, "Pagamento não aprovado."},
	"payment_gateway_error":  {http.StatusBadGateway, "Falha ao comunicar com o meio de pagamento."},
	"payments_disabled":      {http.StatusServiceUnavailable, "Pagamentos indisponíveis."},
	"chat_forbidden":         {http.StatusForbidden, "Você não participa desta conversa."},
	"empty_message":          {http.StatusBadRequest, "Mensagem vazia."},
	"message_too_long":       {http.StatusBadRequest, "Mensagem muito longa."},
	"invalid_working_hours":  {http.StatusBadRequest, "Horário de atendimento inválido."},
	"uploads_disabled":       {http.StatusServiceUnavailable, "Envio de documentos indisponível."},
	"invalid_file":           {http.StatusBadRequest, "Arquivo inválido."},
	"email_already_used":     {http.StatusConflict, "Este e-mail já está cadastrado."},
}

// FromError writes err as a JSON error. Business errors use their code;
// anything else becomes a 500 with fallbackCode and is attached to the
// gin context for the error-tracking middleware.
func FromError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	if be, ok := AsBusiness(err); ok {
		e, known := business[be.Code]
		if !known {
			e = entry{http.StatusBadRequest, be.Code}
		}
		c.JSON(e.status, HTTPError{
			Code:    be.Code,
			Message: e.message,
			Detail:  be.Detail,
		})
		return
	}

	_ = c.Error(err)
	Internal(c, fallbackCode, fallbackMessage)
}
