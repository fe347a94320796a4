package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/httpresp"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	"github.com/BruksfildServices01/seucuidado/internal/monitoring"
	"github.com/BruksfildServices01/seucuidado/internal/realtime"
	ucChat "github.com/BruksfildServices01/seucuidado/internal/usecase/chat"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type ChatHandler struct {
	chat     *ucChat.Service
	upgrader websocket.Upgrader
}

func NewChatHandler(chat *ucChat.Service, allowedOrigin string) *ChatHandler {
	return &ChatHandler{
		chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "" || origin == allowedOrigin
			},
		},
	}
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

// ======================================================
// POLLING
// ======================================================

func (h *ChatHandler) ListMessages(c *gin.Context) {
	s := currentSession(c)

	after, ok := parseAfter(c.Query("after"))
	if !ok {
		httperr.BadRequest(c, "invalid_after", "Parâmetro after inválido.")
		return
	}

	msgs, err := h.chat.History(c.Request.Context(), c.Param("id"), s.UserID, after)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_messages", "Erro ao carregar mensagens.")
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	s := currentSession(c)

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	msg, err := h.chat.Post(c.Request.Context(), c.Param("id"), s.UserID, req.Content)
	if err != nil {
		httperr.FromError(c, err, "failed_to_send_message", "Erro ao enviar mensagem.")
		return
	}

	httpresp.Created(c, msg)
}

// ======================================================
// WEBSOCKET
// ======================================================

// Stream forwards every message published on the chat to this connection.
// Messages sent while the socket is down are only available via polling.
func (h *ChatHandler) Stream(c *gin.Context) {
	s := currentSession(c)

	sub, err := h.chat.Subscribe(c.Request.Context(), c.Param("id"), s.UserID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_open_chat", "Erro ao abrir conversa.")
		return
	}
	h.serve(c, sub)
}

// Events streams status changes of the appointment to its participants.
func (h *ChatHandler) Events(c *gin.Context) {
	s := currentSession(c)

	sub, err := h.chat.SubscribeEvents(c.Request.Context(), c.Param("id"), s.UserID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_open_chat", "Erro ao abrir conversa.")
		return
	}
	h.serve(c, sub)
}

func (h *ChatHandler) serve(c *gin.Context, sub realtime.Subscription) {
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed on %s: %v", c.Request.URL.Path, err)
		return
	}
	defer conn.Close()

	monitoring.ChatConnections.Inc()
	defer monitoring.ChatConnections.Dec()

	done := make(chan struct{})
	go readPump(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-sub.Messages():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readPump only services control frames; clients post through HTTP.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			return
		}
	}
}
