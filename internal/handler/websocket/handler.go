package websocket

import (
	"net/http"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/hub"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketHandler upgrades /ws requests and hands the connection to the hub.
type WebSocketHandler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
}

// NewWebSocketHandler creates the handler. An empty allowedOrigin accepts any
// origin, which is only meant for local development.
func NewWebSocketHandler(h *hub.Hub, allowedOrigin string) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigin),
	}
	return &WebSocketHandler{upgrader: upgrader, hub: h}
}

func originChecker(allowed string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if allowed == "" || allowed == "*" {
			return true
		}
		origin := r.Header.Get("Origin")
		// Non-browser clients send no Origin.
		return origin == "" || origin == allowed
	}
}

// HandleConnection upgrades the request. Authentication is optional: the
// OptionalAuth middleware leaves the user id unset for anonymous callers.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	participant := domain.Participant{
		ID:     domain.ParticipantID(uuid.NewString()),
		UserID: middleware.UserID(c),
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"participant_id": participant.ID,
		"user_id":        participant.UserID,
	})

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: Connection upgraded to WebSocket")

	hub.NewClient(h.hub, conn, participant).Run()
}
