package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/middleware"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/repo"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/storage"
	ws "github.com/KnowYourLines/blabhear-backend-archive-3/internal/websocket"
)

// WebSocketHandler открывает сессии комнат и персональных лент
type WebSocketHandler struct {
	gateway  repo.Gateway
	hub      *ws.Hub
	signer   storage.Signer
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(gateway repo.Gateway, hub *ws.Hub, signer storage.Signer) *WebSocketHandler {
	return &WebSocketHandler{
		gateway: gateway,
		hub:     hub,
		signer:  signer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: проверить origin в prod
				return true
			},
		},
	}
}

// HandleRoom открывает соединение с комнатой по id из пути
func (h *WebSocketHandler) HandleRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	user, err := h.gateway.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, user.ID, user.Username)
	h.hub.Register(client)

	session := NewRoomSession(h.gateway, h.hub, h.signer, client, roomID)
	session.Start()

	go client.WritePump()
	go client.ReadPump(session)
}

// HandleUser открывает соединение с персональной лентой по username из пути.
// Чужую ленту открыть нельзя: при несовпадении идентичности соединение
// обрывается сразу, без единого события.
func (h *WebSocketHandler) HandleUser(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	target := c.Param("username")

	user, err := h.gateway.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}

	if user.Username != target {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, user.ID, user.Username)
	h.hub.Register(client)

	session := NewUserSession(h.gateway, h.hub, client)
	session.Start()

	go client.WritePump()
	go client.ReadPump(session)
}
