package events

import (
	"net/http"
	"strconv"

	"escaperoom/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHandler serves room subscriptions. allowOrigin nil accepts any origin.
func NewHandler(hub *Hub, allowOrigin func(origin string) bool, log zerolog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowOrigin == nil || origin == "" || allowOrigin(origin)
			},
		},
		log: log,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/rooms/:id", h.Subscribe)
}

// Subscribe upgrades to a WebSocket and streams the events of one room until the
// client goes away. Incoming messages are ignored.
func (h *Handler) Subscribe(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || roomID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Int64("room_id", roomID).Msg("websocket upgrade failed")
		return
	}

	h.hub.Register(roomID, conn)
	defer h.hub.Unregister(roomID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
