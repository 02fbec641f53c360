package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/comitanigiacomo/kanso-nutrition/internal/adapters/notify"
)

const pingInterval = 25 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RealtimeHandler upgrades authenticated requests to a websocket that
// receives reminders and fresh daily analyses.
type RealtimeHandler struct {
	hub *notify.RealtimeHub
}

func NewRealtimeHandler(hub *notify.RealtimeHub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

func (h *RealtimeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/realtime", h.Connect)
}

func (h *RealtimeHandler) Connect(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[REALTIME] Upgrade failed for user %s: %v", userID, err)
		return
	}

	client := notify.NewClient(userID, conn)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.Ping(); err != nil {
					return
				}
			}
		}
	}()

	// clients only listen; reading drains control frames and detects close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
