package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"samevibe-service/internal/bus"
	"samevibe-service/internal/observability"
)

// ChatListSocketHandler serves the per-user chat-list stream. The stream
// is push-only: clients receive chat_update events and send nothing.
type ChatListSocketHandler struct {
	bus       bus.Bus
	jwtSecret string
}

// NewChatListSocketHandler constructs a ChatListSocketHandler.
func NewChatListSocketHandler(b bus.Bus, jwtSecret string) *ChatListSocketHandler {
	return &ChatListSocketHandler{bus: b, jwtSecret: jwtSecret}
}

// Handle authenticates and subscribes the connection to the caller's own
// chat-list channel. The channel is derived from the token, never from
// the request, so a user cannot watch someone else's list.
func (h *ChatListSocketHandler) Handle(c *gin.Context) {
	claims, err := claimsFromRequest(c, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	identity := observability.IdentityFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      claims.UserID,
		Username:    claims.Username,
		DeviceID:    identity.DeviceID,
		IP:          identity.IP,
		RequestID:   identity.RequestID,
		ConnectedAt: time.Now(),
	}

	// Two chats created at once mean two publishers on this channel;
	// the wrapper keeps their writes from interleaving.
	sub := bus.NewLockedConn(conn)

	channel := bus.ChatListChannel(claims.UserID)
	h.bus.Subscribe(channel, sub)
	observability.IncWSActive("chatlist")
	observability.IncWSEvent("chatlist", "ws_connect")

	go func() {
		defer func() {
			h.bus.Unsubscribe(channel, sub)
			sub.Close()
			observability.DecWSActive("chatlist")
			observability.IncWSEvent("chatlist", "ws_disconnect")
			log.Printf("ws disconnect kind=chatlist user=%d conn=%s duration_ms=%d",
				info.UserID, info.ConnID, time.Since(info.ConnectedAt).Milliseconds())
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("chatlist", "ws_error")
				}
				return
			}
		}
	}()
}
