package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"samevibe-service/internal/auth"
	"samevibe-service/internal/bus"
	"samevibe-service/internal/cache"
	"samevibe-service/internal/models"
	"samevibe-service/internal/observability"
	"samevibe-service/internal/repositories"
)

// ChatSocketHandler serves the per-chat websocket. A connection both
// receives the room's events and submits new messages.
type ChatSocketHandler struct {
	bus         bus.Bus
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	cache       *cache.Cache
	jwtSecret   string
}

// NewChatSocketHandler constructs a ChatSocketHandler.
func NewChatSocketHandler(b bus.Bus, chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, c *cache.Cache, jwtSecret string) *ChatSocketHandler {
	return &ChatSocketHandler{
		bus:         b,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		cache:       c,
		jwtSecret:   jwtSecret,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates, checks chat membership, upgrades the connection
// and runs the read loop. Membership is verified before the upgrade so a
// non-participant never joins the room.
func (h *ChatSocketHandler) Handle(c *gin.Context) {
	chatID, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	ctx, span := otel.Tracer("samevibe-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	claims, err := h.authenticate(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	chat, err := h.chatRepo.GetChat(c.Request.Context(), chatID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}
	if chat.User1ID != claims.UserID && chat.User2ID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for chat"})
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
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}

	// All writes share this wrapper: bus fan-out from publisher
	// goroutines and error acks from the read loop.
	sub := bus.NewLockedConn(conn)

	channel := bus.ChatChannel(chatID)
	h.bus.Subscribe(channel, sub)
	observability.IncWSActive("chat")
	observability.IncWSEvent("chat", "ws_connect")

	go h.readLoop(conn, sub, channel, chat, info)
}

// readLoop consumes inbound messages until the connection dies. Each one
// is stored first and fanned out only after the row exists; a failed
// store is acked back to the sender as an error event instead of being
// silently dropped.
func (h *ChatSocketHandler) readLoop(conn *websocket.Conn, sub *bus.LockedConn, channel string, chat models.Chat, info ConnInfo) {
	defer func() {
		h.bus.Unsubscribe(channel, sub)
		sub.Close()
		observability.DecWSActive("chat")
		observability.IncWSEvent("chat", "ws_disconnect")
		log.Printf("ws disconnect kind=chat chat=%d user=%d conn=%s duration_ms=%d",
			chat.ID, info.UserID, info.ConnID, time.Since(info.ConnectedAt).Milliseconds())
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("chat", "ws_error")
			}
			return
		}

		var inbound models.InboundChatMessage
		if err := json.Unmarshal(raw, &inbound); err != nil {
			h.ackError(sub, "malformed message")
			continue
		}
		if inbound.Message == "" && inbound.Attachment == nil {
			h.ackError(sub, "empty message")
			continue
		}

		// The handshake request context is gone once the handler
		// returned; persistence must not inherit its cancellation.
		ctx := context.Background()

		msg, err := h.messageRepo.CreateMessage(ctx, chat.ID, info.UserID, inbound.Message, inbound.Attachment)
		if err != nil {
			log.Printf("message store failed chat=%d user=%d: %v", chat.ID, info.UserID, err)
			observability.IncWSEvent("chat", "store_error")
			h.ackError(sub, "message could not be saved")
			continue
		}
		if err := h.chatRepo.TouchChat(ctx, chat.ID); err != nil {
			log.Printf("chat touch failed chat=%d: %v", chat.ID, err)
		}

		if err := h.bus.Publish(ctx, channel, models.ChatMessageEvent{
			Type:    models.EventChatMessage,
			Message: msg.Text,
			Sender:  info.Username,
		}); err != nil {
			log.Printf("chat_message publish failed chat=%d: %v", chat.ID, err)
		}
		observability.IncWSEvent("chat", models.EventChatMessage)

		// The stored message changes both participants' last_message.
		h.cache.Invalidate(ctx, cache.ChatListKey(chat.User1ID), cache.ChatListKey(chat.User2ID))
	}
}

// ackError reports a per-message failure to the sending connection only.
func (h *ChatSocketHandler) ackError(conn *bus.LockedConn, detail string) {
	payload, err := json.Marshal(models.ErrorEvent{Type: models.EventError, Detail: detail})
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("websocket write error: %v", err)
	}
}

func (h *ChatSocketHandler) authenticate(c *gin.Context) (*auth.Claims, error) {
	return claimsFromRequest(c, h.jwtSecret)
}

// claimsFromRequest accepts the token from the Authorization header or,
// for browser websocket clients that cannot set headers, from ?token=.
func claimsFromRequest(c *gin.Context, secret string) (*auth.Claims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if token := c.Query("token"); token != "" {
			header = "Bearer " + token
		}
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fmt.Errorf("invalid token")
	}
	return auth.ParseToken(secret, parts[1])
}
