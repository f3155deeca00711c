package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"samevibe-service/internal/bus"
	"samevibe-service/internal/cache"
	"samevibe-service/internal/media"
	"samevibe-service/internal/models"
	"samevibe-service/internal/repositories"
)

const chatListTTL = time.Minute

// ChatHandler manages chat and message endpoints.
type ChatHandler struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	bus         bus.Bus
	cache       *cache.Cache
	signer      media.Signer
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, b bus.Bus, c *cache.Cache, signer media.Signer) *ChatHandler {
	return &ChatHandler{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		bus:         b,
		cache:       c,
		signer:      signer,
	}
}

// ListChats returns the caller's chats in read representation.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID := c.GetInt("userID")

	var views []models.ChatView
	err := h.cache.GetOrCompute(c.Request.Context(), cache.ChatListKey(userID), chatListTTL, &views,
		func(ctx context.Context) (interface{}, error) {
			return h.chatRepo.ListChatViews(ctx, userID)
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chats"})
		return
	}
	if views == nil {
		views = []models.ChatView{}
	}

	c.JSON(http.StatusOK, views)
}

// CreateChat returns the existing chat for the pair (200) or creates it
// (201). On creation both participants' chat-list streams get a
// chat_update event, published only after the row is committed.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req struct {
		ToUser int `json:"to_user" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to_user is required"})
		return
	}

	userID := c.GetInt("userID")
	if userID == req.ToUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot chat with yourself"})
		return
	}

	if _, err := h.userRepo.GetOtherUser(c.Request.Context(), req.ToUser); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipient"})
		return
	}

	chat, created, err := h.chatRepo.CreateOrGetChat(c.Request.Context(), userID, req.ToUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chat"})
		return
	}

	view, err := h.chatRepo.GetChatView(c.Request.Context(), chat.ID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat"})
		return
	}

	if !created {
		c.JSON(http.StatusOK, view)
		return
	}

	h.notifyChatCreated(c.Request.Context(), chat, userID, req.ToUser, view)
	c.JSON(http.StatusCreated, view)
}

// notifyChatCreated fans a chat_update out to both participants' list
// streams and drops their cached chat lists. Each participant gets the
// view from their own perspective.
func (h *ChatHandler) notifyChatCreated(ctx context.Context, chat models.Chat, creatorID, otherID int, creatorView models.ChatView) {
	if err := h.bus.Publish(ctx, bus.ChatListChannel(creatorID), models.ChatUpdateEvent{
		Type: models.EventChatUpdate,
		Data: creatorView,
	}); err != nil {
		log.Printf("chat_update publish failed user=%d: %v", creatorID, err)
	}

	otherView, err := h.chatRepo.GetChatView(ctx, chat.ID, otherID)
	if err != nil {
		log.Printf("chat view load failed chat=%d user=%d: %v", chat.ID, otherID, err)
	} else if err := h.bus.Publish(ctx, bus.ChatListChannel(otherID), models.ChatUpdateEvent{
		Type: models.EventChatUpdate,
		Data: otherView,
	}); err != nil {
		log.Printf("chat_update publish failed user=%d: %v", otherID, err)
	}

	h.cache.Invalidate(ctx, cache.ChatListKey(creatorID), cache.ChatListKey(otherID))
}

// GetChatMessages returns a chat's messages, oldest first.
func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	chatID, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	userID := c.GetInt("userID")
	member, err := h.chatRepo.IsParticipant(c.Request.Context(), chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return
	}

	msgs, err := h.messageRepo.ListMessages(c.Request.Context(), chatID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	c.JSON(http.StatusOK, msgs)
}

// EditMessage rewrites a message's text/attachment. Sender only.
func (h *ChatHandler) EditMessage(c *gin.Context) {
	messageID, err := strconv.Atoi(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	userID := c.GetInt("userID")
	msg, err := h.messageRepo.GetMessage(c.Request.Context(), messageID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "message not found"})
		return
	}
	if msg.SenderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the sender can edit this message"})
		return
	}

	var req struct {
		Text       *string `json:"text"`
		Attachment *string `json:"attachment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := msg.Text
	if req.Text != nil {
		text = *req.Text
	}
	attachment := msg.Attachment
	if req.Attachment != nil {
		attachment = req.Attachment
	}

	updated, err := h.messageRepo.UpdateMessage(c.Request.Context(), messageID, text, attachment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update message"})
		return
	}

	// The edited text may be the chat list's last_message.
	if chat, err := h.chatRepo.GetChat(c.Request.Context(), msg.ChatID); err == nil {
		h.cache.Invalidate(c.Request.Context(), cache.ChatListKey(chat.User1ID), cache.ChatListKey(chat.User2ID))
	}

	c.JSON(http.StatusOK, updated)
}

// AttachmentSignature hands out a pre-signed upload URL for a chat
// attachment.
func (h *ChatHandler) AttachmentSignature(c *gin.Context) {
	if h.signer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media uploads not configured"})
		return
	}

	contentType := c.Query("content_type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	target, err := h.signer.PresignUpload(c.Request.Context(), "attachments", contentType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not sign upload"})
		return
	}

	c.JSON(http.StatusOK, target)
}
