package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"samevibe-service/internal/cache"
	"samevibe-service/internal/models"
	"samevibe-service/internal/repositories"
)

const friendListTTL = time.Minute

// FriendshipHandler manages friend requests and friendships.
type FriendshipHandler struct {
	friendshipRepo repositories.FriendshipRepository
	chatRepo       repositories.ChatRepository
	userRepo       repositories.UserRepository
	cache          *cache.Cache
}

// NewFriendshipHandler builds a FriendshipHandler.
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, chatRepo repositories.ChatRepository, userRepo repositories.UserRepository, c *cache.Cache) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepo: friendshipRepo,
		chatRepo:       chatRepo,
		userRepo:       userRepo,
		cache:          c,
	}
}

// List returns the caller's friendships, filterable by ?cat=.
func (h *FriendshipHandler) List(c *gin.Context) {
	userID := c.GetInt("userID")
	category := c.Query("cat")
	switch category {
	case "accepted", "sended", "received":
	default:
		category = "all"
	}

	var views []models.FriendshipView
	err := h.cache.GetOrCompute(c.Request.Context(), cache.FriendListKey(userID, category), friendListTTL, &views,
		func(ctx context.Context) (interface{}, error) {
			return h.friendshipRepo.List(ctx, userID, category)
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friendships"})
		return
	}
	if views == nil {
		views = []models.FriendshipView{}
	}

	c.JSON(http.StatusOK, views)
}

// Create sends a friend request to to_user.
func (h *FriendshipHandler) Create(c *gin.Context) {
	var req struct {
		ToUser int `json:"to_user" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to_user is required"})
		return
	}

	userID := c.GetInt("userID")
	if userID == req.ToUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot befriend yourself"})
		return
	}

	other, err := h.userRepo.GetOtherUser(c.Request.Context(), req.ToUser)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipient"})
		return
	}

	fs, err := h.friendshipRepo.Create(c.Request.Context(), userID, req.ToUser)
	if err != nil {
		if errors.Is(err, repositories.ErrFriendshipExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "friendship already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create friendship"})
		return
	}

	h.invalidateFriendCaches(c.Request.Context(), userID, req.ToUser)

	c.JSON(http.StatusCreated, models.FriendshipView{
		Status:  fs.Status,
		OtherID: other.ID,
		Other:   other,
	})
}

// Accept moves a pending request addressed to the caller into the
// accepted state. Only the recipient can do this.
func (h *FriendshipHandler) Accept(c *gin.Context) {
	var req struct {
		OtherUserID int `json:"other_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "other_user_id is required"})
		return
	}

	userID := c.GetInt("userID")
	fs, err := h.friendshipRepo.Accept(c.Request.Context(), req.OtherUserID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrFriendshipNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending request from this user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not accept request"})
		return
	}

	h.invalidateFriendCaches(c.Request.Context(), userID, req.OtherUserID)

	other, err := h.userRepo.GetOtherUser(c.Request.Context(), req.OtherUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, models.FriendshipView{
		Status:  fs.Status,
		OtherID: other.ID,
		Other:   other,
	})
}

// Delete removes the friendship in either direction and cascades the
// chat between the pair, if any.
func (h *FriendshipHandler) Delete(c *gin.Context) {
	var req struct {
		OtherUserID int `json:"other_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "other_user_id is required"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.friendshipRepo.Delete(c.Request.Context(), userID, req.OtherUserID); err != nil {
		if errors.Is(err, repositories.ErrFriendshipNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "friendship not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete friendship"})
		return
	}

	if err := h.chatRepo.DeleteChatBetween(c.Request.Context(), userID, req.OtherUserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete chat"})
		return
	}

	h.invalidateFriendCaches(c.Request.Context(), userID, req.OtherUserID)
	h.cache.Invalidate(c.Request.Context(), cache.ChatListKey(userID), cache.ChatListKey(req.OtherUserID))

	c.Status(http.StatusNoContent)
}

func (h *FriendshipHandler) invalidateFriendCaches(ctx context.Context, userID, otherID int) {
	keys := append(cache.FriendListKeys(userID), cache.FriendListKeys(otherID)...)
	h.cache.Invalidate(ctx, keys...)
}
