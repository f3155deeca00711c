package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"samevibe-service/internal/cache"
	"samevibe-service/internal/models"
	"samevibe-service/internal/repositories"
)

const tagIDsTTL = 5 * time.Minute

// SearchHandler serves the tag-overlap user search endpoints.
type SearchHandler struct {
	userRepo       repositories.UserRepository
	tagRepo        repositories.TagRepository
	friendshipRepo repositories.FriendshipRepository
	cache          *cache.Cache
}

// NewSearchHandler builds a SearchHandler.
func NewSearchHandler(userRepo repositories.UserRepository, tagRepo repositories.TagRepository, friendshipRepo repositories.FriendshipRepository, c *cache.Cache) *SearchHandler {
	return &SearchHandler{
		userRepo:       userRepo,
		tagRepo:        tagRepo,
		friendshipRepo: friendshipRepo,
		cache:          c,
	}
}

// Search lists every other user with the overlap percentage against the
// caller's tag set of the given kind, plus the friendship status.
func (h *SearchHandler) Search(kind models.TagKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt("userID")

		ownIDs, err := h.ownTagIDs(c.Request.Context(), kind, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tags"})
			return
		}
		ownSet := make(map[int]struct{}, len(ownIDs))
		for _, id := range ownIDs {
			ownSet[id] = struct{}{}
		}

		users, err := h.userRepo.ListOtherUsers(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
			return
		}

		for i := range users {
			otherIDs, err := h.tagRepo.ListUserTagIDs(c.Request.Context(), kind, users[i].ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tags"})
				return
			}
			users[i].Percentage = overlapPercentage(ownSet, otherIDs)

			fs, err := h.friendshipRepo.GetBetween(c.Request.Context(), userID, users[i].ID)
			if err == nil {
				status := fs.Status
				users[i].Status = &status
			} else if !errors.Is(err, repositories.ErrFriendshipNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friendships"})
				return
			}
		}
		if users == nil {
			users = []models.MatchedUser{}
		}

		c.JSON(http.StatusOK, users)
	}
}

// ownTagIDs serves the caller's tag id set through the cache; search is
// the hot path that reads it repeatedly between tag updates.
func (h *SearchHandler) ownTagIDs(ctx context.Context, kind models.TagKind, userID int) ([]int, error) {
	var ids []int
	err := h.cache.GetOrCompute(ctx, userTagIDsKey(kind, userID), tagIDsTTL, &ids,
		func(ctx context.Context) (interface{}, error) {
			return h.tagRepo.ListUserTagIDs(ctx, kind, userID)
		})
	return ids, err
}

func overlapPercentage(ownSet map[int]struct{}, otherIDs []int) int {
	if len(ownSet) == 0 {
		return 0
	}
	common := 0
	for _, id := range otherIDs {
		if _, ok := ownSet[id]; ok {
			common++
		}
	}
	return int(math.Round(float64(common) / float64(len(ownSet)) * 100))
}
