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

const vocabTTL = 10 * time.Minute

// TagHandler serves the tag vocabularies and the caller's tag sets.
type TagHandler struct {
	tagRepo repositories.TagRepository
	cache   *cache.Cache
}

// NewTagHandler builds a TagHandler.
func NewTagHandler(tagRepo repositories.TagRepository, c *cache.Cache) *TagHandler {
	return &TagHandler{tagRepo: tagRepo, cache: c}
}

// ListVocab returns the full vocabulary for a kind, read-through cached.
func (h *TagHandler) ListVocab(kind models.TagKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tags []models.Tag
		err := h.cache.GetOrCompute(c.Request.Context(), cache.VocabListKey(string(kind)), vocabTTL, &tags,
			func(ctx context.Context) (interface{}, error) {
				return h.tagRepo.ListVocab(ctx, kind)
			})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tags"})
			return
		}
		if tags == nil {
			tags = []models.Tag{}
		}
		c.JSON(http.StatusOK, tags)
	}
}

// ListUserTags returns the caller's current tag set for a kind.
func (h *TagHandler) ListUserTags(kind models.TagKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt("userID")
		tags, err := h.tagRepo.ListUserTags(c.Request.Context(), kind, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tags"})
			return
		}
		if tags == nil {
			tags = []models.Tag{}
		}
		c.JSON(http.StatusOK, tags)
	}
}

// ReplaceUserTags bulk-replaces the caller's tag set for a kind and
// invalidates the cached id set used by search.
func (h *TagHandler) ReplaceUserTags(kind models.TagKind, bodyKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string][]int
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tagIDs := body[bodyKey]

		userID := c.GetInt("userID")
		if err := h.tagRepo.ReplaceUserTags(c.Request.Context(), kind, userID, tagIDs); err != nil {
			if errors.Is(err, repositories.ErrUnknownTag) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "some tag ids were not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update tags"})
			return
		}

		h.cache.Invalidate(c.Request.Context(), userTagIDsKey(kind, userID))
		c.JSON(http.StatusOK, gin.H{"detail": "updated"})
	}
}

func userTagIDsKey(kind models.TagKind, userID int) string {
	switch kind {
	case models.TagHobby:
		return cache.UserHobbyIDsKey(userID)
	case models.TagMusic:
		return cache.UserMusicIDsKey(userID)
	default:
		return cache.UserInterestIDsKey(userID)
	}
}
