package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"samevibe-service/internal/media"
	"samevibe-service/internal/models"
	"samevibe-service/internal/repositories"
)

// ProfileHandler serves the authenticated user's profile and the avatar
// upload signature.
type ProfileHandler struct {
	userRepo repositories.UserRepository
	signer   media.Signer
}

// NewProfileHandler builds a ProfileHandler.
func NewProfileHandler(userRepo repositories.UserRepository, signer media.Signer) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo, signer: signer}
}

// UserID returns the caller's id as resolved from the token.
func (h *ProfileHandler) UserID(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("userID")})
}

// GetProfile returns the caller's profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetInt("userID")

	user, profile, err := h.userRepo.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, profileView(user, profile))
}

// UpdateProfile applies a partial update to the caller's profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		User *struct {
			FirstName *string `json:"first_name"`
			LastName  *string `json:"last_name"`
			Email     *string `json:"email"`
		} `json:"user"`
		Photo  *string `json:"photo"`
		Gender *bool   `json:"gender"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, profile, err := h.userRepo.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	update := profileView(user, profile)
	if req.User != nil {
		if req.User.FirstName != nil {
			update.User.FirstName = *req.User.FirstName
		}
		if req.User.LastName != nil {
			update.User.LastName = *req.User.LastName
		}
		if req.User.Email != nil {
			update.User.Email = *req.User.Email
		}
	}
	if req.Photo != nil {
		update.Photo = *req.Photo
	}
	if req.Gender != nil {
		update.Gender = req.Gender
	}

	if err := h.userRepo.UpdateProfile(c.Request.Context(), userID, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, update)
}

// AvatarSignature hands out a pre-signed upload URL for the avatar.
func (h *ProfileHandler) AvatarSignature(c *gin.Context) {
	if h.signer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media uploads not configured"})
		return
	}

	contentType := c.Query("content_type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	target, err := h.signer.PresignUpload(c.Request.Context(), "avatars", contentType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not sign upload"})
		return
	}

	c.JSON(http.StatusOK, target)
}

func profileView(user models.User, profile models.Profile) models.ProfileView {
	return models.ProfileView{
		User: models.ProfileUser{
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
		Photo:  profile.Photo,
		Gender: profile.Gender,
	}
}
