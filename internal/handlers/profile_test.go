package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"samevibe-service/internal/media"
	"samevibe-service/internal/mocks"
	"samevibe-service/internal/models"
)

func setupProfileRouter(handler *ProfileHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/userid", handler.UserID)
	r.GET("/profile", handler.GetProfile)
	r.PATCH("/profile", handler.UpdateProfile)
	r.GET("/avatar-signature", handler.AvatarSignature)
	return r
}

func TestUserIDFromToken(t *testing.T) {
	handler := NewProfileHandler(new(mocks.UserRepositoryMock), nil)
	router := setupProfileRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/userid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":1}`, rec.Body.String())
}

func TestGetProfileSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewProfileHandler(userRepo, nil)
	router := setupProfileRouter(handler)

	userRepo.On("GetProfile", mock.Anything, 1).Return(
		models.User{ID: 1, Username: "alice", FirstName: "Alice", Email: "alice@example.com"},
		models.Profile{UserID: 1, Photo: "p.jpg"},
		nil,
	).Once()

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var view models.ProfileView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "alice", view.User.Username)
	assert.Equal(t, "p.jpg", view.Photo)
	userRepo.AssertExpectations(t)
}

func TestUpdateProfilePartialMerge(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewProfileHandler(userRepo, nil)
	router := setupProfileRouter(handler)

	userRepo.On("GetProfile", mock.Anything, 1).Return(
		models.User{ID: 1, Username: "alice", FirstName: "Alice", LastName: "Old", Email: "alice@example.com"},
		models.Profile{UserID: 1, Photo: "p.jpg"},
		nil,
	).Once()
	userRepo.On("UpdateProfile", mock.Anything, 1, mock.MatchedBy(func(update models.ProfileView) bool {
		// Only last_name is in the patch; everything else keeps its value.
		return update.User.LastName == "New" &&
			update.User.FirstName == "Alice" &&
			update.User.Email == "alice@example.com" &&
			update.Photo == "p.jpg"
	})).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/profile", bytes.NewBufferString(`{"user":{"last_name":"New"}}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestAvatarSignatureWithoutSigner(t *testing.T) {
	handler := NewProfileHandler(new(mocks.UserRepositoryMock), nil)
	router := setupProfileRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/avatar-signature", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAvatarSignatureSuccess(t *testing.T) {
	signer := new(mocks.SignerMock)
	handler := NewProfileHandler(new(mocks.UserRepositoryMock), signer)
	router := setupProfileRouter(handler)

	signer.On("PresignUpload", mock.Anything, "avatars", "image/png").Return(media.UploadTarget{
		UploadURL: "https://bucket.s3.amazonaws.com/avatars/x?sig=y",
		ObjectURL: "https://bucket.s3.amazonaws.com/avatars/x",
		ExpiresIn: 300,
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/avatar-signature?content_type=image/png", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var target media.UploadTarget
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&target))
	assert.Equal(t, 300, target.ExpiresIn)
	signer.AssertExpectations(t)
}
