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

	"samevibe-service/internal/cache"
	"samevibe-service/internal/mocks"
	"samevibe-service/internal/models"
	"samevibe-service/internal/repositories"
)

func setupFriendshipRouter(handler *FriendshipHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/friendshiplist", handler.List)
	r.POST("/friendshiplist", handler.Create)
	r.PATCH("/friendship", handler.Accept)
	r.DELETE("/friendship", handler.Delete)
	return r
}

func TestListFriendshipsDefaultsToAll(t *testing.T) {
	friendshipRepo := new(mocks.FriendshipRepositoryMock)
	handler := NewFriendshipHandler(friendshipRepo, nil, nil, cache.New(nil))
	router := setupFriendshipRouter(handler)

	friendshipRepo.On("List", mock.Anything, 1, "all").Return([]models.FriendshipView{{Status: "accepted", OtherID: 2}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/friendshiplist?cat=bogus", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var views []models.FriendshipView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, 2, views[0].OtherID)
	friendshipRepo.AssertExpectations(t)
}

func TestListFriendshipsByCategory(t *testing.T) {
	friendshipRepo := new(mocks.FriendshipRepositoryMock)
	handler := NewFriendshipHandler(friendshipRepo, nil, nil, cache.New(nil))
	router := setupFriendshipRouter(handler)

	friendshipRepo.On("List", mock.Anything, 1, "received").Return([]models.FriendshipView{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/friendshiplist?cat=received", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	friendshipRepo.AssertExpectations(t)
}

func TestCreateFriendshipSuccess(t *testing.T) {
	friendshipRepo := new(mocks.FriendshipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewFriendshipHandler(friendshipRepo, nil, userRepo, cache.New(nil))
	router := setupFriendshipRouter(handler)

	userRepo.On("GetOtherUser", mock.Anything, 2).Return(models.OtherUser{ID: 2, FirstName: "Bob"}, nil).Once()
	friendshipRepo.On("Create", mock.Anything, 1, 2).Return(models.Friendship{ID: 5, FromUserID: 1, ToUserID: 2, Status: models.FriendshipPending}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/friendshiplist", bytes.NewBufferString(`{"to_user":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var view models.FriendshipView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, models.FriendshipPending, view.Status)
	assert.Equal(t, 2, view.OtherID)
	friendshipRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestCreateFriendshipDuplicatePair(t *testing.T) {
	friendshipRepo := new(mocks.FriendshipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewFriendshipHandler(friendshipRepo, nil, userRepo, cache.New(nil))
	router := setupFriendshipRouter(handler)

	userRepo.On("GetOtherUser", mock.Anything, 2).Return(models.OtherUser{ID: 2}, nil).Once()
	friendshipRepo.On("Create", mock.Anything, 1, 2).Return(models.Friendship{}, repositories.ErrFriendshipExists).Once()

	req := httptest.NewRequest(http.MethodPost, "/friendshiplist", bytes.NewBufferString(`{"to_user":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	friendshipRepo.AssertExpectations(t)
}

func TestCreateFriendshipWithSelfRejected(t *testing.T) {
	handler := NewFriendshipHandler(new(mocks.FriendshipRepositoryMock), nil, nil, cache.New(nil))
	router := setupFriendshipRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/friendshiplist", bytes.NewBufferString(`{"to_user":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptFriendshipSuccess(t *testing.T) {
	friendshipRepo := new(mocks.FriendshipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewFriendshipHandler(friendshipRepo, nil, userRepo, cache.New(nil))
	router := setupFriendshipRouter(handler)

	friendshipRepo.On("Accept", mock.Anything, 2, 1).Return(models.Friendship{ID: 5, FromUserID: 2, ToUserID: 1, Status: models.FriendshipAccepted}, nil).Once()
	userRepo.On("GetOtherUser", mock.Anything, 2).Return(models.OtherUser{ID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/friendship", bytes.NewBufferString(`{"other_user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var view models.FriendshipView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, models.FriendshipAccepted, view.Status)
	friendshipRepo.AssertExpectations(t)
}

func TestAcceptFriendshipNoPendingRequest(t *testing.T) {
	friendshipRepo := new(mocks.FriendshipRepositoryMock)
	handler := NewFriendshipHandler(friendshipRepo, nil, nil, cache.New(nil))
	router := setupFriendshipRouter(handler)

	friendshipRepo.On("Accept", mock.Anything, 2, 1).Return(models.Friendship{}, repositories.ErrFriendshipNotFound).Once()

	req := httptest.NewRequest(http.MethodPatch, "/friendship", bytes.NewBufferString(`{"other_user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	friendshipRepo.AssertExpectations(t)
}

func TestDeleteFriendshipCascadesChat(t *testing.T) {
	friendshipRepo := new(mocks.FriendshipRepositoryMock)
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewFriendshipHandler(friendshipRepo, chatRepo, nil, cache.New(nil))
	router := setupFriendshipRouter(handler)

	friendshipRepo.On("Delete", mock.Anything, 1, 2).Return(nil).Once()
	chatRepo.On("DeleteChatBetween", mock.Anything, 1, 2).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/friendship", bytes.NewBufferString(`{"other_user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	friendshipRepo.AssertExpectations(t)
	chatRepo.AssertExpectations(t)
}

func TestDeleteFriendshipNotFound(t *testing.T) {
	friendshipRepo := new(mocks.FriendshipRepositoryMock)
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewFriendshipHandler(friendshipRepo, chatRepo, nil, cache.New(nil))
	router := setupFriendshipRouter(handler)

	friendshipRepo.On("Delete", mock.Anything, 1, 2).Return(repositories.ErrFriendshipNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/friendship", bytes.NewBufferString(`{"other_user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	chatRepo.AssertNotCalled(t, "DeleteChatBetween", mock.Anything, mock.Anything, mock.Anything)
	friendshipRepo.AssertExpectations(t)
}
