package handlers

import (
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

func setupSearchRouter(handler *SearchHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/interest-search", handler.Search(models.TagInterest))
	return r
}

func TestSearchComputesOverlapAndStatus(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	tagRepo := new(mocks.TagRepositoryMock)
	friendshipRepo := new(mocks.FriendshipRepositoryMock)
	handler := NewSearchHandler(userRepo, tagRepo, friendshipRepo, cache.New(nil))
	router := setupSearchRouter(handler)

	tagRepo.On("ListUserTagIDs", mock.Anything, models.TagInterest, 1).Return([]int{1, 2, 3, 4}, nil).Once()
	userRepo.On("ListOtherUsers", mock.Anything, 1).Return([]models.MatchedUser{{ID: 2, Username: "bob"}, {ID: 3, Username: "carol"}}, nil).Once()
	tagRepo.On("ListUserTagIDs", mock.Anything, models.TagInterest, 2).Return([]int{1, 2}, nil).Once()
	tagRepo.On("ListUserTagIDs", mock.Anything, models.TagInterest, 3).Return([]int{9}, nil).Once()
	friendshipRepo.On("GetBetween", mock.Anything, 1, 2).Return(models.Friendship{Status: models.FriendshipAccepted}, nil).Once()
	friendshipRepo.On("GetBetween", mock.Anything, 1, 3).Return(models.Friendship{}, repositories.ErrFriendshipNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/interest-search", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var users []models.MatchedUser
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&users))
	require.Len(t, users, 2)

	assert.Equal(t, 50, users[0].Percentage)
	require.NotNil(t, users[0].Status)
	assert.Equal(t, models.FriendshipAccepted, *users[0].Status)

	assert.Equal(t, 0, users[1].Percentage)
	assert.Nil(t, users[1].Status)

	userRepo.AssertExpectations(t)
	tagRepo.AssertExpectations(t)
	friendshipRepo.AssertExpectations(t)
}

func TestSearchEmptyOwnTagSet(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	tagRepo := new(mocks.TagRepositoryMock)
	friendshipRepo := new(mocks.FriendshipRepositoryMock)
	handler := NewSearchHandler(userRepo, tagRepo, friendshipRepo, cache.New(nil))
	router := setupSearchRouter(handler)

	tagRepo.On("ListUserTagIDs", mock.Anything, models.TagInterest, 1).Return([]int{}, nil).Once()
	userRepo.On("ListOtherUsers", mock.Anything, 1).Return([]models.MatchedUser{{ID: 2}}, nil).Once()
	tagRepo.On("ListUserTagIDs", mock.Anything, models.TagInterest, 2).Return([]int{1, 2}, nil).Once()
	friendshipRepo.On("GetBetween", mock.Anything, 1, 2).Return(models.Friendship{}, repositories.ErrFriendshipNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/interest-search", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var users []models.MatchedUser
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&users))
	require.Len(t, users, 1)
	assert.Equal(t, 0, users[0].Percentage)
}

func TestOverlapPercentage(t *testing.T) {
	own := map[int]struct{}{1: {}, 2: {}, 3: {}}

	assert.Equal(t, 100, overlapPercentage(own, []int{1, 2, 3}))
	assert.Equal(t, 67, overlapPercentage(own, []int{1, 2}))
	assert.Equal(t, 33, overlapPercentage(own, []int{3, 9}))
	assert.Equal(t, 0, overlapPercentage(own, nil))
	assert.Equal(t, 0, overlapPercentage(map[int]struct{}{}, []int{1}))
}
