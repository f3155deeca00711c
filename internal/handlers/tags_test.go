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

func setupTagRouter(handler *TagHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/interestslist", handler.ListVocab(models.TagInterest))
	r.GET("/userinterests", handler.ListUserTags(models.TagInterest))
	r.PATCH("/userinterests", handler.ReplaceUserTags(models.TagInterest, "interest_ids"))
	r.PATCH("/usermusics", handler.ReplaceUserTags(models.TagMusic, "music_ids"))
	return r
}

func TestListVocabSuccess(t *testing.T) {
	tagRepo := new(mocks.TagRepositoryMock)
	handler := NewTagHandler(tagRepo, cache.New(nil))
	router := setupTagRouter(handler)

	tagRepo.On("ListVocab", mock.Anything, models.TagInterest).Return([]models.Tag{{ID: 1, Name: "travel"}, {ID: 2, Name: "books"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/interestslist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var tags []models.Tag
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tags))
	require.Len(t, tags, 2)
	assert.Equal(t, "travel", tags[0].Name)
	tagRepo.AssertExpectations(t)
}

func TestListUserTagsEmpty(t *testing.T) {
	tagRepo := new(mocks.TagRepositoryMock)
	handler := NewTagHandler(tagRepo, cache.New(nil))
	router := setupTagRouter(handler)

	tagRepo.On("ListUserTags", mock.Anything, models.TagInterest, 1).Return(([]models.Tag)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/userinterests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	tagRepo.AssertExpectations(t)
}

func TestReplaceUserTagsSuccess(t *testing.T) {
	tagRepo := new(mocks.TagRepositoryMock)
	handler := NewTagHandler(tagRepo, cache.New(nil))
	router := setupTagRouter(handler)

	tagRepo.On("ReplaceUserTags", mock.Anything, models.TagInterest, 1, []int{1, 3}).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/userinterests", bytes.NewBufferString(`{"interest_ids":[1,3]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	tagRepo.AssertExpectations(t)
}

func TestReplaceUserTagsUnknownID(t *testing.T) {
	tagRepo := new(mocks.TagRepositoryMock)
	handler := NewTagHandler(tagRepo, cache.New(nil))
	router := setupTagRouter(handler)

	tagRepo.On("ReplaceUserTags", mock.Anything, models.TagMusic, 1, []int{99}).Return(repositories.ErrUnknownTag).Once()

	req := httptest.NewRequest(http.MethodPatch, "/usermusics", bytes.NewBufferString(`{"music_ids":[99]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	tagRepo.AssertExpectations(t)
}

func TestReplaceUserTagsUsesBodyKeyPerKind(t *testing.T) {
	tagRepo := new(mocks.TagRepositoryMock)
	handler := NewTagHandler(tagRepo, cache.New(nil))
	router := setupTagRouter(handler)

	// interest_ids in the body of a music replace is ignored; the set
	// becomes empty.
	tagRepo.On("ReplaceUserTags", mock.Anything, models.TagMusic, 1, ([]int)(nil)).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/usermusics", bytes.NewBufferString(`{"interest_ids":[1]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	tagRepo.AssertExpectations(t)
}
