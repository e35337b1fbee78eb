package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/buzzline/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newUserFixture() (*UserHandler, *MockUserRepository, *MockFollowRepository, *MockPostRepository) {
	userRepo := new(MockUserRepository)
	followRepo := new(MockFollowRepository)
	postRepo := new(MockPostRepository)
	return NewUserHandler(userRepo, followRepo, postRepo), userRepo, followRepo, postRepo
}

func TestGetProfile(t *testing.T) {
	e := newTestEcho()

	t.Run("returns the profile", func(t *testing.T) {
		h, userRepo, _, _ := newUserFixture()

		userRepo.On("GetUserByID", uint(2)).Return(&models.User{ID: 2, Username: "bob"}, nil)

		c, rec := newGetContext(e, "/profile/2")
		c.SetParamNames("user_id")
		c.SetParamValues("2")
		authenticate(c, 1)

		err := h.GetProfile(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown user returns not found", func(t *testing.T) {
		h, userRepo, _, _ := newUserFixture()

		userRepo.On("GetUserByID", uint(99)).Return(nil, models.ErrUserNotFound)

		c, rec := newGetContext(e, "/profile/99")
		c.SetParamNames("user_id")
		c.SetParamValues("99")
		authenticate(c, 1)

		err := h.GetProfile(c)

		assert.Equal(t, http.StatusNotFound, statusOf(err, rec))
	})

	t.Run("non-numeric id is rejected", func(t *testing.T) {
		h, _, _, _ := newUserFixture()

		c, rec := newGetContext(e, "/profile/abc")
		c.SetParamNames("user_id")
		c.SetParamValues("abc")
		authenticate(c, 1)

		err := h.GetProfile(c)

		assert.Equal(t, http.StatusBadRequest, statusOf(err, rec))
	})
}

func TestUpdateProfile(t *testing.T) {
	e := newTestEcho()

	t.Run("owner updates their profile", func(t *testing.T) {
		h, userRepo, _, _ := newUserFixture()

		userRepo.On("GetUserByID", uint(1)).Return(&models.User{ID: 1, Name: "Old Name"}, nil)
		userRepo.On("UpdateUser", mock.MatchedBy(func(u *models.User) bool {
			return u.ID == 1 && u.Name == "New Name"
		})).Return(nil)

		c, rec := newJSONContext(e, http.MethodPut, "/profile/1", `{"name":"New Name"}`)
		c.SetParamNames("user_id")
		c.SetParamValues("1")
		authenticate(c, 1)

		err := h.UpdateProfile(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		userRepo.AssertExpectations(t)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		h, userRepo, _, _ := newUserFixture()

		c, rec := newJSONContext(e, http.MethodPut, "/profile/1", `{"name":"Hijack"}`)
		c.SetParamNames("user_id")
		c.SetParamValues("1")
		authenticate(c, 2)

		err := h.UpdateProfile(c)

		assert.Equal(t, http.StatusForbidden, statusOf(err, rec))
		userRepo.AssertNotCalled(t, "UpdateUser", mock.Anything)
	})
}

func TestProfileAggregates(t *testing.T) {
	e := newTestEcho()

	t.Run("followers count", func(t *testing.T) {
		h, _, followRepo, _ := newUserFixture()

		followRepo.On("GetFollowersCount", uint(2)).Return(int64(3), nil)

		c, rec := newGetContext(e, "/profile/2/followers")
		c.SetParamNames("user_id")
		c.SetParamValues("2")
		authenticate(c, 1)

		err := h.GetFollowersCount(c)

		assert.NoError(t, err)
		var resp map[string]int64
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(3), resp["followers_count"])
	})

	t.Run("following count", func(t *testing.T) {
		h, _, followRepo, _ := newUserFixture()

		followRepo.On("GetFollowingCount", uint(2)).Return(int64(1), nil)

		c, rec := newGetContext(e, "/profile/2/following")
		c.SetParamNames("user_id")
		c.SetParamValues("2")
		authenticate(c, 1)

		err := h.GetFollowingCount(c)

		assert.NoError(t, err)
		var resp map[string]int64
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp["following_count"])
	})

	t.Run("zero posts is a valid count", func(t *testing.T) {
		h, _, _, postRepo := newUserFixture()

		postRepo.On("CountByOwner", mock.Anything, uint(2)).Return(int64(0), nil)

		c, rec := newGetContext(e, "/profile/2/posts")
		c.SetParamNames("user_id")
		c.SetParamValues("2")
		authenticate(c, 1)

		err := h.GetPostCount(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]int64
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(0), resp["post_count"])
	})

	t.Run("likers are resolved to compact users", func(t *testing.T) {
		h, userRepo, _, postRepo := newUserFixture()

		postRepo.On("GetLikerIDs", mock.Anything, uint(2)).Return([]uint{1, 3}, nil)
		userRepo.On("GetUsersByIDs", []uint{1, 3}).Return([]models.User{
			{ID: 1, Name: "Alice", Username: "alice"},
			{ID: 3, Name: "Carol", Username: "carol"},
		}, nil)

		c, rec := newGetContext(e, "/profile/2/likes")
		c.SetParamNames("user_id")
		c.SetParamValues("2")
		authenticate(c, 1)

		err := h.GetLikers(c)

		assert.NoError(t, err)
		var resp struct {
			LikedUsers []models.UserCompact `json:"liked_users"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		if assert.Len(t, resp.LikedUsers, 2) {
			assert.Equal(t, "alice", resp.LikedUsers[0].Username)
			assert.Equal(t, "carol", resp.LikedUsers[1].Username)
		}
	})
}
