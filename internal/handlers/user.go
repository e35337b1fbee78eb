package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/buzzline/backend/internal/models"
	"github.com/buzzline/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile reads/edits and profile aggregates
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	postRepository   repositories.PostRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, postRepo repositories.PostRepository) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
		postRepository:   postRepo,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile/:user_id", h.GetProfile)
	g.PUT("/profile/:user_id", h.UpdateProfile)
	g.GET("/profile/:user_id/followers", h.GetFollowersCount)
	g.GET("/profile/:user_id/following", h.GetFollowingCount)
	g.GET("/profile/:user_id/posts", h.GetPostCount)
	g.GET("/profile/:user_id/likes", h.GetLikers)
}

func (h *UserHandler) paramUserID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return uint(id), nil
}

// GetProfile retrieves a user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := h.paramUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates a profile. Only the profile owner may edit it.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	userID, err := h.paramUserID(c)
	if err != nil {
		return err
	}

	if currentUserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to edit this profile")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.Mobile != "" {
		user.Mobile = req.Mobile
	}
	if req.IsPublic != nil {
		user.IsPublic = *req.IsPublic
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// GetFollowersCount returns the number of followers a user has
func (h *UserHandler) GetFollowersCount(c echo.Context) error {
	userID, err := h.paramUserID(c)
	if err != nil {
		return err
	}

	count, err := h.followRepository.GetFollowersCount(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"followers_count": count})
}

// GetFollowingCount returns the number of users a user follows
func (h *UserHandler) GetFollowingCount(c echo.Context) error {
	userID, err := h.paramUserID(c)
	if err != nil {
		return err
	}

	count, err := h.followRepository.GetFollowingCount(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"following_count": count})
}

// GetPostCount returns the number of posts a user owns. Zero posts is a
// valid answer.
func (h *UserHandler) GetPostCount(c echo.Context) error {
	userID, err := h.paramUserID(c)
	if err != nil {
		return err
	}

	count, err := h.postRepository.CountByOwner(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"post_count": count})
}

// GetLikers lists the users who liked any of the user's posts
func (h *UserHandler) GetLikers(c echo.Context) error {
	userID, err := h.paramUserID(c)
	if err != nil {
		return err
	}

	likerIDs, err := h.postRepository.GetLikerIDs(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	users, err := h.userRepository.GetUsersByIDs(likerIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	likers := make([]models.UserCompact, len(users))
	for i := range users {
		likers[i] = users[i].ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"liked_users": likers})
}
