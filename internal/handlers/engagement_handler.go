package handlers

import (
	"errors"
	"net/http"

	"github.com/buzzline/backend/internal/models"
	"github.com/buzzline/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// EngagementHandler handles likes, comments and sub-comments
type EngagementHandler struct {
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *EngagementHandler {
	return &EngagementHandler{
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterEngagementRoutes registers like/comment routes
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/like/:post_id", h.LikePost)
	g.POST("/comment", h.AddComment)
	g.POST("/subComment", h.AddSubComment)
}

// LikePost likes a post at most once per user
func (h *EngagementHandler) LikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.LikePost(c.Request().Context(), postID, currentUserID); err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyLiked):
			return echo.NewHTTPError(http.StatusConflict, "You have already liked this post")
		case errors.Is(err, models.ErrPostNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	// Notify the post owner, unless they liked their own post
	if h.notificationRepository != nil && post.UserID != currentUserID {
		actor, _ := h.userRepository.GetUserByID(currentUserID)
		if actor != nil {
			notif := &models.Notification{
				Type:        "like",
				ActorID:     currentUserID,
				RecipientID: post.UserID,
				Message:     actor.Username + " liked your post",
			}
			h.notificationRepository.CreateNotification(notif)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post liked successfully"})
}

// AddComment appends a comment to a post
func (h *EngagementHandler) AddComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		UserID: currentUserID,
		Text:   req.Text,
	}

	if err := h.postRepository.AddComment(c.Request().Context(), req.PostID, comment); err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Comment added successfully", "comment": comment})
}

// AddSubComment appends a reply to an addressed comment
func (h *EngagementHandler) AddSubComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateSubCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sub := &models.SubComment{
		UserID: currentUserID,
		Text:   req.Text,
	}

	if err := h.postRepository.AddSubComment(c.Request().Context(), req.PostID, req.CommentID, sub); err != nil {
		switch {
		case errors.Is(err, models.ErrPostNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		case errors.Is(err, models.ErrCommentNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Sub-comment added successfully", "sub_comment": sub})
}
