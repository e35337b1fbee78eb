package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/buzzline/backend/internal/models"
	"github.com/buzzline/backend/internal/repositories"
	"github.com/buzzline/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

const (
	maxPostImages = 5
	maxPostVideos = 1
)

// PostHandler handles post creation, edit and deletion
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	blobStore      storage.BlobStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, blobStore storage.BlobStore) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		blobStore:      blobStore,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/createPost", h.CreatePost)
	g.PUT("/posts/:post_id", h.EditPost)
	g.DELETE("/posts/:post_id", h.DeletePost)
	g.DELETE("/post/:post_id", h.DeleteOwnPost)
}

// CreatePost creates a new post from a multipart form: text, is_public,
// hashtags, friend_tags, up to 5 images and 1 video.
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if _, err := h.userRepository.GetUserByID(currentUserID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	text := strings.TrimSpace(c.FormValue("text"))
	if text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Post text is required")
	}

	isPublic := true
	if v := c.FormValue("is_public"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid is_public value")
		}
		isPublic = parsed
	}

	var hashtags []string
	var friendTags []uint
	var images []string
	var video string

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		hashtags = form.Value["hashtags"]
		for _, raw := range form.Value["friend_tags"] {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid friend tag: "+raw)
			}
			friendTags = append(friendTags, uint(id))
		}

		imageFiles := form.File["images"]
		if len(imageFiles) > maxPostImages {
			return echo.NewHTTPError(http.StatusBadRequest, "A post may carry at most 5 images")
		}
		videoFiles := form.File["video"]
		if len(videoFiles) > maxPostVideos {
			return echo.NewHTTPError(http.StatusBadRequest, "A post may carry at most 1 video")
		}

		for _, file := range imageFiles {
			path, err := h.blobStore.SaveFile(file, "images")
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store image")
			}
			images = append(images, path)
		}
		if len(videoFiles) == 1 {
			path, err := h.blobStore.SaveFile(videoFiles[0], "videos")
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store video")
			}
			video = path
		}
	}

	post := &models.Post{
		UserID:     currentUserID,
		Text:       text,
		Images:     images,
		Video:      video,
		IsPublic:   isPublic,
		Hashtags:   hashtags,
		FriendTags: friendTags,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// EditPost applies a partial field update. Only the owner may edit.
func (h *PostHandler) EditPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	existing, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if existing.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to edit this post")
	}

	updated, err := h.postRepository.UpdatePostFields(c.Request().Context(), postID, &req)
	if err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, updated)
}

// DeletePost soft-deletes a post. Only the owner may delete.
func (h *PostHandler) DeletePost(c echo.Context) error {
	return h.deleteOwned(c)
}

// DeleteOwnPost soft-deletes a post owned by the caller
func (h *PostHandler) DeleteOwnPost(c echo.Context) error {
	return h.deleteOwned(c)
}

func (h *PostHandler) deleteOwned(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	existing, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if existing.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.SoftDeletePost(c.Request().Context(), postID); err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}
