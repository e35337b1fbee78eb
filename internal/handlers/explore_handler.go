package handlers

import (
	"errors"
	"net/http"

	"github.com/buzzline/backend/internal/models"
	"github.com/buzzline/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ExploreHandler serves the visibility-filtered post feeds
type ExploreHandler struct {
	postRepository  repositories.PostRepository
	blockRepository repositories.BlockRepository
}

// NewExploreHandler creates a new ExploreHandler
func NewExploreHandler(postRepo repositories.PostRepository, blockRepo repositories.BlockRepository) *ExploreHandler {
	return &ExploreHandler{
		postRepository:  postRepo,
		blockRepository: blockRepo,
	}
}

// RegisterExploreRoutes registers the explore feed routes
func (h *ExploreHandler) RegisterExploreRoutes(g *echo.Group) {
	g.GET("/explore/public", h.PublicLatest)
	g.GET("/explore/random", h.RandomPost)
	g.GET("/explore/not-blocked", h.NotBlockedAuthors)
	g.GET("/explore/liked-posts", h.LikedByViewer)
	g.GET("/explore/my-posts", h.MyPosts)
}

// annotate marks each post with whether the viewer has liked it
func annotate(posts []models.Post, viewerID uint) []models.EnrichedPost {
	enriched := make([]models.EnrichedPost, len(posts))
	for i, p := range posts {
		liked := false
		for _, uid := range p.Likes {
			if uid == viewerID {
				liked = true
				break
			}
		}
		enriched[i] = models.EnrichedPost{Post: p, IsLiked: liked}
	}
	return enriched
}

// PublicLatest lists public posts newest first, each annotated with the
// viewer's like status
func (h *ExploreHandler) PublicLatest(c echo.Context) error {
	viewerID := getUserIDFromContext(c)

	posts, err := h.postRepository.GetPublicLatest(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": annotate(posts, viewerID)})
}

// RandomPost returns one uniformly-sampled post from the public corpus
func (h *ExploreHandler) RandomPost(c echo.Context) error {
	post, err := h.postRepository.SampleRandomPublic(c.Request().Context())
	if err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No posts available")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

// NotBlockedAuthors lists posts from authors who have not blocked the viewer
func (h *ExploreHandler) NotBlockedAuthors(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	blockerIDs, err := h.blockRepository.GetBlockerIDs(viewerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.postRepository.GetNotBlockedAuthors(c.Request().Context(), blockerIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// LikedByViewer lists posts the viewer has liked
func (h *ExploreHandler) LikedByViewer(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	posts, err := h.postRepository.GetLikedBy(c.Request().Context(), viewerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// MyPosts lists the viewer's own posts
func (h *ExploreHandler) MyPosts(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	posts, err := h.postRepository.GetByOwner(c.Request().Context(), viewerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}
