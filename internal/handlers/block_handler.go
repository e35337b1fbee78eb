package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/buzzline/backend/internal/models"
	"github.com/buzzline/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// BlockHandler handles block/unblock HTTP requests
type BlockHandler struct {
	blockRepository repositories.BlockRepository
	userRepository  repositories.UserRepository
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(blockRepo repositories.BlockRepository, userRepo repositories.UserRepository) *BlockHandler {
	return &BlockHandler{
		blockRepository: blockRepo,
		userRepository:  userRepo,
	}
}

// RegisterBlockRoutes registers block-related routes
func (h *BlockHandler) RegisterBlockRoutes(g *echo.Group) {
	g.POST("/block/:user_id", h.BlockUser)
	g.POST("/unblock/:user_id", h.UnblockUser)
	g.PUT("/unblock/:user_id", h.UnblockUser)
}

// BlockUser blocks a user. One-directional: the actor's block list grows,
// existing follow edges are untouched.
func (h *BlockHandler) BlockUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if currentUserID == uint(targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot block yourself")
	}

	if _, err := h.userRepository.GetUserByID(uint(targetID)); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isBlocked, err := h.blockRepository.IsBlocked(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isBlocked {
		return echo.NewHTTPError(http.StatusConflict, "User is already blocked")
	}

	block := &models.Block{
		BlockerID: currentUserID,
		BlockedID: uint(targetID),
	}

	if err := h.blockRepository.CreateBlock(block); err != nil {
		if errors.Is(err, models.ErrAlreadyBlocked) {
			return echo.NewHTTPError(http.StatusConflict, "User is already blocked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blocked": true}})
}

// UnblockUser removes a block edge
func (h *BlockHandler) UnblockUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if _, err := h.userRepository.GetUserByID(uint(targetID)); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.blockRepository.DeleteBlock(currentUserID, uint(targetID)); err != nil {
		if errors.Is(err, models.ErrNotBlocked) {
			return echo.NewHTTPError(http.StatusConflict, "User is not blocked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blocked": false}})
}
