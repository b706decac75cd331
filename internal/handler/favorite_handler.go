package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/artist-atlas/internal/middleware"
	"github.com/xiaoxiao0301/artist-atlas/internal/service"
	"github.com/xiaoxiao0301/artist-atlas/pkg/httputil"
)

// FavoriteHandler serves the per-user favorites ledger.
type FavoriteHandler struct {
	favorites service.FavoriteService
}

// NewFavoriteHandler creates the favorite handler.
func NewFavoriteHandler(favorites service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// Add handles POST /users/favorites/:artistId.
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	artistID := c.Param("artistId")

	if err := h.favorites.Add(c.Request.Context(), userID, artistID); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{"message": "Artist added to favorites"})
}

// Remove handles DELETE /users/favorites/:artistId.
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	artistID := c.Param("artistId")

	if err := h.favorites.Remove(c.Request.Context(), userID, artistID); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{"message": "Artist removed from favorites"})
}

// List handles GET /users/favorites.
func (h *FavoriteHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	artists, err := h.favorites.List(c.Request.Context(), userID)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, artists)
}
