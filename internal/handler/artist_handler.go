// Package handler exposes the HTTP API on gin.
package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/artist-atlas/internal/service"
	"github.com/xiaoxiao0301/artist-atlas/internal/validation"
	"github.com/xiaoxiao0301/artist-atlas/pkg/httputil"
)

// ArtistHandler serves the artist catalogue endpoints.
type ArtistHandler struct {
	artists service.ArtistService
	exports service.ExportService
}

// NewArtistHandler creates the artist handler.
func NewArtistHandler(artists service.ArtistService, exports service.ExportService) *ArtistHandler {
	return &ArtistHandler{
		artists: artists,
		exports: exports,
	}
}

// List handles GET /artists.
func (h *ArtistHandler) List(c *gin.Context) {
	query := service.ListQuery{
		Genre:         c.Query("genre"),
		Country:       c.Query("country"),
		MinPopularity: c.Query("min_popularity"),
		Search:        c.Query("q"),
		SortBy:        c.Query("sort_by"),
		Order:         c.Query("order"),
		Page:          c.Query("page"),
		Limit:         c.Query("limit"),
	}

	artists, total, page, limit, err := h.artists.List(c.Request.Context(), query)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}

	httputil.PaginatedResponse(c, artists, page, limit, total)
}

// Get handles GET /artists/:id.
func (h *ArtistHandler) Get(c *gin.Context) {
	artist, err := h.artists.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, artist)
}

// Create handles POST /artists.
func (h *ArtistHandler) Create(c *gin.Context) {
	var input validation.ArtistInput
	if err := httputil.BindAndValidate(c, &input); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}

	artist, err := h.artists.Create(c.Request.Context(), &input)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.CreatedResponse(c, artist)
}

// Update handles PUT /artists/:id.
func (h *ArtistHandler) Update(c *gin.Context) {
	var input validation.ArtistInput
	if err := httputil.BindAndValidate(c, &input); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}

	artist, err := h.artists.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, artist)
}

// Delete handles DELETE /artists/:id.
func (h *ArtistHandler) Delete(c *gin.Context) {
	if err := h.artists.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{"message": "Artist deleted"})
}

// Export handles GET /artists/export. The format query selects csv or xlsx.
func (h *ArtistHandler) Export(c *gin.Context) {
	result, err := h.exports.Export(c.Request.Context(), c.Query("format"))
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
