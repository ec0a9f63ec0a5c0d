package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// MediaHandler serves stored post images
type MediaHandler struct {
	blog *services.BlogService
}

func NewMediaHandler(blog *services.BlogService) *MediaHandler {
	return &MediaHandler{blog: blog}
}

func (h *MediaHandler) RegisterMediaRoutes(e *echo.Echo) {
	e.GET("/media/*", h.GetImage)
}

// GetImage streams the image stored under the reference in the path
func (h *MediaHandler) GetImage(c echo.Context) error {
	ref := strings.TrimPrefix(c.Param("*"), "/")
	if ref == "" || strings.Contains(ref, "..") {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}

	data, err := h.blog.OpenImage(c.Request().Context(), ref)
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}
