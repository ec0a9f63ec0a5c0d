package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// GroupHandler manages the group catalogue
type GroupHandler struct {
	blog *services.BlogService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(blog *services.BlogService) *GroupHandler {
	return &GroupHandler{blog: blog}
}

// RegisterGroupRoutes registers group routes. Group feeds are served by the FeedHandler.
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.GET("/groups", h.ListGroups)
	g.POST("/groups", h.CreateGroup)
	g.DELETE("/groups/:slug", h.DeleteGroup)
}

func (h *GroupHandler) ListGroups(c echo.Context) error {
	groups, err := h.blog.ListGroups(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"groups": groups}})
}

// CreateGroup adds a group; administrators only
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	var req models.CreateGroupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	group, err := h.blog.CreateGroup(c.Request().Context(), actor, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": group})
}

// DeleteGroup removes a group; its posts stay, detached
func (h *GroupHandler) DeleteGroup(c echo.Context) error {
	if err := h.blog.DeleteGroup(c.Request().Context(), middleware.ActorFromContext(c), c.Param("slug")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
