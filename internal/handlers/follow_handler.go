package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	blog *services.BlogService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(blog *services.BlogService) *FollowHandler {
	return &FollowHandler{blog: blog}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/profile/:username/follow", h.FollowUser)
	g.DELETE("/profile/:username/follow", h.UnfollowUser)
}

// FollowUser follows an author. Repeating it, or following yourself, changes nothing.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	actor := middleware.ActorFromContext(c)
	username := c.Param("username")

	if err := h.blog.Follow(c.Request().Context(), actor, username); err != nil {
		return httpError(err)
	}

	following := actor.Username != username
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": following}})
}

// UnfollowUser stops following an author
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	if err := h.blog.Unfollow(c.Request().Context(), middleware.ActorFromContext(c), c.Param("username")); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}
