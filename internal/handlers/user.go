package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles the authenticated user's own account
type UserHandler struct {
	userRepository repositories.UserRepository
	blog           *services.BlogService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, blog *services.BlogService) *UserHandler {
	return &UserHandler{userRepository: userRepo, blog: blog}
}

// RegisterAccountRoutes registers account routes
func (h *UserHandler) RegisterAccountRoutes(g *echo.Group) {
	g.GET("/account", h.GetAccount)
	g.DELETE("/account", h.DeleteAccount)
}

// GetAccount returns the authenticated user's record
func (h *UserHandler) GetAccount(c echo.Context) error {
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), actor.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// DeleteAccount deletes the authenticated user along with their posts,
// comments and follows
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	if err := h.blog.DeleteAccount(c.Request().Context(), middleware.ActorFromContext(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
