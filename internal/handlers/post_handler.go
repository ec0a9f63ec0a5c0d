package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to single posts
type PostHandler struct {
	blog *services.BlogService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(blog *services.BlogService) *PostHandler {
	return &PostHandler{blog: blog}
}

// RegisterPostRoutes registers post-related routes. The global listing on
// GET /posts belongs to the FeedHandler.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
}

// postPath is where a post's detail view lives.
func postPath(id uint) string {
	return fmt.Sprintf("/api/v1/posts/%d", id)
}

// CreatePost publishes a post. The body is JSON or multipart; in the latter
// case an "image" file may accompany the text.
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	upload, err := readUpload(c)
	if err != nil {
		return err
	}

	post, err := h.blog.CreatePost(c.Request().Context(), middleware.ActorFromContext(c), services.PostInput{
		Text:    req.Text,
		GroupID: normalizeGroup(req.GroupID),
		Image:   upload,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": post})
}

// GetPost returns a post with its comments.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.blog.GetPost(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": detail})
}

// UpdatePost edits a post. A user who is not the author is sent back to
// the post's detail view and the post is left unchanged.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	upload, err := readUpload(c)
	if err != nil {
		return err
	}

	post, err := h.blog.EditPost(c.Request().Context(), middleware.ActorFromContext(c), id, services.PostInput{
		Text:       req.Text,
		GroupID:    normalizeGroup(req.GroupID),
		Image:      upload,
		ClearImage: req.ClearImage,
	})
	if errors.Is(err, apperr.ErrForbidden) {
		return c.Redirect(http.StatusSeeOther, postPath(id))
	}
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": post})
}

// normalizeGroup treats an empty form value (bound as 0) as "no group".
func normalizeGroup(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

// readUpload returns the "image" file of a multipart request, or nil.
func readUpload(c echo.Context) (*services.Upload, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid image upload")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid image upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid image upload")
	}
	return &services.Upload{Filename: fh.Filename, Data: data}, nil
}
