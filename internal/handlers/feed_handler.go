package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/pagination"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the four paginated post listings
type FeedHandler struct {
	blog *services.BlogService
	// indexCache fronts the global feed only; nil disables caching.
	indexCache echo.MiddlewareFunc
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(blog *services.BlogService, indexCache echo.MiddlewareFunc) *FeedHandler {
	return &FeedHandler{blog: blog, indexCache: indexCache}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	if h.indexCache != nil {
		g.GET("/posts", h.GetIndex, h.indexCache)
	} else {
		g.GET("/posts", h.GetIndex)
	}
	g.GET("/groups/:slug/posts", h.GetGroupPosts)
	g.GET("/profile/:username/posts", h.GetProfile)
	g.GET("/follow/posts", h.GetFollowPosts)
}

func currentPage(c echo.Context) int {
	return pagination.ParsePage(c.QueryParam("page"))
}

func postsResponse(c echo.Context, page services.PostPage, extra echo.Map) error {
	data := echo.Map{"posts": page.Items}
	for k, v := range extra {
		data[k] = v
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    data,
		"meta":    page.Meta(),
	})
}

// GetIndex returns the global feed, newest first
func (h *FeedHandler) GetIndex(c echo.Context) error {
	page, err := h.blog.GlobalFeed(c.Request().Context(), currentPage(c))
	if err != nil {
		return httpError(err)
	}
	return postsResponse(c, page, nil)
}

// GetGroupPosts returns the posts of one group
func (h *FeedHandler) GetGroupPosts(c echo.Context) error {
	group, page, err := h.blog.GroupFeed(c.Request().Context(), c.Param("slug"), currentPage(c))
	if err != nil {
		return httpError(err)
	}
	return postsResponse(c, page, echo.Map{"group": group})
}

// GetProfile returns an author's posts along with the author and whether
// the viewer follows them
func (h *FeedHandler) GetProfile(c echo.Context) error {
	profile, err := h.blog.AuthorFeed(c.Request().Context(), middleware.ActorFromContext(c), c.Param("username"), currentPage(c))
	if err != nil {
		return httpError(err)
	}
	return postsResponse(c, profile.Page, echo.Map{
		"author":          profile.Author.ToCompact(),
		"post_count":      profile.PostCount,
		"followers_count": profile.FollowersCount,
		"following_count": profile.FollowingCount,
		"following":       profile.Following,
	})
}

// GetFollowPosts returns the posts of every author the viewer follows
func (h *FeedHandler) GetFollowPosts(c echo.Context) error {
	page, err := h.blog.FollowFeed(c.Request().Context(), middleware.ActorFromContext(c), currentPage(c))
	if err != nil {
		return httpError(err)
	}
	return postsResponse(c, page, nil)
}
