// Package services implements the blog's core operations: publishing,
// commenting, following and the paginated feeds. Every mutation passes the
// ownership guard before the store is touched.
package services

import (
	"html"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/pagination"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

// Limits bounds user supplied content.
type Limits struct {
	PageSize         int
	PostMaxLength    int
	CommentMaxLength int
	MaxImageBytes    int64
}

// DefaultLimits mirrors the configuration defaults.
func DefaultLimits() Limits {
	return Limits{
		PageSize:         pagination.DefaultPageSize,
		PostMaxLength:    5000,
		CommentMaxLength: 2000,
		MaxImageBytes:    5 << 20,
	}
}

// Repositories groups the stores the blog service reads and writes.
type Repositories struct {
	Users    repositories.UserRepository
	Groups   repositories.GroupRepository
	Posts    repositories.PostRepository
	Comments repositories.CommentRepository
	Follows  repositories.FollowRepository
}

// BlogService owns posts, comments, follows, groups and feeds.
type BlogService struct {
	users    repositories.UserRepository
	groups   repositories.GroupRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	follows  repositories.FollowRepository
	images   repositories.BlobStore
	notifier *NotificationService
	limits   Limits
	strip    *bluemonday.Policy
}

// NewBlogService wires the service. images and notifier may be nil: uploads
// are then refused and no notifications are recorded.
func NewBlogService(repos Repositories, images repositories.BlobStore, notifier *NotificationService, limits Limits) *BlogService {
	if limits.PageSize < 1 {
		limits.PageSize = pagination.DefaultPageSize
	}
	return &BlogService{
		users:    repos.Users,
		groups:   repos.Groups,
		posts:    repos.Posts,
		comments: repos.Comments,
		follows:  repos.Follows,
		images:   images,
		notifier: notifier,
		limits:   limits,
		strip:    bluemonday.StrictPolicy(),
	}
}

// PageSize is the fixed number of posts per feed page.
func (s *BlogService) PageSize() int {
	return s.limits.PageSize
}

// cleanText trims surrounding space and otherwise keeps text as submitted.
// Text with nothing visible once markup is stripped, or longer than max runes,
// is a validation failure on field.
func (s *BlogService) cleanText(field, text string, max int) (string, error) {
	text = strings.TrimSpace(text)
	if strings.TrimSpace(html.UnescapeString(s.strip.Sanitize(text))) == "" {
		return "", apperr.Invalid(field, "must not be empty")
	}
	if max > 0 && utf8.RuneCountInString(text) > max {
		return "", apperr.Invalid(field, "is too long")
	}
	return text, nil
}

// Upload is an image file submitted with a post.
type Upload struct {
	Filename string
	Data     []byte
}

func (s *BlogService) checkUpload(u *Upload) error {
	if len(u.Data) == 0 {
		return apperr.Invalid("image", "the submitted file is empty")
	}
	if s.limits.MaxImageBytes > 0 && int64(len(u.Data)) > s.limits.MaxImageBytes {
		return apperr.Invalid("image", "the submitted file is too large")
	}
	if !strings.HasPrefix(http.DetectContentType(u.Data), "image/") {
		return apperr.Invalid("image", "upload a valid image")
	}
	if s.images == nil {
		return apperr.Invalid("image", "image uploads are not available")
	}
	return nil
}
