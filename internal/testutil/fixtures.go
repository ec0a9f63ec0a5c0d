package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/yatube/backend/internal/models"
	"gorm.io/gorm"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *gorm.DB
	t  *testing.T

	mu    sync.Mutex
	clock time.Time
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t, clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *gorm.DB {
	return f.db
}

// tick returns strictly increasing timestamps so fixture rows have a
// deterministic creation order.
func (f *Fixtures) tick() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

// CreateUser creates a local user with the given username.
func (f *Fixtures) CreateUser(ctx context.Context, username string) *models.User {
	f.t.Helper()
	u := &models.User{Username: username, Name: username, Email: username + "@example.com"}
	if err := f.db.WithContext(ctx).Create(u).Error; err != nil {
		f.t.Fatalf("create user %q: %v", username, err)
	}
	return u
}

// CreateAdmin creates a user with the admin flag set.
func (f *Fixtures) CreateAdmin(ctx context.Context, username string) *models.User {
	f.t.Helper()
	u := &models.User{Username: username, Name: username, Email: username + "@example.com", IsAdmin: true}
	if err := f.db.WithContext(ctx).Create(u).Error; err != nil {
		f.t.Fatalf("create admin %q: %v", username, err)
	}
	return u
}

// CreateGroup creates a group with the given slug.
func (f *Fixtures) CreateGroup(ctx context.Context, slug string) *models.Group {
	f.t.Helper()
	g := &models.Group{Title: "Group " + slug, Description: "Test description", Slug: slug}
	if err := f.db.WithContext(ctx).Create(g).Error; err != nil {
		f.t.Fatalf("create group %q: %v", slug, err)
	}
	return g
}

// CreatePost creates a post one minute newer than the previous fixture row.
func (f *Fixtures) CreatePost(ctx context.Context, author *models.User, text string, group *models.Group) *models.Post {
	f.t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID, CreatedAt: f.tick()}
	if group != nil {
		p.GroupID = &group.ID
	}
	if err := f.db.WithContext(ctx).Omit("Author", "Group").Create(p).Error; err != nil {
		f.t.Fatalf("create post: %v", err)
	}
	return p
}

// CreateComment creates a comment one minute newer than the previous fixture row.
func (f *Fixtures) CreateComment(ctx context.Context, author *models.User, post *models.Post, text string) *models.Comment {
	f.t.Helper()
	c := &models.Comment{Text: text, AuthorID: author.ID, PostID: post.ID, CreatedAt: f.tick()}
	if err := f.db.WithContext(ctx).Omit("Author", "Post").Create(c).Error; err != nil {
		f.t.Fatalf("create comment: %v", err)
	}
	return c
}

// Follow records that user follows author.
func (f *Fixtures) Follow(ctx context.Context, user, author *models.User) {
	f.t.Helper()
	if err := f.db.WithContext(ctx).Omit("User", "Author").Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error; err != nil {
		f.t.Fatalf("create follow: %v", err)
	}
}
