package services_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/anonto42/yatube/backend/internal/testutil"
	"gorm.io/gorm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// memStore is an in-memory BlobStore.
type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
	n     int
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (m *memStore) Store(_ context.Context, data []byte, filename string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	ref := fmt.Sprintf("%s%d%s", repositories.ImagePrefix, m.n, filepath.Ext(filename))
	m.files[ref] = data
	return ref, nil
}

func (m *memStore) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, ref)
	return nil
}

func (m *memStore) Open(_ context.Context, ref string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[ref]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return data, nil
}

type env struct {
	db            *gorm.DB
	fx            *testutil.Fixtures
	blog          *services.BlogService
	notifications *services.NotificationService
	images        *memStore
	ctx           context.Context
}

func setup(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)

	images := newMemStore()
	notifications := services.NewNotificationService(repositories.NewPostgresNotificationRepository(db), 10)
	blog := services.NewBlogService(services.Repositories{
		Users:    repositories.NewPostgresUserRepository(db),
		Groups:   repositories.NewPostgresGroupRepository(db),
		Posts:    repositories.NewPostgresPostRepository(db),
		Comments: repositories.NewPostgresCommentRepository(db),
		Follows:  repositories.NewPostgresFollowRepository(db),
	}, images, notifications, services.DefaultLimits())

	return &env{
		db:            db,
		fx:            testutil.NewFixtures(t, db),
		blog:          blog,
		notifications: notifications,
		images:        images,
		ctx:           ctx,
	}
}

func (e *env) count(model interface{}) int64 {
	var n int64
	e.db.Model(model).Count(&n)
	return n
}

func (e *env) postCount() int64 { return e.count(&models.Post{}) }
