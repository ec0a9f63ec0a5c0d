package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/testutil"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memStore) Store(_ context.Context, data []byte, filename string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := fmt.Sprintf("posts/%d-%s", len(m.files)+1, filename)
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
	if data, ok := m.files[ref]; ok {
		return data, nil
	}
	return nil, apperr.ErrNotFound
}

type server struct {
	e     *echo.Echo
	db    *gorm.DB
	fx    *testutil.Fixtures
	clock *fakeClock
	ctx   context.Context
}

func newServer(t *testing.T) *server {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)

	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	e := echo.New()
	err := SetupRoutes(e, Deps{
		Postgres:  db,
		Images:    &memStore{files: make(map[string][]byte)},
		JWTSecret: testSecret,
		Now:       clock.Now,
	})
	if err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}
	return &server{e: e, db: db, fx: testutil.NewFixtures(t, db), clock: clock, ctx: ctx}
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func (s *server) do(method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestIndexIsCachedForTTL(t *testing.T) {
	s := newServer(t)
	author := s.fx.CreateUser(s.ctx, "leo")
	token := tokenFor(t, author)

	first := s.do(http.MethodGet, "/api/v1/posts", "", "")
	if first.Code != http.StatusOK || first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first index: status %d, X-Cache %q", first.Code, first.Header().Get("X-Cache"))
	}

	created := s.do(http.MethodPost, "/api/v1/posts", `{"text":"fresh post"}`, token)
	if created.Code != http.StatusCreated {
		t.Fatalf("create post: status %d, body %s", created.Code, created.Body)
	}

	s.clock.Advance(19 * time.Second)
	stale := s.do(http.MethodGet, "/api/v1/posts", "", "")
	if stale.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("X-Cache = %q, want HIT within the TTL", stale.Header().Get("X-Cache"))
	}
	if strings.Contains(stale.Body.String(), "fresh post") {
		t.Error("cached index already shows the new post")
	}
	if stale.Body.String() != first.Body.String() {
		t.Error("cached body differs from the first response")
	}

	// other listings are never cached
	profile := s.do(http.MethodGet, "/api/v1/profile/leo/posts", "", "")
	if !strings.Contains(profile.Body.String(), "fresh post") {
		t.Error("profile feed does not show the new post")
	}

	s.clock.Advance(2 * time.Second)
	fresh := s.do(http.MethodGet, "/api/v1/posts", "", "")
	if fresh.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("X-Cache = %q, want MISS after the TTL", fresh.Header().Get("X-Cache"))
	}
	if !strings.Contains(fresh.Body.String(), "fresh post") {
		t.Error("index does not show the new post after the TTL")
	}
}

func TestIndexPagination(t *testing.T) {
	s := newServer(t)
	author := s.fx.CreateUser(s.ctx, "leo")
	for i := 1; i <= 13; i++ {
		s.fx.CreatePost(s.ctx, author, fmt.Sprintf("post %d", i), nil)
	}

	var body struct {
		Data struct {
			Posts []models.Post `json:"posts"`
		} `json:"data"`
		Meta struct {
			CurrentPage int `json:"currentPage"`
			TotalPages  int `json:"totalPages"`
		} `json:"meta"`
	}
	for _, tc := range []struct {
		query string
		page  int
		items int
	}{
		{"", 1, 10},
		{"?page=2", 2, 3},
		{"?page=abc", 1, 10},
		{"?page=50", 2, 3},
	} {
		rec := s.do(http.MethodGet, "/api/v1/posts"+tc.query, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%q: status %d", tc.query, rec.Code)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%q: decode: %v", tc.query, err)
		}
		if body.Meta.CurrentPage != tc.page || body.Meta.TotalPages != 2 || len(body.Data.Posts) != tc.items {
			t.Errorf("%q: page %d/%d with %d posts, want %d/2 with %d",
				tc.query, body.Meta.CurrentPage, body.Meta.TotalPages, len(body.Data.Posts), tc.page, tc.items)
		}
	}
}

func TestPostAuthorIsCompact(t *testing.T) {
	s := newServer(t)
	author := s.fx.CreateUser(s.ctx, "leo")
	reader := s.fx.CreateUser(s.ctx, "ann")
	post := s.fx.CreatePost(s.ctx, author, "hello", nil)
	s.fx.CreateComment(s.ctx, reader, post, "hi")

	for _, target := range []string{
		"/api/v1/posts",
		fmt.Sprintf("/api/v1/posts/%d", post.ID),
		"/api/v1/profile/leo/posts",
	} {
		rec := s.do(http.MethodGet, target, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", target, rec.Code)
		}
		body := rec.Body.String()
		for _, field := range []string{`"email"`, `"firebase_uid"`, `"is_admin"`} {
			if strings.Contains(body, field) {
				t.Errorf("%s: body exposes %s: %s", target, field, body)
			}
		}
		if !strings.Contains(body, `"username":"leo"`) {
			t.Errorf("%s: author username missing: %s", target, body)
		}
	}
}

func TestEditByOtherUserRedirects(t *testing.T) {
	s := newServer(t)
	author := s.fx.CreateUser(s.ctx, "leo")
	other := s.fx.CreateUser(s.ctx, "ann")
	post := s.fx.CreatePost(s.ctx, author, "original", nil)
	target := fmt.Sprintf("/api/v1/posts/%d", post.ID)

	rec := s.do(http.MethodPut, target, `{"text":"hijacked"}`, tokenFor(t, other))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != target {
		t.Errorf("Location = %q, want %q", loc, target)
	}

	anon := s.do(http.MethodPut, target, `{"text":"hijacked"}`, "")
	if anon.Code != http.StatusUnauthorized {
		t.Errorf("anonymous edit: status = %d, want 401", anon.Code)
	}

	var stored models.Post
	s.db.First(&stored, post.ID)
	if stored.Text != "original" {
		t.Errorf("Text = %q, want unchanged", stored.Text)
	}

	ok := s.do(http.MethodPut, target, `{"text":"edited"}`, tokenFor(t, author))
	if ok.Code != http.StatusOK {
		t.Fatalf("author edit: status %d, body %s", ok.Code, ok.Body)
	}
	s.db.First(&stored, post.ID)
	if stored.Text != "edited" {
		t.Errorf("Text = %q, want edited", stored.Text)
	}
}

func TestMutationsRequireIdentity(t *testing.T) {
	s := newServer(t)
	author := s.fx.CreateUser(s.ctx, "leo")
	post := s.fx.CreatePost(s.ctx, author, "post", nil)

	for _, tc := range []struct {
		method, target, body string
	}{
		{http.MethodPost, "/api/v1/posts", `{"text":"hi"}`},
		{http.MethodPost, "/api/v1/posts", `{}`},
		{http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), `{"text":"hi"}`},
		{http.MethodPost, "/api/v1/profile/leo/follow", ""},
		{http.MethodDelete, "/api/v1/profile/leo/follow", ""},
		{http.MethodGet, "/api/v1/follow/posts", ""},
		{http.MethodDelete, "/api/v1/account", ""},
	} {
		rec := s.do(tc.method, tc.target, tc.body, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", tc.method, tc.target, rec.Code)
		}
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/api/v1/posts", "", "not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCreatePostValidationError(t *testing.T) {
	s := newServer(t)
	author := s.fx.CreateUser(s.ctx, "leo")

	rec := s.do(http.MethodPost, "/api/v1/posts", `{"text":"   "}`, tokenFor(t, author))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["field"] != "text" {
		t.Errorf("field = %v, want text", body["field"])
	}
}

func TestCommentAndFollowFlow(t *testing.T) {
	s := newServer(t)
	author := s.fx.CreateUser(s.ctx, "leo")
	reader := s.fx.CreateUser(s.ctx, "ann")
	post := s.fx.CreatePost(s.ctx, author, "post", nil)
	token := tokenFor(t, reader)

	rec := s.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), `{"text":"great"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("comment: status %d, body %s", rec.Code, rec.Body)
	}
	detail := s.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), "", "")
	if !strings.Contains(detail.Body.String(), "great") {
		t.Error("post detail does not show the comment")
	}

	for i := 0; i < 2; i++ {
		if rec := s.do(http.MethodPost, "/api/v1/profile/leo/follow", "", token); rec.Code != http.StatusOK {
			t.Fatalf("follow #%d: status %d", i+1, rec.Code)
		}
	}
	var follows int64
	s.db.Model(&models.Follow{}).Count(&follows)
	if follows != 1 {
		t.Errorf("follows = %d, want 1", follows)
	}

	feed := s.do(http.MethodGet, "/api/v1/follow/posts", "", token)
	if feed.Code != http.StatusOK || !strings.Contains(feed.Body.String(), `"text":"post"`) {
		t.Errorf("follow feed: status %d, body %s", feed.Code, feed.Body)
	}

	unread := s.do(http.MethodGet, "/api/v1/notifications/unread-count", "", tokenFor(t, author))
	if !strings.Contains(unread.Body.String(), `"count":2`) {
		t.Errorf("unread count body = %s, want count 2", unread.Body)
	}
}

func TestSignupAndSignin(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/api/v1/auth/signup",
		`{"username":"leo","email":"leo@example.com","password":"password123"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: status %d, body %s", rec.Code, rec.Body)
	}

	dup := s.do(http.MethodPost, "/api/v1/auth/signup",
		`{"username":"leo","email":"other@example.com","password":"password123"}`, "")
	if dup.Code != http.StatusConflict {
		t.Errorf("duplicate signup: status %d, want 409", dup.Code)
	}

	bad := s.do(http.MethodPost, "/api/v1/auth/signin", `{"email":"leo@example.com","password":"wrong-password"}`, "")
	if bad.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status %d, want 401", bad.Code)
	}

	ok := s.do(http.MethodPost, "/api/v1/auth/signin", `{"email":"leo@example.com","password":"password123"}`, "")
	if ok.Code != http.StatusOK {
		t.Fatalf("signin: status %d, body %s", ok.Code, ok.Body)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(ok.Body.Bytes(), &body); err != nil || body.Token == "" {
		t.Fatalf("signin token: %v %q", err, body.Token)
	}

	created := s.do(http.MethodPost, "/api/v1/posts", `{"text":"signed in"}`, body.Token)
	if created.Code != http.StatusCreated {
		t.Errorf("create with issued token: status %d, body %s", created.Code, created.Body)
	}

	invalid := s.do(http.MethodPost, "/api/v1/auth/signup", `{"username":"x y","email":"nope","password":"short"}`, "")
	if invalid.Code != http.StatusBadRequest {
		t.Errorf("invalid signup: status %d, want 400", invalid.Code)
	}
}

func TestFirebaseLoginDisabled(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodPost, "/api/v1/auth/firebase-login", `{"idToken":"abc"}`, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestGroupAdministration(t *testing.T) {
	s := newServer(t)
	admin := s.fx.CreateAdmin(s.ctx, "root")
	user := s.fx.CreateUser(s.ctx, "leo")

	forbidden := s.do(http.MethodPost, "/api/v1/groups", `{"title":"Cats","slug":"cats"}`, tokenFor(t, user))
	if forbidden.Code != http.StatusForbidden {
		t.Errorf("non-admin create: status %d, want 403", forbidden.Code)
	}

	badSlug := s.do(http.MethodPost, "/api/v1/groups", `{"title":"Cats","slug":"no spaces"}`, tokenFor(t, admin))
	if badSlug.Code != http.StatusBadRequest {
		t.Errorf("bad slug: status %d, want 400", badSlug.Code)
	}

	created := s.do(http.MethodPost, "/api/v1/groups", `{"title":"Cats","slug":"cats"}`, tokenFor(t, admin))
	if created.Code != http.StatusCreated {
		t.Fatalf("create group: status %d, body %s", created.Code, created.Body)
	}

	feed := s.do(http.MethodGet, "/api/v1/groups/cats/posts", "", "")
	if feed.Code != http.StatusOK {
		t.Errorf("group feed: status %d", feed.Code)
	}
	missing := s.do(http.MethodGet, "/api/v1/groups/dogs/posts", "", "")
	if missing.Code != http.StatusNotFound {
		t.Errorf("unknown group feed: status %d, want 404", missing.Code)
	}

	deleted := s.do(http.MethodDelete, "/api/v1/groups/cats", "", tokenFor(t, admin))
	if deleted.Code != http.StatusNoContent {
		t.Errorf("delete group: status %d, want 204", deleted.Code)
	}
}

func TestImageUploadAndMedia(t *testing.T) {
	s := newServer(t)
	author := s.fx.CreateUser(s.ctx, "leo")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("text", "with image")
	fw, err := mw.CreateFormFile("image", "cat.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, author))
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: status %d, body %s", rec.Code, rec.Body)
	}

	var body struct {
		Data models.Post `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Image == "" {
		t.Fatal("post has no image reference")
	}

	media := s.do(http.MethodGet, "/media/"+body.Data.Image, "", "")
	if media.Code != http.StatusOK {
		t.Fatalf("media: status %d", media.Code)
	}
	if ct := media.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	if rec := s.do(http.MethodGet, "/media/posts/missing.png", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing media: status %d, want 404", rec.Code)
	}
}

func TestDeleteAccountEndpoint(t *testing.T) {
	s := newServer(t)
	leo := s.fx.CreateUser(s.ctx, "leo")
	s.fx.CreatePost(s.ctx, leo, "bye", nil)
	token := tokenFor(t, leo)

	if rec := s.do(http.MethodDelete, "/api/v1/account", "", token); rec.Code != http.StatusNoContent {
		t.Fatalf("delete account: status %d", rec.Code)
	}
	// the token now names a missing user
	if rec := s.do(http.MethodGet, "/api/v1/posts", "", token); rec.Code != http.StatusUnauthorized {
		t.Errorf("stale token: status %d, want 401", rec.Code)
	}
	var posts int64
	s.db.Model(&models.Post{}).Count(&posts)
	if posts != 0 {
		t.Errorf("posts = %d, want 0", posts)
	}
}
