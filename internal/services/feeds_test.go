package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anonto42/yatube/backend/internal/apperr"
)

func TestGlobalFeedPagination(t *testing.T) {
	e := setup(t)
	author := e.fx.CreateUser(e.ctx, "leo")
	for i := 1; i <= 13; i++ {
		e.fx.CreatePost(e.ctx, author, fmt.Sprintf("post %d", i), nil)
	}

	cases := []struct {
		requested int
		number    int
		items     int
		firstText string
	}{
		{1, 1, 10, "post 13"},
		{2, 2, 3, "post 3"},
		{0, 1, 10, "post 13"},
		{-4, 1, 10, "post 13"},
		{99, 2, 3, "post 3"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("page %d", tc.requested), func(t *testing.T) {
			page, err := e.blog.GlobalFeed(e.ctx, tc.requested)
			if err != nil {
				t.Fatalf("GlobalFeed: %v", err)
			}
			if page.Number != tc.number || page.NumPages != 2 || page.Count != 13 {
				t.Errorf("page = %d of %d (%d items total), want %d of 2 (13)", page.Number, page.NumPages, page.Count, tc.number)
			}
			if len(page.Items) != tc.items {
				t.Fatalf("got %d items, want %d", len(page.Items), tc.items)
			}
			if page.Items[0].Text != tc.firstText {
				t.Errorf("first item = %q, want %q", page.Items[0].Text, tc.firstText)
			}
		})
	}
}

func TestEmptyFeedHasOnePage(t *testing.T) {
	e := setup(t)

	page, err := e.blog.GlobalFeed(e.ctx, 3)
	if err != nil {
		t.Fatalf("GlobalFeed: %v", err)
	}
	if page.Number != 1 || page.NumPages != 1 || len(page.Items) != 0 {
		t.Errorf("page = %+v, want the single empty page", page)
	}
	if page.Items == nil {
		t.Error("Items is nil, want an empty slice")
	}
}

func TestGroupFeed(t *testing.T) {
	e := setup(t)
	author := e.fx.CreateUser(e.ctx, "leo")
	cats := e.fx.CreateGroup(e.ctx, "cats")
	e.fx.CreateGroup(e.ctx, "dogs")
	e.fx.CreatePost(e.ctx, author, "cat post", cats)
	e.fx.CreatePost(e.ctx, author, "no group", nil)

	group, page, err := e.blog.GroupFeed(e.ctx, "cats", 1)
	if err != nil {
		t.Fatalf("GroupFeed: %v", err)
	}
	if group.Slug != "cats" || page.Count != 1 || page.Items[0].Text != "cat post" {
		t.Errorf("group %q page = %+v", group.Slug, page)
	}

	_, page, err = e.blog.GroupFeed(e.ctx, "dogs", 1)
	if err != nil {
		t.Fatalf("GroupFeed(dogs): %v", err)
	}
	if page.Count != 0 {
		t.Errorf("dogs has %d posts, want 0", page.Count)
	}

	if _, _, err := e.blog.GroupFeed(e.ctx, "birds", 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown group: err = %v, want ErrNotFound", err)
	}
}

func TestAuthorFeed(t *testing.T) {
	e := setup(t)
	leo := e.fx.CreateUser(e.ctx, "leo")
	ann := e.fx.CreateUser(e.ctx, "ann")
	e.fx.CreatePost(e.ctx, leo, "one", nil)
	e.fx.CreatePost(e.ctx, leo, "two", nil)
	e.fx.CreatePost(e.ctx, ann, "other", nil)
	e.fx.Follow(e.ctx, ann, leo)

	prof, err := e.blog.AuthorFeed(e.ctx, ann.Identity(), "leo", 1)
	if err != nil {
		t.Fatalf("AuthorFeed: %v", err)
	}
	if prof.PostCount != 2 || len(prof.Page.Items) != 2 {
		t.Errorf("PostCount = %d, items = %d, want 2", prof.PostCount, len(prof.Page.Items))
	}
	if !prof.Following {
		t.Error("Following = false, want true")
	}
	if prof.FollowersCount != 1 || prof.FollowingCount != 0 {
		t.Errorf("followers/following = %d/%d, want 1/0", prof.FollowersCount, prof.FollowingCount)
	}

	anon, err := e.blog.AuthorFeed(e.ctx, nil, "leo", 1)
	if err != nil {
		t.Fatalf("AuthorFeed anonymous: %v", err)
	}
	if anon.Following {
		t.Error("anonymous viewer reported as following")
	}

	if _, err := e.blog.AuthorFeed(e.ctx, nil, "ghost", 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown author: err = %v, want ErrNotFound", err)
	}
}

func TestFollowFeed(t *testing.T) {
	e := setup(t)
	leo := e.fx.CreateUser(e.ctx, "leo")
	ann := e.fx.CreateUser(e.ctx, "ann")
	bob := e.fx.CreateUser(e.ctx, "bob")
	e.fx.CreatePost(e.ctx, leo, "by leo", nil)
	e.fx.CreatePost(e.ctx, bob, "by bob", nil)

	if err := e.blog.Follow(e.ctx, ann.Identity(), "leo"); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	page, err := e.blog.FollowFeed(e.ctx, ann.Identity(), 1)
	if err != nil {
		t.Fatalf("FollowFeed: %v", err)
	}
	if page.Count != 1 || page.Items[0].Text != "by leo" {
		t.Errorf("ann's follow feed = %+v, want only leo's post", page.Items)
	}

	bobPage, err := e.blog.FollowFeed(e.ctx, bob.Identity(), 1)
	if err != nil {
		t.Fatalf("FollowFeed: %v", err)
	}
	if bobPage.Count != 0 {
		t.Errorf("bob follows nobody but sees %d posts", bobPage.Count)
	}

	if _, err := e.blog.FollowFeed(e.ctx, nil, 1); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("anonymous: err = %v, want ErrUnauthenticated", err)
	}

	if err := e.blog.Unfollow(e.ctx, ann.Identity(), "leo"); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	page, err = e.blog.FollowFeed(e.ctx, ann.Identity(), 1)
	if err != nil {
		t.Fatalf("FollowFeed: %v", err)
	}
	if page.Count != 0 {
		t.Errorf("after unfollow ann sees %d posts, want 0", page.Count)
	}
}
