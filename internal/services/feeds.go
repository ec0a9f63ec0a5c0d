package services

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/pagination"
	"github.com/anonto42/yatube/backend/internal/policy"
	"github.com/anonto42/yatube/backend/internal/repositories"
)

// PostPage is one page of a feed, newest post first.
type PostPage = pagination.Page[models.Post]

// Profile is an author's page: the author, their posts, follow counts and
// whether the viewer follows them.
type Profile struct {
	Author         *models.User `json:"author"`
	PostCount      int64        `json:"post_count"`
	FollowersCount int64        `json:"followers_count"`
	FollowingCount int64        `json:"following_count"`
	Following      bool         `json:"following"`
	Page           PostPage     `json:"-"`
}

func authorFilter(id uint) repositories.PostFilter {
	return repositories.PostFilter{AuthorID: &id}
}

func (s *BlogService) postSource(f repositories.PostFilter) pagination.Source[models.Post] {
	return pagination.SourceFuncs[models.Post]{
		CountFunc: func(ctx context.Context) (int64, error) {
			return s.posts.CountPosts(ctx, f)
		},
		FetchFunc: func(ctx context.Context, offset, limit int) ([]models.Post, error) {
			return s.posts.ListPosts(ctx, f, offset, limit)
		},
	}
}

func (s *BlogService) feed(ctx context.Context, f repositories.PostFilter, page int) (PostPage, error) {
	return pagination.Paginate(ctx, s.postSource(f), s.limits.PageSize, page)
}

// GlobalFeed pages through every post.
func (s *BlogService) GlobalFeed(ctx context.Context, page int) (PostPage, error) {
	return s.feed(ctx, repositories.PostFilter{}, page)
}

// GroupFeed pages through the posts of the group with the given slug.
func (s *BlogService) GroupFeed(ctx context.Context, slug string, page int) (*models.Group, PostPage, error) {
	group, err := s.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, PostPage{}, err
	}
	id := group.ID
	p, err := s.feed(ctx, repositories.PostFilter{GroupID: &id}, page)
	if err != nil {
		return nil, PostPage{}, err
	}
	return group, p, nil
}

// AuthorFeed pages through the posts of the named author. actor may be nil.
func (s *BlogService) AuthorFeed(ctx context.Context, actor *models.Identity, username string, page int) (*Profile, error) {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	p, err := s.feed(ctx, authorFilter(author.ID), page)
	if err != nil {
		return nil, err
	}
	prof := &Profile{Author: author, PostCount: p.Count, Page: p}
	if prof.FollowersCount, err = s.follows.GetFollowersCount(ctx, author.ID); err != nil {
		return nil, err
	}
	if prof.FollowingCount, err = s.follows.GetFollowingCount(ctx, author.ID); err != nil {
		return nil, err
	}
	if actor != nil && actor.UserID != author.ID {
		if prof.Following, err = s.follows.IsFollowing(ctx, actor.UserID, author.ID); err != nil {
			return nil, err
		}
	}
	return prof, nil
}

// FollowFeed pages through the posts of every author actor follows.
func (s *BlogService) FollowFeed(ctx context.Context, actor *models.Identity, page int) (PostPage, error) {
	if err := policy.RequireActor(actor); err != nil {
		return PostPage{}, err
	}
	id := actor.UserID
	return s.feed(ctx, repositories.PostFilter{FollowerID: &id}, page)
}
