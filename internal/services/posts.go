package services

import (
	"context"
	"fmt"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/policy"
	"go.uber.org/zap"
)

// PostInput carries the author-editable fields of a post.
type PostInput struct {
	Text    string
	GroupID *uint
	Image   *Upload
	// ClearImage drops the stored image on edit when no new Image is given.
	ClearImage bool
}

// PostDetail is a single post with its comments, oldest first.
type PostDetail struct {
	Post            *models.Post     `json:"post"`
	Comments        []models.Comment `json:"comments"`
	AuthorPostCount int64            `json:"author_post_count"`
}

// CreatePost publishes a new post authored by actor.
func (s *BlogService) CreatePost(ctx context.Context, actor *models.Identity, in PostInput) (*models.Post, error) {
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	text, err := s.cleanText("text", in.Text, s.limits.PostMaxLength)
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{Text: text, GroupID: in.GroupID, AuthorID: actor.UserID}
	if in.Image != nil {
		if post.Image, err = s.storeImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.discardImage(ctx, post.Image)
		return nil, err
	}
	zap.L().Info("post created", zap.Uint("post_id", post.ID), zap.Uint("author_id", actor.UserID))
	return s.posts.GetPostByID(ctx, post.ID)
}

// EditPost replaces text, group and image of a post owned by actor. Anyone
// else gets apperr.ErrForbidden and the stored post is left untouched.
func (s *BlogService) EditPost(ctx context.Context, actor *models.Identity, postID uint, in PostInput) (*models.Post, error) {
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, post); err != nil {
		return nil, fmt.Errorf("edit post %d: %w", postID, err)
	}
	text, err := s.cleanText("text", in.Text, s.limits.PostMaxLength)
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	image := post.Image
	switch {
	case in.Image != nil:
		if image, err = s.storeImage(ctx, in.Image); err != nil {
			return nil, err
		}
	case in.ClearImage:
		image = ""
	}

	update := &models.Post{ID: post.ID, AuthorID: post.AuthorID, Text: text, GroupID: in.GroupID, Image: image}
	if err := s.posts.UpdatePost(ctx, update); err != nil {
		if image != post.Image {
			s.discardImage(ctx, image)
		}
		return nil, err
	}
	return s.posts.GetPostByID(ctx, post.ID)
}

// GetPost returns a post with its comments and the author's post count.
func (s *BlogService) GetPost(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.CountPosts(ctx, authorFilter(post.AuthorID))
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, AuthorPostCount: count}, nil
}

func (s *BlogService) checkGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	_, err := s.groups.GetGroupByID(ctx, *groupID)
	return err
}

func (s *BlogService) storeImage(ctx context.Context, u *Upload) (string, error) {
	if err := s.checkUpload(u); err != nil {
		return "", err
	}
	return s.images.Store(ctx, u.Data, u.Filename)
}

// discardImage removes a blob stored for a post write that then failed.
func (s *BlogService) discardImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		zap.L().Warn("orphaned post image", zap.String("ref", ref), zap.Error(err))
	}
}

// OpenImage reads a stored post image by reference.
func (s *BlogService) OpenImage(ctx context.Context, ref string) ([]byte, error) {
	if s.images == nil {
		return nil, fmt.Errorf("image %q: %w", ref, apperr.ErrNotFound)
	}
	return s.images.Open(ctx, ref)
}
