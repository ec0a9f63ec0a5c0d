package services

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/policy"
)

// AddComment records a comment by actor on the post.
func (s *BlogService) AddComment(ctx context.Context, actor *models.Identity, postID uint, text string) (*models.Comment, error) {
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	text, err = s.cleanText("text", text, s.limits.CommentMaxLength)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: post.ID, AuthorID: actor.UserID, Text: text}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if post.AuthorID != actor.UserID {
		s.notifier.Notify(ctx, &models.Notification{
			Type:        models.NotificationComment,
			ActorID:     actor.UserID,
			RecipientID: post.AuthorID,
			TargetID:    post.ID,
			TargetType:  "post",
			Message:     actor.Username + " commented on your post",
		})
	}
	return comment, nil
}
