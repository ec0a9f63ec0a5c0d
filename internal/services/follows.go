package services

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/policy"
	"go.uber.org/zap"
)

// Follow subscribes actor to the author's posts. Following yourself or an
// author you already follow is a no-op.
func (s *BlogService) Follow(ctx context.Context, actor *models.Identity, username string) error {
	if err := policy.RequireActor(actor); err != nil {
		return err
	}
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !policy.CanFollow(actor, author.ID) {
		return nil
	}
	created, err := s.follows.CreateIfAbsent(ctx, actor.UserID, author.ID)
	if err != nil {
		return err
	}
	if created {
		zap.L().Info("follow created", zap.Uint("user_id", actor.UserID), zap.Uint("author_id", author.ID))
		s.notifier.Notify(ctx, &models.Notification{
			Type:        models.NotificationFollow,
			ActorID:     actor.UserID,
			RecipientID: author.ID,
			TargetID:    actor.UserID,
			TargetType:  "user",
			Message:     actor.Username + " started following you",
		})
	}
	return nil
}

// Unfollow removes the subscription if it exists.
func (s *BlogService) Unfollow(ctx context.Context, actor *models.Identity, username string) error {
	if err := policy.RequireActor(actor); err != nil {
		return err
	}
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.follows.DeleteFollow(ctx, actor.UserID, author.ID)
}
