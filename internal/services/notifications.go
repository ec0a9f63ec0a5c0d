package services

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/pagination"
	"github.com/anonto42/yatube/backend/internal/policy"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"go.uber.org/zap"
)

// NotificationService records and serves per-user notifications.
type NotificationService struct {
	repo     repositories.NotificationRepository
	pageSize int
}

func NewNotificationService(repo repositories.NotificationRepository, pageSize int) *NotificationService {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	return &NotificationService{repo: repo, pageSize: pageSize}
}

// Notify stores n. Failures are logged and never reach the caller, so a
// notification problem cannot undo the mutation that triggered it.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) {
	if s == nil {
		return
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		zap.L().Warn("notification not recorded",
			zap.String("type", n.Type),
			zap.Uint("recipient_id", n.RecipientID),
			zap.Error(err))
	}
}

// List pages through the actor's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actor *models.Identity, page int) (pagination.Page[models.Notification], error) {
	if err := policy.RequireActor(actor); err != nil {
		return pagination.Page[models.Notification]{}, err
	}
	id := actor.UserID
	src := pagination.SourceFuncs[models.Notification]{
		CountFunc: func(ctx context.Context) (int64, error) {
			return s.repo.CountByRecipientID(ctx, id)
		},
		FetchFunc: func(ctx context.Context, offset, limit int) ([]models.Notification, error) {
			return s.repo.ListByRecipientID(ctx, id, offset, limit)
		},
	}
	return pagination.Paginate[models.Notification](ctx, src, s.pageSize, page)
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor *models.Identity) (int64, error) {
	if err := policy.RequireActor(actor); err != nil {
		return 0, err
	}
	return s.repo.GetUnreadCount(ctx, actor.UserID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, actor *models.Identity, id uint) error {
	if err := policy.RequireActor(actor); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, actor.UserID, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, actor *models.Identity) error {
	if err := policy.RequireActor(actor); err != nil {
		return err
	}
	return s.repo.MarkAllAsRead(ctx, actor.UserID)
}
