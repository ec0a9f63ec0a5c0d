package services

import (
	"context"
	"strings"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/policy"
	"go.uber.org/zap"
)

// ListGroups returns every group ordered by title.
func (s *BlogService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groups.ListGroups(ctx)
}

// CreateGroup adds a group. Only administrators may create groups.
func (s *BlogService) CreateGroup(ctx context.Context, actor *models.Identity, in models.CreateGroupRequest) (*models.Group, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Invalid("title", "must not be empty")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		return nil, apperr.Invalid("slug", "must not be empty")
	}
	group := &models.Group{Title: title, Description: in.Description, Slug: slug}
	if err := s.groups.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	zap.L().Info("group created", zap.String("slug", group.Slug))
	return group, nil
}

// DeleteGroup removes a group; its posts remain without a group.
func (s *BlogService) DeleteGroup(ctx context.Context, actor *models.Identity, slug string) error {
	if err := policy.RequireAdmin(actor); err != nil {
		return err
	}
	group, err := s.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.groups.DeleteGroup(ctx, group.ID); err != nil {
		return err
	}
	zap.L().Info("group deleted", zap.String("slug", slug))
	return nil
}

// DeleteAccount removes the actor's own user record and everything it authored.
func (s *BlogService) DeleteAccount(ctx context.Context, actor *models.Identity) error {
	if err := policy.RequireActor(actor); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, actor.UserID); err != nil {
		return err
	}
	zap.L().Info("account deleted", zap.Uint("user_id", actor.UserID))
	return nil
}
