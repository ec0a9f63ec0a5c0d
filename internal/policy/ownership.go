// Package policy decides whether an actor may mutate a resource.
package policy

import (
	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
)

// Owned is a resource with a single owning user.
type Owned interface {
	OwnerID() uint
}

// RequireActor fails with ErrUnauthenticated for anonymous actors.
func RequireActor(actor *models.Identity) error {
	if actor == nil || actor.UserID == 0 {
		return apperr.ErrUnauthenticated
	}
	return nil
}

// Authorize allows only the owner of res to mutate it.
func Authorize(actor *models.Identity, res Owned) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if actor.UserID != res.OwnerID() {
		return apperr.ErrForbidden
	}
	return nil
}

// RequireAdmin allows only administrators.
func RequireAdmin(actor *models.Identity) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if !actor.IsAdmin {
		return apperr.ErrForbidden
	}
	return nil
}

// CanFollow reports whether a follow edge from actor to authorID should exist.
// Following yourself is never recorded.
func CanFollow(actor *models.Identity, authorID uint) bool {
	return actor != nil && actor.UserID != authorID
}
