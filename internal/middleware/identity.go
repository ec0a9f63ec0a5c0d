package middleware

import (
	"context"
	"strings"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ActorKey is the echo context key holding the *models.Identity of the request.
const ActorKey = "actor"

// UserLookup resolves identities to stored users.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
}

// ActorFromContext returns the authenticated actor, or nil for anonymous requests.
func ActorFromContext(c echo.Context) *models.Identity {
	actor, _ := c.Get(ActorKey).(*models.Identity)
	return actor
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
// ok is false when the header is absent; malformed is true when present but unusable.
func bearerToken(c echo.Context) (token string, ok, malformed bool) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", false, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", true, true
	}
	return parts[1], true, false
}
