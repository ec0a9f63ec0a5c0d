package middleware

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TokenVerifier verifies Firebase ID tokens; *auth.Client implements it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware resolves the actor from a Firebase ID token. The
// Firebase account must already be linked through /auth/firebase-login.
func FirebaseAuthMiddleware(verifier TokenVerifier, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, present, malformed := bearerToken(c)
			if !present {
				return next(c)
			}
			if malformed {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			ctx := c.Request().Context()
			token, err := verifier.VerifyIDToken(ctx, idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			user, err := users.GetUserByFirebaseUID(ctx, token.UID)
			if err != nil {
				zap.L().Debug("firebase account not linked", zap.String("uid", token.UID), zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, "Firebase account is not registered")
			}

			c.Set(ActorKey, user.Identity())
			return next(c)
		}
	}
}
