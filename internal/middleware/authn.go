package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/auth"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// RequireUser rejects requests without a valid bearer token and places the
// resolved user on the request context.
func RequireUser(authService *auth.Service, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}

			user, err := authService.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.WithError(err).Debug("Rejected token")
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
		})
	}
}

// UserFrom extracts the authenticated user from the request context.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}
