package handler

import (
	"context"
	"net/http"
	"strings"

	"launchtracker/internal/domain"
	"launchtracker/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const authUserKey contextKey = "authUser"

// AuthUser is the authenticated principal injected into the request context.
type AuthUser struct {
	ID    int64
	Email string
	Role  domain.UserRole
}

// cookieName is the HTTP-only session cookie the SPA relies on; Bearer
// headers take precedence when both are present.
const cookieName = "token"

// JWTAuthMiddleware validates the session token from the Authorization
// header or the session cookie and injects the user into context.
func JWTAuthMiddleware(authSvc *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				if c, err := r.Cookie(cookieName); err == nil {
					tokenString = c.Value
				}
			}
			if tokenString == "" {
				logger.Debug("auth: missing token", zap.String("path", r.URL.Path))
				writeError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
				return
			}

			claims, err := authSvc.VerifyToken(tokenString)
			if err != nil {
				logger.Debug("auth: invalid token",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
				return
			}

			user := AuthUser{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
			ctx := context.WithValue(r.Context(), authUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route to admin accounts. Runs after JWTAuthMiddleware.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user.Role != domain.RoleAdmin {
				logger.Warn("admin route denied",
					zap.Int64("user_id", user.ID),
					zap.String("path", r.URL.Path),
				)
				handleServiceError(w, &domain.ErrForbidden{Message: "Admin access required"}, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) AuthUser {
	u, _ := ctx.Value(authUserKey).(AuthUser)
	return u
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
