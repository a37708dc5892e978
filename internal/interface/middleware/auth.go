package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*helpers.Claims, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func BearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Auth validates the bearer token and sets userID (int64) and userEmail in
// the Gin context. Missing or expired tokens get 401, anything else 403.
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "access token required", nil)
			c.Abort()
			return
		}
		claims, err := v.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrTokenExpired) {
				response.Error[any](c, http.StatusUnauthorized, "token expired", nil)
			} else {
				response.Error[any](c, http.StatusForbidden, "invalid token", nil)
			}
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth, or 0.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}
