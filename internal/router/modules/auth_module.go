package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
)

// AuthModule registers /auth routes.
// Public: POST /auth/register, POST /auth/login
// Bearer: GET /auth/profile, POST /auth/logout (handlers verify the token themselves)
type AuthModule struct {
	Handler *handlers.AuthHandler
	RDB     *redis.Client
	Allow   middleware.AllowFunc
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client, allow middleware.AllowFunc) *AuthModule {
	return &AuthModule{Handler: h, RDB: rdb, Allow: allow}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), m.Allow)
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), m.Allow)
	profileLimiter := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), m.Allow)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.GET("/profile", profileLimiter, m.Handler.Profile)
	auth.POST("/logout", profileLimiter, m.Handler.Logout)
}
