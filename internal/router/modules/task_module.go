package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
)

// TaskModule registers the owner-scoped /tasks routes behind bearer auth.
type TaskModule struct {
	Handler  *handlers.TaskHandler
	Verifier middleware.TokenVerifier
	RDB      *redis.Client
	Allow    middleware.AllowFunc
}

func NewTaskModule(h *handlers.TaskHandler, v middleware.TokenVerifier, rdb *redis.Client, allow middleware.AllowFunc) *TaskModule {
	return &TaskModule{Handler: h, Verifier: v, RDB: rdb, Allow: allow}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(middleware.Auth(m.Verifier))
	tasks.Use(middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByUserID(), m.Allow))
	{
		tasks.GET("", m.Handler.List)
		tasks.POST("", m.Handler.Create)
		tasks.GET("/search", m.Handler.Search)
		tasks.GET("/stats/summary", m.Handler.Stats)
		tasks.GET("/:id", m.Handler.Get)
		tasks.PUT("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
