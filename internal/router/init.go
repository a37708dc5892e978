package router

import (
	"github.com/oksasatya/go-task-manager/internal/container"
	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/internal/router/modules"
)

// InitModules builds services and handlers from c and registers every module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	authSvc := c.AuthService()
	taskSvc := c.TaskService()

	var allow middleware.AllowFunc
	if c.Config.RateLimitBypassPrivate {
		allow = middleware.AllowPrivateIP()
	}
	rdb := c.Redis
	if !c.Config.RateLimitEnabled {
		rdb = nil
	}

	r.Use(middleware.Metrics())

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(c.Pingers(), c.Logger)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, c.Logger), rdb, allow))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, c.Logger), authSvc, rdb, allow))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
