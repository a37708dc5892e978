package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/pkg/response"
)

// Check probes one backing dependency.
type Check = func(ctx context.Context) error

type HealthHandler struct {
	Checks  map[string]Check
	Timeout time.Duration
	Logger  *logrus.Logger
}

func NewHealthHandler(checks map[string]Check, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{Checks: checks, Timeout: 2 * time.Second, Logger: logger}
}

// Health GET /api/health reports "ok" or "unavailable" per dependency.
// Failure details go to the log only; the endpoint is public.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.Checks))
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			h.Logger.WithError(err).WithField("dependency", name).Warn("health check failed")
			deps[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}
	if status != http.StatusOK {
		response.Error[any](c, status, "degraded", deps)
		return
	}
	response.Success(c, status, gin.H{"status": "ok", "dependencies": deps}, "healthy", nil)
}
