package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/response"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// TaskHandler serves /api/tasks. Every route runs behind middleware.Auth.
type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

// taskID parses :id. Malformed ids are reported like missing tasks.
func (h *TaskHandler) taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, h.Logger, application.ErrTaskNotFound)
		return 0, false
	}
	return id, true
}

// List GET /api/tasks?filter=&sort=
func (h *TaskHandler) List(c *gin.Context) {
	var q listTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	tasks, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), application.ListOptions{
		Filter: entity.Filter(q.Filter),
		Sort:   entity.SortKey(q.Sort),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": toTaskResponses(tasks)}, "tasks", gin.H{"count": len(tasks)})
}

// Search GET /api/tasks/search?q=&size=
func (h *TaskHandler) Search(c *gin.Context) {
	var q searchTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	tasks, err := h.Svc.Search(c.Request.Context(), middleware.UserID(c), q.Q, q.Size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": toTaskResponses(tasks)}, "search results", gin.H{"count": len(tasks)})
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	t, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": toTaskResponse(t)}, "task", nil)
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in := application.CreateTaskInput{Title: req.Title, Description: req.Description}
	if req.DueDate != nil {
		in.DueDate, _ = validation.ParseDate(*req.DueDate)
	}
	if req.Priority != nil {
		in.Priority = entity.Priority(*req.Priority)
	}
	t, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"task": toTaskResponse(t)}, "task created", nil)
}

// Update PUT /api/tasks/:id with any subset of the task fields.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), id, req.patch())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": toTaskResponse(t)}, "task updated", nil)
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "task deleted"}, "task deleted", nil)
}

// Stats GET /api/tasks/stats/summary
func (h *TaskHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": toStatsResponse(st)}, "task statistics", nil)
}
