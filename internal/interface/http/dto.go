package handlers

import (
	"time"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,username"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	DueDate     *string `json:"due_date" binding:"omitempty,dateonly"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// updateTaskRequest uses pointers so absent fields stay nil. An empty
// description or due_date clears the stored value.
type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	DueDate     *string `json:"due_date" binding:"omitempty,dateonly"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
}

func (r updateTaskRequest) patch() entity.TaskPatch {
	var p entity.TaskPatch
	if r.Title != nil {
		p.Title = entity.Some(*r.Title)
	}
	if r.Description != nil {
		p.Description = entity.Some(*r.Description)
	}
	if r.DueDate != nil {
		// already validated by the dateonly tag
		d, _ := validation.ParseDate(*r.DueDate)
		p.DueDate = entity.Some(d)
	}
	if r.Priority != nil {
		p.Priority = entity.Some(entity.Priority(*r.Priority))
	}
	if r.Status != nil {
		p.Status = entity.Some(entity.Status(*r.Status))
	}
	return p
}

type listTasksQuery struct {
	Filter string `form:"filter" binding:"omitempty,oneof=all pending in_progress completed overdue"`
	Sort   string `form:"sort" binding:"omitempty,oneof=default priority due_date created_at title"`
}

type searchTasksQuery struct {
	Q    string `form:"q" binding:"required,max=200"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

type taskResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     *string   `json:"due_date"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTaskResponse(t *entity.Task) taskResponse {
	res := taskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate != nil {
		d := t.DueDate.Format(validation.DateLayout)
		res.DueDate = &d
	}
	return res
}

func toTaskResponses(tasks []entity.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	return out
}

type statsResponse struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	InProgress     int `json:"in_progress"`
	Completed      int `json:"completed"`
	HighPriority   int `json:"high_priority"`
	MediumPriority int `json:"medium_priority"`
	LowPriority    int `json:"low_priority"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completion_rate"`
}

func toStatsResponse(s entity.TaskStats) statsResponse {
	return statsResponse{
		Total:          s.Total,
		Pending:        s.Pending,
		InProgress:     s.InProgress,
		Completed:      s.Completed,
		HighPriority:   s.HighPriority,
		MediumPriority: s.MediumPriority,
		LowPriority:    s.LowPriority,
		Overdue:        s.Overdue,
		CompletionRate: s.CompletionRate(),
	}
}
