package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// TaskRepository stores tasks. Every method is scoped by the owning user id;
// a task owned by someone else is reported as ErrNotFound.
type TaskRepository interface {
	// ListByOwner returns the owner's tasks in the default listing order.
	ListByOwner(ctx context.Context, userID int64) ([]entity.Task, error)
	GetByID(ctx context.Context, userID, id int64) (*entity.Task, error)
	// Create inserts t and fills its generated id, status and timestamps.
	Create(ctx context.Context, t *entity.Task) error
	// Update writes the present fields of patch and returns the refreshed row.
	Update(ctx context.Context, userID, id int64, patch entity.TaskPatch) (*entity.Task, error)
	Delete(ctx context.Context, userID, id int64) error
	Stats(ctx context.Context, userID int64, today time.Time) (entity.TaskStats, error)
}
