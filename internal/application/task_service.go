package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// TaskIndex is an optional full-text index over task text.
type TaskIndex interface {
	Index(ctx context.Context, t *entity.Task) error
	Remove(ctx context.Context, taskID int64) error
	Search(ctx context.Context, userID int64, query string, size int) ([]int64, error)
}

const (
	defaultSearchSize = 20
	maxSearchSize     = 50
)

// TaskService runs every operation inside one owner's scope. Tasks of other
// users are indistinguishable from tasks that do not exist.
type TaskService struct {
	Repo   repo.TaskRepository
	Index  TaskIndex
	Logger *logrus.Logger
	Now    func() time.Time
	Loc    *time.Location
}

func NewTaskService(repo repo.TaskRepository, index TaskIndex, logger *logrus.Logger, loc *time.Location) *TaskService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TaskService{Repo: repo, Index: index, Logger: logger, Now: time.Now, Loc: loc}
}

// Today is the current calendar day in the service's location.
func (s *TaskService) Today() time.Time {
	return entity.DateOf(s.Now(), s.Loc)
}

type ListOptions struct {
	Filter entity.Filter
	Sort   entity.SortKey
}

type CreateTaskInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    entity.Priority
}

func (s *TaskService) storeError(err error, msg string, owner, id int64) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTaskNotFound
	}
	fields := logrus.Fields{"user_id": owner}
	if id != 0 {
		fields["task_id"] = id
	}
	s.Logger.WithError(err).WithFields(fields).Error(msg)
	return err
}

func (s *TaskService) checkDueDate(due *time.Time) error {
	if due != nil && due.Before(s.Today()) {
		return validation.FieldErrors{"due_date": "cannot be in the past"}
	}
	return nil
}

func (s *TaskService) List(ctx context.Context, owner int64, opts ListOptions) ([]entity.Task, error) {
	tasks, err := s.Repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, s.storeError(err, "list tasks failed", owner, 0)
	}
	tasks = entity.FilterTasks(tasks, opts.Filter, s.Today())
	if opts.Sort != "" && opts.Sort != entity.SortDefault {
		entity.Sort(tasks, opts.Sort)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, owner, id int64) (*entity.Task, error) {
	t, err := s.Repo.GetByID(ctx, owner, id)
	if err != nil {
		return nil, s.storeError(err, "get task failed", owner, id)
	}
	return t, nil
}

// Create stores a new task. Status always starts as pending.
func (s *TaskService) Create(ctx context.Context, owner int64, in CreateTaskInput) (*entity.Task, error) {
	if err := s.checkDueDate(in.DueDate); err != nil {
		return nil, err
	}
	t := &entity.Task{
		UserID:      owner,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      entity.StatusPending,
	}
	if t.Priority == "" {
		t.Priority = entity.PriorityMedium
	}
	if t.Description != nil && *t.Description == "" {
		t.Description = nil
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, s.storeError(err, "create task failed", owner, 0)
	}
	s.index(ctx, t)
	return t, nil
}

// Update applies a partial update and returns the refreshed task.
func (s *TaskService) Update(ctx context.Context, owner, id int64, patch entity.TaskPatch) (*entity.Task, error) {
	if patch.IsEmpty() {
		if _, err := s.Get(ctx, owner, id); err != nil {
			return nil, err
		}
		return nil, ErrNoFieldsProvided
	}
	if patch.DueDate.Set {
		if err := s.checkDueDate(patch.DueDate.Value); err != nil {
			return nil, err
		}
	}
	t, err := s.Repo.Update(ctx, owner, id, patch)
	if err != nil {
		return nil, s.storeError(err, "update task failed", owner, id)
	}
	s.index(ctx, t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, owner, id int64) error {
	if err := s.Repo.Delete(ctx, owner, id); err != nil {
		return s.storeError(err, "delete task failed", owner, id)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("task_id", id).Warn("search index remove failed")
		}
	}
	return nil
}

// Stats is computed fresh on every call.
func (s *TaskService) Stats(ctx context.Context, owner int64) (entity.TaskStats, error) {
	st, err := s.Repo.Stats(ctx, owner, s.Today())
	if err != nil {
		return entity.TaskStats{}, s.storeError(err, "task stats failed", owner, 0)
	}
	return st, nil
}

// Search finds the owner's tasks whose title or description match q. Matches
// are always re-read from the store, so the index can never widen the scope.
func (s *TaskService) Search(ctx context.Context, owner int64, q string, size int) ([]entity.Task, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, validation.FieldErrors{"q": "is required"}
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}

	tasks, err := s.Repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, s.storeError(err, "list tasks failed", owner, 0)
	}

	var match func(t *entity.Task) bool
	if s.Index != nil {
		ids, err := s.Index.Search(ctx, owner, q, size)
		if err != nil {
			s.Logger.WithError(err).WithField("user_id", owner).Warn("search index query failed, falling back to store scan")
		} else {
			hit := make(map[int64]struct{}, len(ids))
			for _, id := range ids {
				hit[id] = struct{}{}
			}
			match = func(t *entity.Task) bool { _, ok := hit[t.ID]; return ok }
		}
	}
	if match == nil {
		needle := strings.ToLower(q)
		match = func(t *entity.Task) bool {
			if strings.Contains(strings.ToLower(t.Title), needle) {
				return true
			}
			return t.Description != nil && strings.Contains(strings.ToLower(*t.Description), needle)
		}
	}

	out := make([]entity.Task, 0)
	for i := range tasks {
		if match(&tasks[i]) {
			out = append(out, tasks[i])
			if len(out) == size {
				break
			}
		}
	}
	return out, nil
}

func (s *TaskService) index(ctx context.Context, t *entity.Task) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, t); err != nil {
		s.Logger.WithError(err).WithField("task_id", t.ID).Warn("search index update failed")
	}
}
