// Package memory provides map-backed repositories with the same ownership and
// uniqueness rules as the Postgres ones. It serves local development
// (STORE_DRIVER=memory) and tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

// Store holds users and tasks. Deleting a user removes their tasks.
type Store struct {
	mu     sync.RWMutex
	now    func() time.Time
	users  map[int64]entity.User
	tasks  map[int64]entity.Task
	nextID struct{ user, task int64 }
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:   now,
		users: make(map[int64]entity.User),
		tasks: make(map[int64]entity.Task),
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }

// DeleteUser removes a user and, transitively, every task they own.
func (s *Store) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	for tid, t := range s.tasks {
		if t.UserID == id {
			delete(s.tasks, tid)
		}
	}
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	s.nextID.user++
	now := s.now()
	u.ID = s.nextID.user
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type TaskRepository struct{ s *Store }

func (r *TaskRepository) ListByOwner(_ context.Context, userID int64) ([]entity.Task, error) {
	r.s.mu.RLock()
	out := make([]entity.Task, 0)
	for _, t := range r.s.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	r.s.mu.RUnlock()
	entity.Sort(out, entity.SortDefault)
	return out, nil
}

func (r *TaskRepository) GetByID(_ context.Context, userID, id int64) (*entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *TaskRepository) Create(_ context.Context, t *entity.Task) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[t.UserID]; !ok {
		return repository.ErrNotFound
	}
	s.nextID.task++
	now := s.now()
	t.ID = s.nextID.task
	t.Status = entity.StatusPending
	if t.Priority == "" {
		t.Priority = entity.PriorityMedium
	}
	t.CreatedAt, t.UpdatedAt = now, now
	s.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) Update(_ context.Context, userID, id int64, patch entity.TaskPatch) (*entity.Task, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&t)
	t.UpdatedAt = s.now()
	s.tasks[id] = t
	return &t, nil
}

func (r *TaskRepository) Delete(_ context.Context, userID, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (r *TaskRepository) Stats(ctx context.Context, userID int64, today time.Time) (entity.TaskStats, error) {
	tasks, err := r.ListByOwner(ctx, userID)
	if err != nil {
		return entity.TaskStats{}, err
	}
	return entity.Summarize(tasks, today), nil
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.TaskRepository = (*TaskRepository)(nil)
)
