package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

const taskColumns = `id, user_id, title, description, due_date, priority, status, created_at, updated_at`

type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var (
		t        entity.Task
		priority string
		status   string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate,
		&priority, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Priority = entity.Priority(priority)
	t.Status = entity.Status(status)
	if t.DueDate != nil {
		d := entity.DateOf(*t.DueDate, time.UTC)
		t.DueDate = &d
	}
	return &t, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, userID int64) ([]entity.Task, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY
			CASE status WHEN 'pending' THEN 1 WHEN 'in_progress' THEN 2 ELSE 3 END,
			CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END,
			due_date ASC NULLS LAST,
			created_at DESC,
			id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) GetByID(ctx context.Context, userID, id int64) (*entity.Task, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	t, err := scanTask(row)
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, due_date, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+taskColumns,
		t.UserID, t.Title, t.Description, t.DueDate, string(t.Priority))

	created, err := scanTask(row)
	if err != nil {
		return translate(err)
	}
	*t = *created
	return nil
}

// updateTaskSQL is a fixed statement: each column carries a "present" flag and a
// value, so a patch maps onto arguments rather than onto SQL text.
const updateTaskSQL = `
	UPDATE tasks SET
		title       = CASE WHEN $3::boolean  THEN $4::varchar  ELSE title END,
		description = CASE WHEN $5::boolean  THEN $6::text     ELSE description END,
		due_date    = CASE WHEN $7::boolean  THEN $8::date     ELSE due_date END,
		priority    = CASE WHEN $9::boolean  THEN $10::varchar ELSE priority END,
		status      = CASE WHEN $11::boolean THEN $12::varchar ELSE status END,
		updated_at  = now()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + taskColumns

// patchArgs flattens a patch into (present, value) pairs in column order.
func patchArgs(p entity.TaskPatch) []any {
	var desc *string
	if p.Description.Set && p.Description.Value != "" {
		v := p.Description.Value
		desc = &v
	}
	var due *time.Time
	if p.DueDate.Set {
		due = p.DueDate.Value
	}
	return []any{
		p.Title.Set, p.Title.Value,
		p.Description.Set, desc,
		p.DueDate.Set, due,
		p.Priority.Set, string(p.Priority.Value),
		p.Status.Set, string(p.Status.Value),
	}
}

func (r *TaskRepository) Update(ctx context.Context, userID, id int64, patch entity.TaskPatch) (*entity.Task, error) {
	args := append([]any{id, userID}, patchArgs(patch)...)
	t, err := scanTask(r.db.QueryRow(ctx, updateTaskSQL, args...))
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Stats(ctx context.Context, userID int64, today time.Time) (entity.TaskStats, error) {
	var s entity.TaskStats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE priority = 'high'),
			COUNT(*) FILTER (WHERE priority = 'medium'),
			COUNT(*) FILTER (WHERE priority = 'low'),
			COUNT(*) FILTER (WHERE due_date < $2 AND status <> 'completed')
		FROM tasks
		WHERE user_id = $1
	`, userID, today).Scan(&s.Total, &s.Pending, &s.InProgress, &s.Completed,
		&s.HighPriority, &s.MediumPriority, &s.LowPriority, &s.Overdue)
	return s, err
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
