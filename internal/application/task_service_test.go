package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/memory"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

type taskFixture struct {
	store *memory.Store
	svc   *TaskService
	now   time.Time
	alice int64
	bob   int64
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	f := &taskFixture{now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }
	f.store = memory.NewStore(clock)
	f.svc = NewTaskService(f.store.Tasks(), nil, nil, time.UTC)
	f.svc.Now = clock

	ctx := context.Background()
	for _, u := range []*entity.User{
		{Username: "alice", Email: "alice@example.com", Password: "x"},
		{Username: "bob", Email: "bob@example.com", Password: "x"},
	} {
		if err := f.store.Users().Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	a, _ := f.store.Users().GetByEmail(ctx, "alice@example.com")
	b, _ := f.store.Users().GetByEmail(ctx, "bob@example.com")
	f.alice, f.bob = a.ID, b.ID
	return f
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (f *taskFixture) create(t *testing.T, owner int64, in CreateTaskInput) *entity.Task {
	t.Helper()
	task, err := f.svc.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("create %q: %v", in.Title, err)
	}
	return task
}

func TestCreateDefaults(t *testing.T) {
	f := newTaskFixture(t)
	task := f.create(t, f.alice, CreateTaskInput{Title: "t"})
	if task.Status != entity.StatusPending || task.Priority != entity.PriorityMedium {
		t.Fatalf("unexpected defaults: %+v", task)
	}
}

func TestCreateRejectsPastDueDate(t *testing.T) {
	f := newTaskFixture(t)
	_, err := f.svc.Create(context.Background(), f.alice, CreateTaskInput{Title: "t", DueDate: date(2025, time.March, 9)})
	var fe validation.FieldErrors
	if !errors.As(err, &fe) || fe["due_date"] == "" {
		t.Fatalf("expected due_date field error, got %v", err)
	}
	// today itself is allowed
	f.create(t, f.alice, CreateTaskInput{Title: "t", DueDate: date(2025, time.March, 10)})
}

func TestListOrderAcrossGroups(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	done := f.create(t, f.alice, CreateTaskInput{Title: "done", Priority: entity.PriorityHigh})
	if _, err := f.svc.Update(ctx, f.alice, done.ID, entity.TaskPatch{Status: entity.Some(entity.StatusCompleted)}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	f.create(t, f.alice, CreateTaskInput{Title: "low tomorrow", Priority: entity.PriorityLow, DueDate: date(2025, time.March, 11)})
	f.create(t, f.alice, CreateTaskInput{Title: "high today", Priority: entity.PriorityHigh, DueDate: date(2025, time.March, 10)})
	f.create(t, f.bob, CreateTaskInput{Title: "bob's"})

	tasks, err := f.svc.List(ctx, f.alice, ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []string
	for _, task := range tasks {
		got = append(got, task.Title)
	}
	if strings.Join(got, ",") != "high today,low tomorrow,done" {
		t.Fatalf("unexpected order: %v", got)
	}

	completed, _ := f.svc.List(ctx, f.alice, ListOptions{Filter: entity.FilterCompleted})
	if len(completed) != 1 || completed[0].Title != "done" {
		t.Fatalf("unexpected completed filter: %+v", completed)
	}
}

func TestOwnershipIsIndistinguishableFromMissing(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	task := f.create(t, f.alice, CreateTaskInput{Title: "private"})

	if _, err := f.svc.Get(ctx, f.bob, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("get: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := f.svc.Update(ctx, f.bob, task.ID, entity.TaskPatch{Title: entity.Some("mine")}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("update: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := f.svc.Update(ctx, f.bob, task.ID, entity.TaskPatch{}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("empty update of foreign task: expected ErrTaskNotFound, got %v", err)
	}
	if err := f.svc.Delete(ctx, f.bob, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("delete: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := f.svc.Get(ctx, f.alice, task.ID); err != nil {
		t.Fatalf("owner should still see task: %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	desc := "notes"
	task := f.create(t, f.alice, CreateTaskInput{Title: "t", Description: &desc, DueDate: date(2025, time.April, 1), Priority: entity.PriorityHigh})

	if _, err := f.svc.Update(ctx, f.alice, task.ID, entity.TaskPatch{}); !errors.Is(err, ErrNoFieldsProvided) {
		t.Fatalf("expected ErrNoFieldsProvided, got %v", err)
	}

	got, err := f.svc.Update(ctx, f.alice, task.ID, entity.TaskPatch{Status: entity.Some(entity.StatusCompleted)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != entity.StatusCompleted || got.Title != "t" || got.Description == nil || *got.Description != "notes" ||
		got.DueDate == nil || !got.DueDate.Equal(*date(2025, time.April, 1)) || got.Priority != entity.PriorityHigh {
		t.Fatalf("partial update touched other fields: %+v", got)
	}

	got, err = f.svc.Update(ctx, f.alice, task.ID, entity.TaskPatch{Description: entity.Some(""), DueDate: entity.Some[*time.Time](nil)})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got.Description != nil || got.DueDate != nil {
		t.Fatalf("expected cleared fields: %+v", got)
	}

	if _, err := f.svc.Update(ctx, f.alice, task.ID, entity.TaskPatch{DueDate: entity.Some(date(2025, time.January, 1))}); err == nil {
		t.Fatalf("expected past due date to be rejected on update")
	}
}

func TestDeleteTwice(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	task := f.create(t, f.alice, CreateTaskInput{Title: "t"})
	if err := f.svc.Delete(ctx, f.alice, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.svc.Delete(ctx, f.alice, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("second delete: expected ErrTaskNotFound, got %v", err)
	}
}

func TestStatsOverdueFollowsClock(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	f.create(t, f.alice, CreateTaskInput{Title: "due today", DueDate: date(2025, time.March, 10)})
	done := f.create(t, f.alice, CreateTaskInput{Title: "done", DueDate: date(2025, time.March, 10), Priority: entity.PriorityLow})
	if _, err := f.svc.Update(ctx, f.alice, done.ID, entity.TaskPatch{Status: entity.Some(entity.StatusCompleted)}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	f.create(t, f.bob, CreateTaskInput{Title: "bob", DueDate: date(2025, time.March, 10)})

	st, err := f.svc.Stats(ctx, f.alice)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Total != 2 || st.Overdue != 0 {
		t.Fatalf("due today must not count as overdue: %+v", st)
	}

	f.now = f.now.Add(24 * time.Hour)
	st, _ = f.svc.Stats(ctx, f.alice)
	if st.Overdue != 1 || st.Completed != 1 || st.Pending != 1 || st.LowPriority != 1 || st.MediumPriority != 1 {
		t.Fatalf("unexpected stats next day: %+v", st)
	}
	if st.CompletionRate() != 50 {
		t.Fatalf("expected completion rate 50, got %d", st.CompletionRate())
	}
}

type stubIndex struct {
	ids     []int64
	err     error
	indexed []int64
	removed []int64
}

func (s *stubIndex) Index(_ context.Context, t *entity.Task) error {
	s.indexed = append(s.indexed, t.ID)
	return s.err
}

func (s *stubIndex) Remove(_ context.Context, id int64) error {
	s.removed = append(s.removed, id)
	return s.err
}

func (s *stubIndex) Search(_ context.Context, _ int64, _ string, _ int) ([]int64, error) {
	return s.ids, s.err
}

func TestSearchNeverLeavesOwnerScope(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	mine := f.create(t, f.alice, CreateTaskInput{Title: "quarterly report"})
	theirs := f.create(t, f.bob, CreateTaskInput{Title: "report"})

	idx := &stubIndex{ids: []int64{mine.ID, theirs.ID}}
	f.svc.Index = idx

	got, err := f.svc.Search(ctx, f.alice, "report", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("search leaked foreign tasks: %+v", got)
	}

	// index failure falls back to a store scan
	idx.err = errors.New("es down")
	got, err = f.svc.Search(ctx, f.alice, "QUARTERLY", 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("fallback search: %v %+v", err, got)
	}

	if _, err := f.svc.Search(ctx, f.alice, "  ", 0); err == nil {
		t.Fatalf("expected blank query to be rejected")
	}
}

func TestIndexFailuresDoNotFailWrites(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	idx := &stubIndex{err: errors.New("es down")}
	f.svc.Index = idx

	task := f.create(t, f.alice, CreateTaskInput{Title: "t"})
	if err := f.svc.Delete(ctx, f.alice, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(idx.indexed) != 1 || len(idx.removed) != 1 {
		t.Fatalf("expected index calls, got %+v", idx)
	}
}
