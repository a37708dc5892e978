package entity

import (
	"time"
)

// Status is the workflow state of a task. Any state may move to any other.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// rank orders status groups for listing: open work first, completed last.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusInProgress:
		return 2
	default:
		return 3
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Task is a work item owned by exactly one user.
// DueDate, when set, is a calendar day stored as midnight UTC.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    Priority
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overdue reports whether the task is past due relative to today.
func (t *Task) Overdue(today time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(today) && t.Status != StatusCompleted
}

// Optional carries a value together with whether it was supplied at all.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// TaskPatch is a partial update. Only fields with Set=true are written.
// An empty Description or a nil DueDate clears the column.
type TaskPatch struct {
	Title       Optional[string]
	Description Optional[string]
	DueDate     Optional[*time.Time]
	Priority    Optional[Priority]
	Status      Optional[Status]
}

func (p TaskPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.DueDate.Set && !p.Priority.Set && !p.Status.Set
}

// Apply writes the present fields of p onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title.Set {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		if p.Description.Value == "" {
			t.Description = nil
		} else {
			d := p.Description.Value
			t.Description = &d
		}
	}
	if p.DueDate.Set {
		if p.DueDate.Value == nil {
			t.DueDate = nil
		} else {
			d := *p.DueDate.Value
			t.DueDate = &d
		}
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	if p.Status.Set {
		t.Status = p.Status.Value
	}
}

// DateOf truncates t to its calendar day in loc and returns that day as midnight UTC,
// the representation used for DueDate.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
