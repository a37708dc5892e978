package entity

import "time"

// Filter selects a subset of a user's tasks for listing.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterPending    Filter = "pending"
	FilterInProgress Filter = "in_progress"
	FilterCompleted  Filter = "completed"
	FilterOverdue    Filter = "overdue"
)

func (f Filter) Match(t *Task, today time.Time) bool {
	switch f {
	case FilterPending:
		return t.Status == StatusPending
	case FilterInProgress:
		return t.Status == StatusInProgress
	case FilterCompleted:
		return t.Status == StatusCompleted
	case FilterOverdue:
		return t.Overdue(today)
	}
	return true
}

// FilterTasks returns the tasks matching f, preserving order.
func FilterTasks(tasks []Task, f Filter, today time.Time) []Task {
	if f == "" || f == FilterAll {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for i := range tasks {
		if f.Match(&tasks[i], today) {
			out = append(out, tasks[i])
		}
	}
	return out
}
