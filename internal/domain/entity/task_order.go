package entity

import (
	"sort"
	"strings"
)

// SortKey names an alternative ordering for task listings.
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriority  SortKey = "priority"
	SortDueDate   SortKey = "due_date"
	SortCreatedAt SortKey = "created_at"
	SortTitle     SortKey = "title"
)

// LessDefault implements the listing order: status group, then priority
// (high first), then due date ascending with undated tasks last, then newest first.
func LessDefault(a, b *Task) bool {
	if ra, rb := a.Status.rank(), b.Status.rank(); ra != rb {
		return ra < rb
	}
	if ra, rb := a.Priority.rank(), b.Priority.rank(); ra != rb {
		return ra < rb
	}
	if c := compareDue(a, b); c != 0 {
		return c < 0
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// compareDue orders by due date with missing dates sorted after present ones.
func compareDue(a, b *Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	case a.DueDate.Before(*b.DueDate):
		return -1
	case b.DueDate.Before(*a.DueDate):
		return 1
	}
	return 0
}

// Sort orders tasks in place by key. Ties under the alternative keys fall back
// to the default order so results stay deterministic.
func Sort(tasks []Task, key SortKey) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := &tasks[i], &tasks[j]
		switch key {
		case SortPriority:
			if ra, rb := a.Priority.rank(), b.Priority.rank(); ra != rb {
				return ra < rb
			}
		case SortDueDate:
			if c := compareDue(a, b); c != 0 {
				return c < 0
			}
		case SortCreatedAt:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		case SortTitle:
			if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
				return c < 0
			}
		}
		return LessDefault(a, b)
	})
}
