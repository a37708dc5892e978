package entity

import "time"

// TaskStats is an aggregate snapshot of one user's tasks.
type TaskStats struct {
	Total          int
	Pending        int
	InProgress     int
	Completed      int
	HighPriority   int
	MediumPriority int
	LowPriority    int
	Overdue        int
}

// CompletionRate is the completed share of all tasks as a whole percent.
func (s TaskStats) CompletionRate() int {
	if s.Total == 0 {
		return 0
	}
	return int(float64(s.Completed)/float64(s.Total)*100 + 0.5)
}

// Summarize computes TaskStats over tasks, counting as overdue every task
// due strictly before today that is not completed.
func Summarize(tasks []Task, today time.Time) TaskStats {
	var s TaskStats
	for i := range tasks {
		t := &tasks[i]
		s.Total++
		switch t.Status {
		case StatusPending:
			s.Pending++
		case StatusInProgress:
			s.InProgress++
		case StatusCompleted:
			s.Completed++
		}
		switch t.Priority {
		case PriorityHigh:
			s.HighPriority++
		case PriorityMedium:
			s.MediumPriority++
		case PriorityLow:
			s.LowPriority++
		}
		if t.Overdue(today) {
			s.Overdue++
		}
	}
	return s
}
