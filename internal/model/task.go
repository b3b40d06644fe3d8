package model

import (
	"strings"
	"time"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every accepted priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority matches raw case-insensitively and returns the canonical value.
func ParsePriority(raw string) (Priority, bool) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(raw), string(p)) {
			return p, true
		}
	}
	return "", false
}

// Status is the completion state of a task. Tasks start Pending and may move
// back and forth freely.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Statuses lists every accepted status.
var Statuses = []Status{StatusPending, StatusCompleted}

// ParseStatus matches raw case-insensitively and returns the canonical value.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range Statuses {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, true
		}
	}
	return "", false
}

// Task represents a single item in the planner.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	CategoryID  *uint  `gorm:"index"`
	Title       string `gorm:"size:100;not null"`
	Description string
	Priority    Priority   `gorm:"size:20;not null"`
	Deadline    *time.Time `gorm:"index"`
	Status      Status     `gorm:"size:20;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCompleted reports whether the task is in the Completed state.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// DeadlineDate returns the calendar date of the deadline in UTC.
func (t Task) DeadlineDate() (time.Time, bool) {
	if t.Deadline == nil {
		return time.Time{}, false
	}
	return DateOf(*t.Deadline), true
}

// DateOf truncates ts to midnight UTC of its calendar day.
func DateOf(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextUpdatedAt returns the updated_at value for a write at now, always
// strictly after prev.
func NextUpdatedAt(now, prev time.Time) time.Time {
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

// Textual date forms accepted on input and used on output.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
