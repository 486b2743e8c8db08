// Package tasks implements the notification-center pipeline: normalizing
// external records into tasks, partitioning them into date buckets, and
// applying optimistic completion toggles against the gateway.
package tasks

import "time"

// Task is the normalized internal record. Every field except Due is total;
// normalization substitutes documented defaults so downstream code never
// checks for missing values.
type Task struct {
	// ID is the external record identifier, stable across fetches.
	ID string
	// Name is the display title.
	Name string
	// Due is the calendar due date at day granularity (midnight UTC), or nil
	// when the task has no deadline. Tasks without a deadline appear in no
	// date bucket.
	Due *time.Time
	// Course is the course label.
	Course string
	// Grade is the weight of the task; values <= 0 suppress the
	// "worth X%" display.
	Grade float64
	// Type is the category label.
	Type string
	// Completed reports whether the task is done.
	Completed bool
	// TypeColor is an advisory color key from the source palette.
	TypeColor string
}

// Normalization defaults.
const (
	DefaultName      = "Untitled Task"
	DefaultCourse    = "No Course"
	DefaultType      = "Task"
	DefaultTypeColor = "default"
)

// FallbackTasks returns the degraded-mode list shown when the fetch path
// fails for any reason: a single placeholder entry, never an empty list.
func FallbackTasks() []Task {
	return []Task{
		{
			ID:        "no-data",
			Name:      "No tasks found",
			Due:       nil,
			Course:    "Setup Required",
			Grade:     0,
			Type:      "Info",
			Completed: false,
			TypeColor: DefaultTypeColor,
		},
	}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
