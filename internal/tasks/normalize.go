package tasks

import (
	"time"

	"github.com/claritysync/notioncenter/internal/notion"
)

// Normalize converts an external page into a Task. It is total: absent,
// null, or misshapen properties become documented defaults, never errors.
// The page ID is carried through as-is; the source guarantees its presence.
func Normalize(page notion.Page) Task {
	props := page.Properties

	task := Task{
		ID:        page.ID,
		Name:      DefaultName,
		Course:    DefaultCourse,
		Type:      DefaultType,
		TypeColor: DefaultTypeColor,
	}

	if props.Name != nil {
		for _, fragment := range props.Name.Title {
			if fragment.Text != nil && fragment.Text.Content != "" {
				task.Name = fragment.Text.Content
				break
			}
		}
	}

	if props.Due != nil && props.Due.Date != nil {
		if due, ok := parseDueDate(props.Due.Date.Start); ok {
			task.Due = &due
		}
	}

	if props.Course != nil && props.Course.Select != nil && props.Course.Select.Name != "" {
		task.Course = props.Course.Select.Name
	}

	if props.Grade != nil && props.Grade.Number != nil {
		task.Grade = *props.Grade.Number
	}

	if props.Type != nil && props.Type.Select != nil {
		if props.Type.Select.Name != "" {
			task.Type = props.Type.Select.Name
		}
		if props.Type.Select.Color != "" {
			task.TypeColor = props.Type.Select.Color
		}
	}

	if props.Completed != nil {
		task.Completed = props.Completed.Checkbox
	}

	return task
}

// NormalizeAll converts a list of pages.
func NormalizeAll(pages []notion.Page) []Task {
	tasks := make([]Task, 0, len(pages))
	for _, page := range pages {
		tasks = append(tasks, Normalize(page))
	}
	return tasks
}

// parseDueDate reads the date part of a source date value, which arrives
// either as a bare date or as a full timestamp. Unparseable values are
// treated as absent.
func parseDueDate(start string) (time.Time, bool) {
	if len(start) < 10 {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02", start[:10])
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
