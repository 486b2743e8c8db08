package tasks

import "time"

// Bucket is one display section with its member tasks.
type Bucket struct {
	Key           BucketKey
	Title         string
	ShowCountdown bool
	Collapsible   bool
	Tasks         []Task
}

// Filter narrows the task list before bucketing. The sentinel values
// AllCourses and AllTypes disable the corresponding match.
type Filter struct {
	Course string
	Type   string
}

// Apply returns the tasks matching the filter, by exact string equality.
func (f Filter) Apply(tasks []Task) []Task {
	filtered := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if f.Course != "" && f.Course != AllCourses && task.Course != f.Course {
			continue
		}
		if f.Type != "" && f.Type != AllTypes && task.Type != f.Type {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered
}

// bucketFor assigns a task to its bucket relative to the evaluation date.
// Predicates run in fixed priority order and are mutually exclusive; an
// incomplete task with no due date matches none and is omitted from display.
func bucketFor(task Task, today time.Time) (BucketKey, bool) {
	if task.Completed {
		return BucketCompleted, true
	}
	if task.Due == nil {
		return "", false
	}

	due := DateOf(*task.Due)
	tomorrow := today.AddDate(0, 0, 1)
	weekEnd := today.AddDate(0, 0, 7)

	switch {
	case due.Before(today):
		return BucketOverdue, true
	case due.Equal(today):
		return BucketDueToday, true
	case due.Equal(tomorrow):
		return BucketDueTomorrow, true
	case due.After(today) && !due.After(weekEnd):
		// weekEnd is inclusive; tomorrow was already claimed above.
		return BucketDueThisWeek, true
	default:
		return "", false
	}
}

// Categorize partitions tasks into the enabled buckets, in configured
// display order, relative to the injected evaluation instant. Empty
// collapsible buckets are hidden; empty non-collapsible buckets are kept so
// the host can render an empty state.
func Categorize(tasks []Task, cfg Config, filter Filter, now time.Time) []Bucket {
	today := DateOf(now)
	filtered := filter.Apply(tasks)

	members := make(map[BucketKey][]Task)
	for _, task := range filtered {
		if key, ok := bucketFor(task, today); ok {
			members[key] = append(members[key], task)
		}
	}

	buckets := make([]Bucket, 0, len(cfg.Sections))
	for _, key := range cfg.SortedSections() {
		section := cfg.Sections[key]
		sectionTasks := members[key]
		if len(sectionTasks) == 0 && section.Collapsible {
			continue
		}
		buckets = append(buckets, Bucket{
			Key:           key,
			Title:         cfg.SectionTitle(key),
			ShowCountdown: section.ShowCountdown,
			Collapsible:   section.Collapsible,
			Tasks:         sectionTasks,
		})
	}
	return buckets
}

// CourseOptions returns the distinct course labels present, for filter UIs.
func CourseOptions(tasks []Task) []string {
	return distinct(tasks, func(t Task) string { return t.Course })
}

// TypeOptions returns the distinct type labels present, for filter UIs.
func TypeOptions(tasks []Task) []string {
	return distinct(tasks, func(t Task) string { return t.Type })
}

func distinct(tasks []Task, field func(Task) string) []string {
	seen := make(map[string]struct{}, len(tasks))
	values := make([]string, 0, len(tasks))
	for _, task := range tasks {
		value := field(task)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}
