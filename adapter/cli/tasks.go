package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/claritysync/notioncenter/internal/tasks"
)

var (
	tasksCourseFilter string
	tasksTypeFilter   string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Show assignments grouped by due date",
	Long: `Fetch the selected database and show assignments grouped into
Overdue, Due Today, Due Tomorrow, Due This Week, and Completed.

Examples:
  notioncenter tasks
  notioncenter tasks --course CS101
  notioncenter tasks --type Essay`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("tasks requires configuration; check startup logs")
		}

		list := app.Tasks.GetTasks(cmd.Context())
		cfg := tasks.DefaultConfig()
		filter := tasks.Filter{Course: tasksCourseFilter, Type: tasksTypeFilter}
		buckets := tasks.Categorize(list, cfg, filter, time.Now())

		renderBuckets(buckets, time.Now())
		return nil
	},
}

var tasksCompleteCmd = &cobra.Command{
	Use:     "complete <id-prefix>",
	Short:   "Toggle a task's completed checkbox",
	Aliases: []string{"done", "toggle"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("tasks complete requires configuration; check startup logs")
		}

		list := app.Tasks.GetTasks(cmd.Context())
		prefix := strings.ToLower(args[0])

		var matches []tasks.Task
		for _, task := range list {
			if strings.HasPrefix(strings.ToLower(task.ID), prefix) {
				matches = append(matches, task)
			}
		}

		switch len(matches) {
		case 0:
			fmt.Printf("No task found matching '%s'\n", prefix)
			return nil
		case 1:
		default:
			fmt.Println("Multiple tasks match. Be more specific:")
			for _, task := range matches {
				fmt.Printf("  [%s] %s\n", idPrefix(task.ID), task.Name)
			}
			return nil
		}

		task := matches[0]
		if err := app.Tasks.ToggleCompletion(cmd.Context(), task.ID, task.Completed); err != nil {
			return fmt.Errorf("toggle completion: %w", err)
		}

		if task.Completed {
			fmt.Printf("Reopened: %s\n", task.Name)
		} else {
			fmt.Printf("Completed: %s\n", task.Name)
		}
		return nil
	},
}

func renderBuckets(buckets []tasks.Bucket, now time.Time) {
	today := tasks.DateOf(now)

	total := 0
	for _, bucket := range buckets {
		total += len(bucket.Tasks)
	}
	if total == 0 {
		fmt.Println("No assignments to show.")
		return
	}

	for _, bucket := range buckets {
		fmt.Printf("\n  %s (%d)\n", strings.ToUpper(bucket.Title), len(bucket.Tasks))
		fmt.Println("  " + strings.Repeat("-", 58))
		if len(bucket.Tasks) == 0 {
			fmt.Println("    nothing here")
			continue
		}
		for _, task := range bucket.Tasks {
			fmt.Println("    " + taskLine(task, bucket.ShowCountdown, today))
		}
	}
	fmt.Println()
}

// taskLine renders one task row. The countdown is only shown for sections
// configured with ShowCountdown; a zero grade is not worth printing.
func taskLine(task tasks.Task, showCountdown bool, today time.Time) string {
	marker := "[ ]"
	if task.Completed {
		marker = "[x]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s (%s, %s)", marker, idPrefix(task.ID), task.Name, task.Course, task.Type)

	if task.Due != nil {
		fmt.Fprintf(&b, " due %s", task.Due.Format("Jan 2"))
		if showCountdown {
			if label := countdownLabel(*task.Due, today); label != "" {
				fmt.Fprintf(&b, " (%s)", label)
			}
		}
	}
	if task.Grade > 0 {
		fmt.Fprintf(&b, ", worth %g%%", task.Grade)
	}
	return b.String()
}

// countdownLabel describes how far a due date is from today, in whole days.
func countdownLabel(due time.Time, today time.Time) string {
	days := int(tasks.DateOf(due).Sub(today).Hours() / 24)
	switch {
	case days < -1:
		return fmt.Sprintf("%d days overdue", -days)
	case days == -1:
		return "1 day overdue"
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

func idPrefix(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func init() {
	tasksCmd.Flags().StringVar(&tasksCourseFilter, "course", tasks.AllCourses, "filter by course")
	tasksCmd.Flags().StringVar(&tasksTypeFilter, "type", tasks.AllTypes, "filter by type")
	tasksCmd.AddCommand(tasksCompleteCmd)
	rootCmd.AddCommand(tasksCmd)
}
