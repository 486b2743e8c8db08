package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/claritysync/notioncenter/internal/gateway"
	"github.com/claritysync/notioncenter/internal/notion"
	"github.com/claritysync/notioncenter/internal/session"
)

// Fetcher is the slice of the gateway client the service needs.
type Fetcher interface {
	QueryTasks(ctx context.Context, databaseID, token string) (*notion.QueryResponse, error)
	UpdateTaskCompletion(ctx context.Context, pageID, token string, completed bool) error
}

// ErrTaskNotFound is returned when a toggle names an unknown task.
var ErrTaskNotFound = errors.New("tasks: task not found")

// Service holds the in-memory task list for one widget instance and runs the
// fetch and mutation pipelines against it. The list is replaced wholesale on
// every successful fetch; the only in-place edit is the optimistic
// completion toggle and its revert.
type Service struct {
	fetcher Fetcher
	session *session.Store
	logger  *slog.Logger

	mu    sync.Mutex
	tasks []Task
}

// NewService creates a task service.
func NewService(fetcher Fetcher, sessionStore *session.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher: fetcher,
		session: sessionStore,
		logger:  logger,
	}
}

// GetTasks runs the fetch-and-normalize pipeline and replaces the in-memory
// list. It degrades softly: on any unrecovered error — missing connection
// state included — it stores and returns the single fallback entry rather
// than surfacing an error.
func (s *Service) GetTasks(ctx context.Context) []Task {
	tasks, err := s.fetch(ctx)
	if err != nil {
		s.logFetchFailure(err)
		tasks = FallbackTasks()
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()

	return s.Tasks()
}

// Tasks returns a copy of the current in-memory list.
func (s *Service) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}

// ToggleCompletion flips a task's completed flag optimistically, then issues
// the remote patch. On success the whole list is refetched so the source of
// truth wins; on failure only the toggled task is reverted to currentStatus
// and the error surfaces to the caller.
func (s *Service) ToggleCompletion(ctx context.Context, taskID string, currentStatus bool) error {
	if !s.setCompleted(taskID, !currentStatus) {
		return ErrTaskNotFound
	}

	token, err := s.session.AccessToken(ctx)
	if err != nil {
		s.setCompleted(taskID, currentStatus)
		return fmt.Errorf("toggle completion: %w", err)
	}

	if err := s.fetcher.UpdateTaskCompletion(ctx, taskID, token, !currentStatus); err != nil {
		s.setCompleted(taskID, currentStatus)
		return fmt.Errorf("toggle completion: %w", err)
	}

	// Refetch so the list reflects the source of truth rather than the
	// optimistic patch. A late refetch can overwrite a newer toggle; the
	// last authoritative fetch always wins.
	s.GetTasks(ctx)
	return nil
}

// fetch loads connection state and queries the gateway.
func (s *Service) fetch(ctx context.Context) ([]Task, error) {
	databaseID, err := s.session.DatabaseID(ctx)
	if err != nil {
		return nil, err
	}
	token, err := s.session.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.fetcher.QueryTasks(ctx, databaseID, token)
	if err != nil {
		return nil, err
	}

	tasks := NormalizeAll(resp.Results)
	s.logger.Debug("fetched tasks", "count", len(tasks))
	return tasks, nil
}

// setCompleted updates one task's flag in place, reporting whether the task
// exists. No other task is touched.
func (s *Service) setCompleted(taskID string, completed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i].Completed = completed
			return true
		}
	}
	return false
}

func (s *Service) logFetchFailure(err error) {
	switch gateway.KindOf(err) {
	case gateway.KindNetwork:
		s.logger.Warn("task fetch failed: network issue", "error", err)
	case gateway.KindAuthentication:
		s.logger.Warn("task fetch failed: reconnect to notion", "error", err)
	case gateway.KindValidation:
		s.logger.Warn("task fetch failed: invalid request", "error", err)
	case gateway.KindAPI:
		s.logger.Warn("task fetch failed: service unavailable", "error", err)
	default:
		s.logger.Warn("task fetch failed, using fallback data", "error", err)
	}
}
