package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"netdo/internal/kvstore"
	"netdo/internal/logging"
)

// StorageKey is the kvstore key holding the task list.
const StorageKey = "tasks"

// Store persists the task list as a single JSON array.
type Store struct {
	mu     sync.Mutex
	value  *kvstore.Value[[]Task]
	newID  func() string
	logger *slog.Logger
}

// NewStore binds a task store to backend.
func NewStore(backend kvstore.Backend, logger *slog.Logger) *Store {
	logger = logging.NewComponentLogger(logger, "tasks")
	return &Store{
		value:  kvstore.NewValue(backend, StorageKey, func() []Task { return []Task{} }, logger),
		newID:  newTaskID,
		logger: logger,
	}
}

func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Reload drops the cached list so the next read goes to the backend. Long
// running processes call it to pick up writes from other processes.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value.Reset()
}

// List returns every task in stored order.
func (s *Store) List(ctx context.Context) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.value.Get(ctx))
}

// Incomplete returns the tasks not yet completed, in stored order.
func (s *Store) Incomplete(ctx context.Context) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Task{}
	for _, task := range s.value.Get(ctx) {
		if !task.Completed {
			out = append(out, task.Clone())
		}
	}
	return out
}

// Get returns the task with id.
func (s *Store) Get(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.value.Get(ctx)
	idx := indexOf(list, id)
	if idx < 0 {
		return Task{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return list[idx].Clone(), nil
}

// Add creates a task from draft, applying defaults for category and priority.
func (s *Store) Add(ctx context.Context, draft Draft) (Task, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return Task{}, fmt.Errorf("add task: %w: title is required", ErrInvalidTask)
	}
	task := Task{
		Title:          title,
		Description:    strings.TrimSpace(draft.Description),
		Category:       strings.TrimSpace(draft.Category),
		Priority:       draft.Priority,
		NetworkTrigger: draft.NetworkTrigger,
	}
	if task.Category == "" {
		task.Category = DefaultCategory
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if draft.DueDate != nil {
		due := draft.DueDate.UTC()
		task.DueDate = &due
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = s.newID()
	list := append(cloneAll(s.value.Get(ctx)), task)
	if err := s.persist(ctx, list); err != nil {
		return task.Clone(), err
	}
	s.logger.Info("task added",
		logging.String(logging.FieldTaskID, task.ID),
		logging.String("priority", string(task.Priority)),
		logging.String("trigger", string(task.NetworkTrigger)),
	)
	return task.Clone(), nil
}

// Toggle flips the completed flag of the task with id.
func (s *Store) Toggle(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := cloneAll(s.value.Get(ctx))
	idx := indexOf(list, id)
	if idx < 0 {
		return Task{}, fmt.Errorf("toggle %q: %w", id, ErrNotFound)
	}
	list[idx].Completed = !list[idx].Completed
	if err := s.persist(ctx, list); err != nil {
		return list[idx].Clone(), err
	}
	s.logger.Debug("task toggled",
		logging.String(logging.FieldTaskID, id),
		logging.Bool("completed", list[idx].Completed),
	)
	return list[idx].Clone(), nil
}

// Update applies patch to the task with id. The id itself never changes.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return Task{}, fmt.Errorf("update %q: %w: title is required", id, ErrInvalidTask)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := cloneAll(s.value.Get(ctx))
	idx := indexOf(list, id)
	if idx < 0 {
		return Task{}, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}
	task := &list[idx]
	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		task.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.NetworkTrigger != nil {
		task.NetworkTrigger = *patch.NetworkTrigger
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	switch {
	case patch.ClearDueDate:
		task.DueDate = nil
	case patch.DueDate != nil:
		due := patch.DueDate.UTC()
		task.DueDate = &due
	}
	if err := s.persist(ctx, list); err != nil {
		return task.Clone(), err
	}
	return task.Clone(), nil
}

// Delete removes the task with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.value.Get(ctx)
	idx := indexOf(current, id)
	if idx < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	list := make([]Task, 0, len(current)-1)
	list = append(list, cloneAll(current[:idx])...)
	list = append(list, cloneAll(current[idx+1:])...)
	if err := s.persist(ctx, list); err != nil {
		return err
	}
	s.logger.Info("task deleted", logging.String(logging.FieldTaskID, id))
	return nil
}

// ReplaceAll overwrites the list. Every task needs a unique non-empty id and
// a non-empty title; other fields are stored as given.
func (s *Store) ReplaceAll(ctx context.Context, list []Task) error {
	seen := make(map[string]struct{}, len(list))
	for i, task := range list {
		id := strings.TrimSpace(task.ID)
		if id == "" {
			return fmt.Errorf("replace tasks: %w: task %d has no id", ErrInvalidTask, i)
		}
		if strings.TrimSpace(task.Title) == "" {
			return fmt.Errorf("replace tasks: %w: task %q has no title", ErrInvalidTask, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("replace tasks: %w: duplicate id %q", ErrInvalidTask, id)
		}
		seen[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, cloneAll(list)); err != nil {
		return err
	}
	s.logger.Info("task list replaced", logging.Int("count", len(list)))
	return nil
}

func (s *Store) persist(ctx context.Context, list []Task) error {
	if err := s.value.Set(ctx, list); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

func indexOf(list []Task, id string) int {
	for i, task := range list {
		if task.ID == id {
			return i
		}
	}
	return -1
}
