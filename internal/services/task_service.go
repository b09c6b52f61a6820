package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/isdelr/taskdeck-be/internal/audit"
	"github.com/isdelr/taskdeck-be/internal/models"
	"github.com/isdelr/taskdeck-be/internal/store"
)

// TaskUpdate carries a full or partial field replacement for a task.
// Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	ListTasks(ctx context.Context, userID string, filter store.TaskFilter) ([]models.Task, error)
	CreateTask(ctx context.Context, userID, title, description string) (models.Task, error)
	GetTask(ctx context.Context, userID string, id int64) (models.Task, error)
	UpdateTask(ctx context.Context, userID string, id int64, upd TaskUpdate) (models.Task, error)
	DeleteTask(ctx context.Context, userID string, id int64) error
	CompleteTask(ctx context.Context, userID string, id int64) (models.Task, error)
}

// TaskService provides business logic for task management. Every operation
// is scoped to the calling user; tasks owned by someone else surface as
// store.ErrNotFound.
type TaskService struct {
	tasks   *store.TaskRepository
	auditor *audit.Auditor
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks *store.TaskRepository, auditor *audit.Auditor) *TaskService {
	return &TaskService{tasks: tasks, auditor: auditor}
}

// ListTasks returns the caller's tasks, newest first, honoring the filters.
func (s *TaskService) ListTasks(ctx context.Context, userID string, filter store.TaskFilter) ([]models.Task, error) {
	return s.tasks.List(ctx, userID, filter)
}

// CreateTask creates a task owned by the caller. New tasks always start
// uncompleted, whatever the client sent.
func (s *TaskService) CreateTask(ctx context.Context, userID, title, description string) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, FieldErrors{"title": "this field is required"}
	}

	task, err := s.tasks.Create(ctx, userID, title, description)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	s.auditor.TaskCreated(ctx, task)
	return task, nil
}

// GetTask retrieves a single task owned by the caller.
func (s *TaskService) GetTask(ctx context.Context, userID string, id int64) (models.Task, error) {
	return s.tasks.GetByID(ctx, userID, id)
}

// UpdateTask applies a full or partial field replacement. Id, owner and
// creation time are immutable. The pre-write completed flag is captured so
// the auditor can classify the transition.
func (s *TaskService) UpdateTask(ctx context.Context, userID string, id int64, upd TaskUpdate) (models.Task, error) {
	before, err := s.tasks.GetByID(ctx, userID, id)
	if err != nil {
		return models.Task{}, err
	}

	task := before
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return models.Task{}, FieldErrors{"title": "this field may not be blank"}
		}
		task.Title = title
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return models.Task{}, err
	}
	s.auditor.TaskSaved(ctx, before.Completed, task)
	return task, nil
}

// DeleteTask removes a task owned by the caller.
func (s *TaskService) DeleteTask(ctx context.Context, userID string, id int64) error {
	task, err := s.tasks.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.auditor.TaskDeleted(ctx, task)
	return nil
}

// CompleteTask marks a task as completed. Completing an already-completed
// task is a no-op success.
func (s *TaskService) CompleteTask(ctx context.Context, userID string, id int64) (models.Task, error) {
	before, err := s.tasks.GetByID(ctx, userID, id)
	if err != nil {
		return models.Task{}, err
	}

	task := before
	task.Completed = true
	if err := s.tasks.Update(ctx, task); err != nil {
		return models.Task{}, err
	}
	s.auditor.TaskSaved(ctx, before.Completed, task)
	return task, nil
}
