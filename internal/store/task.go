package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/isdelr/taskdeck-be/internal/models"
)

// TaskFilter narrows a task listing. Zero values mean "no filter".
type TaskFilter struct {
	// Search is a case-insensitive substring match on the title.
	Search string
	// CreatedAfter keeps tasks created on the given calendar date or later.
	CreatedAfter string
}

// TaskRepository handles persistence for tasks. Every query is scoped to
// the owning user, so a task belonging to someone else is indistinguishable
// from one that does not exist.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task and returns it with its generated id and
// creation time. Task ids come from the AUTOINCREMENT column, so they are
// unique and non-decreasing in creation order.
func (r *TaskRepository) Create(ctx context.Context, userID, title, description string) (models.Task, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (title, description, completed, created_at, user_id) VALUES (?, ?, 0, ?, ?)",
		title, description, now, userID)
	if err != nil {
		return models.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, err
	}
	return r.GetByID(ctx, userID, id)
}

// GetByID retrieves a single task owned by userID.
func (r *TaskRepository) GetByID(ctx context.Context, userID string, id int64) (models.Task, error) {
	const query = `
		SELECT id, title, description, completed, created_at, user_id
		FROM tasks
		WHERE id = ? AND user_id = ?`
	var task models.Task
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

// Update persists the mutable fields of a task. Id, owner and creation
// time are never written.
func (r *TaskRepository) Update(ctx context.Context, task models.Task) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET title = ?, description = ?, completed = ? WHERE id = ? AND user_id = ?",
		task.Title, task.Description, task.Completed, task.ID, task.UserID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task owned by userID.
func (r *TaskRepository) Delete(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the user's tasks, newest first. The created_after filter
// compares calendar dates only, inclusive of the given date.
func (r *TaskRepository) List(ctx context.Context, userID string, filter TaskFilter) ([]models.Task, error) {
	query := `
		SELECT id, title, description, completed, created_at, user_id
		FROM tasks
		WHERE user_id = ?`
	args := []any{userID}

	if filter.Search != "" {
		query += " AND instr(lower(title), lower(?)) > 0"
		args = append(args, filter.Search)
	}
	if filter.CreatedAfter != "" {
		query += " AND date(created_at) >= date(?)"
		args = append(args, filter.CreatedAfter)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt, &task.UserID); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CountByCompleted returns the number of tasks across all users with the
// given completed state. Used by the monitoring digest.
func (r *TaskRepository) CountByCompleted(ctx context.Context, completed bool) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE completed = ?", completed).Scan(&count)
	return count, err
}
