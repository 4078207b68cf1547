package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TWRT/todo-service/internal/models"
)

const taskColumns = `id, title, description, completed, created_at, updated_at`

type TaskRepository struct {
	db  *Database
	now func() time.Time
}

func NewTaskRepository(db *Database) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

// WithClock replaces the time source; tests use it to pin timestamps.
func (r *TaskRepository) WithClock(now func() time.Time) *TaskRepository {
	r.now = now
	return r
}

// timestamp is the clock reading in the precision both SQLite and PostgreSQL
// round-trip unchanged.
func (r *TaskRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// nextUpdatedAt returns a value strictly after prev, using the clock when it
// has moved on.
func nextUpdatedAt(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}

func (r *TaskRepository) Create(ctx context.Context, title string, description *string) (models.Task, error) {
	now := r.timestamp()
	query := r.db.rebind(`
		INSERT INTO tasks (title, description, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := r.db.QueryRowContext(ctx, query, title, description, false, now, now).Scan(&id)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}

	return models.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, id int64) (models.Task, error) {
	query := r.db.rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`)

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, models.ErrNotFound
		}
		return models.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// Update merges patch into the stored row and advances updated_at.
func (r *TaskRepository) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	return r.mutate(ctx, id, func(t *models.Task) {
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description.Set {
			t.Description = patch.Description.Value
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
	})
}

func (r *TaskRepository) SetCompleted(ctx context.Context, id int64, completed bool) (models.Task, error) {
	return r.mutate(ctx, id, func(t *models.Task) {
		t.Completed = completed
	})
}

func (r *TaskRepository) mutate(ctx context.Context, id int64, apply func(*models.Task)) (models.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %d: begin: %w", id, err)
	}
	defer tx.Rollback()

	selectQuery := r.db.rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ?` + r.db.lockClause())
	t, err := scanTask(tx.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, models.ErrNotFound
		}
		return models.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}

	apply(&t)
	t.UpdatedAt = nextUpdatedAt(t.UpdatedAt, r.timestamp())

	updateQuery := r.db.rebind(`
		UPDATE tasks SET title = ?, description = ?, completed = ?, updated_at = ?
		WHERE id = ?
	`)
	if _, err := tx.ExecContext(ctx, updateQuery, t.Title, t.Description, t.Completed, t.UpdatedAt, id); err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("update task %d: commit: %w", id, err)
	}
	return t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	query := r.db.rebind(`DELETE FROM tasks WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t           models.Task
		description sql.NullString
	)
	err := row.Scan(
		&t.ID,
		&t.Title,
		&description,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	if description.Valid {
		d := description.String
		t.Description = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}
