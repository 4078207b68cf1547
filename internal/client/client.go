package client

import (
	"context"

	"github.com/TWRT/todo-service/internal/models"
)

type TaskReader interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
}

type TaskWriter interface {
	CreateTask(ctx context.Context, title string, description *string) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error)
	ToggleTask(ctx context.Context, id int64, completed bool) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type TaskClient interface {
	TaskReader
	TaskWriter
}
