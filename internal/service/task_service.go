package service

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/TWRT/todo-service/internal/models"
	"github.com/TWRT/todo-service/internal/validation"
)

// TaskStore is the storage the service needs; *repository.TaskRepository
// satisfies it.
type TaskStore interface {
	Create(ctx context.Context, title string, description *string) (models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	SetCompleted(ctx context.Context, id int64, completed bool) (models.Task, error)
	Delete(ctx context.Context, id int64) error
}

type TaskService struct {
	store  TaskStore
	logger *log.Logger
}

func NewTaskService(store TaskStore, logger *log.Logger) *TaskService {
	return &TaskService{
		store:  store,
		logger: logger,
	}
}

func (s *TaskService) Create(ctx context.Context, title string, description *string) (models.Task, error) {
	valid, err := validation.ValidateTitle(title)
	if err != nil {
		return models.Task{}, err
	}

	task, err := s.store.Create(ctx, valid, description)
	if err != nil {
		return models.Task{}, err
	}

	s.logger.Debug("task created", "id", task.ID)
	return task, nil
}

func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.store.List(ctx)
}

func (s *TaskService) Get(ctx context.Context, id int64) (models.Task, error) {
	if id <= 0 {
		return models.Task{}, validation.NewError("id", "must be a positive integer")
	}
	return s.store.Get(ctx, id)
}

func (s *TaskService) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if id <= 0 {
		return models.Task{}, validation.NewError("id", "must be a positive integer")
	}
	if patch.IsEmpty() {
		return models.Task{}, validation.NewError("", "provide at least one of title, description, completed")
	}
	if patch.Title != nil {
		valid, err := validation.ValidateTitle(*patch.Title)
		if err != nil {
			return models.Task{}, err
		}
		patch.Title = &valid
	}

	task, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return models.Task{}, err
	}

	s.logger.Debug("task updated", "id", task.ID)
	return task, nil
}

func (s *TaskService) ToggleCompletion(ctx context.Context, id int64, completed bool) (models.Task, error) {
	if id <= 0 {
		return models.Task{}, validation.NewError("id", "must be a positive integer")
	}

	task, err := s.store.SetCompleted(ctx, id, completed)
	if err != nil {
		return models.Task{}, err
	}

	s.logger.Debug("task completion set", "id", task.ID, "completed", task.Completed)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return validation.NewError("id", "must be a positive integer")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Debug("task deleted", "id", id)
	return nil
}
