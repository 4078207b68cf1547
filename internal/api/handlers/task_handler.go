package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/TWRT/todo-service/internal/models"
	"github.com/TWRT/todo-service/internal/service"
	"github.com/TWRT/todo-service/internal/validation"
)

type TaskHandler struct {
	taskService *service.TaskService
	validator   *validation.Validator
	logger      *log.Logger
}

func NewTaskHandler(taskService *service.TaskService, validator *validation.Validator, logger *log.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator,
		logger:      logger,
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := readValidated(w, r, h.validator, validation.CreateTask, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), req.Title, req.Description)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ListTasksResponse{
		Tasks: tasks,
		Count: len(tasks),
	})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseID(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	task, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseID(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	var req models.UpdateTaskRequest
	if err := readValidated(w, r, h.validator, validation.UpdateTask, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseID(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	var req models.ToggleTaskRequest
	if err := readValidated(w, r, h.validator, validation.ToggleTask, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	task, err := h.taskService.ToggleCompletion(r.Context(), id, req.Completed)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseID(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
