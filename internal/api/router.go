package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TWRT/todo-service/internal/api/handlers"
	"github.com/TWRT/todo-service/internal/api/middleware"
	"github.com/TWRT/todo-service/internal/repository"
	"github.com/TWRT/todo-service/internal/service"
	"github.com/TWRT/todo-service/internal/validation"
)

func SetupRouter(db *repository.Database, logger *log.Logger, requestTimeout time.Duration) (http.Handler, error) {
	validator, err := validation.New()
	if err != nil {
		return nil, err
	}

	taskRepo := repository.NewTaskRepository(db)
	taskService := service.NewTaskService(taskRepo, logger)

	taskHandler := handlers.NewTaskHandler(taskService, validator, logger)
	healthHandler := handlers.NewHealthHandler(db)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /tasks", taskHandler.CreateTask)
	mux.HandleFunc("GET /tasks", taskHandler.ListTasks)
	mux.HandleFunc("GET /tasks/{id}", taskHandler.GetTask)
	mux.HandleFunc("PATCH /tasks/{id}", taskHandler.UpdateTask)
	mux.HandleFunc("POST /tasks/{id}/toggle", taskHandler.ToggleTask)
	mux.HandleFunc("DELETE /tasks/{id}", taskHandler.DeleteTask)

	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.HandleFunc("GET /readyz", healthHandler.Readyz)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Timeout(requestTimeout),
	), nil
}
