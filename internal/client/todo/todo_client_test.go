package todo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/TWRT/todo-service/internal/api"
	"github.com/TWRT/todo-service/internal/logging"
	"github.com/TWRT/todo-service/internal/models"
	"github.com/TWRT/todo-service/internal/repository"
	"github.com/TWRT/todo-service/internal/validation"
)

func newTestClient(t *testing.T) *TodoClient {
	t.Helper()

	db, err := repository.InitDB(context.Background(), repository.DriverSQLite, filepath.Join(t.TempDir(), "todo.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	router, err := api.SetupRouter(db, logging.Discard(), 5*time.Second)
	if err != nil {
		t.Fatalf("SetupRouter: %v", err)
	}
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	c, err := NewTodoClient(ts.URL + "/")
	if err != nil {
		t.Fatalf("NewTodoClient: %v", err)
	}
	return c.WithHTTPClient(ts.Client())
}

func strPtr(s string) *string { return &s }

func TestTodoClient_Lifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	first, err := c.CreateTask(ctx, "first", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	second, err := c.CreateTask(ctx, "second", strPtr("with notes"))
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tasks, err := c.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Fatalf("unexpected order: %+v", tasks)
	}

	updated, err := c.UpdateTask(ctx, second.ID, models.TaskPatch{Description: models.NullString()})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Description != nil || updated.Title != "second" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	toggled, err := c.ToggleTask(ctx, first.ID, true)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !toggled.Completed || !toggled.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("unexpected toggle: %+v", toggled)
	}

	got, err := c.GetTask(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if !got.Completed {
		t.Fatal("toggle not persisted")
	}

	if err := c.DeleteTask(ctx, first.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := c.GetTask(ctx, first.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("GetTask after delete: %v", err)
	}
	if err := c.DeleteTask(ctx, first.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("DeleteTask after delete: %v", err)
	}
}

func TestTodoClient_ValidatesBeforeSending(t *testing.T) {
	var hits int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c, err := NewTodoClient(ts.URL)
	if err != nil {
		t.Fatalf("NewTodoClient: %v", err)
	}

	if _, err := c.CreateTask(context.Background(), "", nil); !validation.IsValidationError(err) {
		t.Fatalf("CreateTask: expected validation error, got %v", err)
	}
	if _, err := c.UpdateTask(context.Background(), 1, models.TaskPatch{}); !validation.IsValidationError(err) {
		t.Fatalf("UpdateTask: expected validation error, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("server was called %d times", hits)
	}
}

func TestTodoClient_ServerValidationError(t *testing.T) {
	c := newTestClient(t)

	// Blank titles pass the schema but are rejected by the service.
	_, err := c.CreateTask(context.Background(), "   ", nil)
	var ve *validation.Error
	if !errors.As(err, &ve) {
		t.Fatalf("expected *validation.Error, got %T (%v)", err, err)
	}
	if ve.Field != "/title" {
		t.Fatalf("field=%q", ve.Field)
	}
}

func TestTodoClient_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal"}`))
	}))
	defer ts.Close()

	c, err := NewTodoClient(ts.URL)
	if err != nil {
		t.Fatalf("NewTodoClient: %v", err)
	}

	_, err = c.ListTasks(context.Background())
	if err == nil || errors.Is(err, models.ErrNotFound) || validation.IsValidationError(err) {
		t.Fatalf("expected a plain error, got %v", err)
	}
}
