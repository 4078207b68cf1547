// Package todo is a typed client for the task HTTP API. Request bodies are
// checked against the same schemas the server uses, and server errors come
// back as models.ErrNotFound or *validation.Error.
package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TWRT/todo-service/internal/client"
	"github.com/TWRT/todo-service/internal/models"
	"github.com/TWRT/todo-service/internal/validation"
)

var _ client.TaskClient = (*TodoClient)(nil)

type TodoClient struct {
	baseUrl    string
	httpClient *http.Client
	validator  *validation.Validator
}

func NewTodoClient(baseUrl string) (*TodoClient, error) {
	validator, err := validation.New()
	if err != nil {
		return nil, err
	}
	return &TodoClient{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		validator:  validator,
	}, nil
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *TodoClient) WithHTTPClient(hc *http.Client) *TodoClient {
	c.httpClient = hc
	return c
}

func (c *TodoClient) CreateTask(ctx context.Context, title string, description *string) (*models.Task, error) {
	reqBody := models.CreateTaskRequest{Title: title, Description: description}
	if err := c.validator.ValidateValue(validation.CreateTask, reqBody); err != nil {
		return nil, err
	}

	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", reqBody, http.StatusCreated, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *TodoClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	var resp models.ListTasksResponse
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *TodoClient) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id, ""), nil, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *TodoClient) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	reqBody := models.UpdateTaskRequest(patch)
	if err := c.validator.ValidateValue(validation.UpdateTask, reqBody); err != nil {
		return nil, err
	}

	var task models.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id, ""), reqBody, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *TodoClient) ToggleTask(ctx context.Context, id int64, completed bool) (*models.Task, error) {
	reqBody := models.ToggleTaskRequest{Completed: completed}

	var task models.Task
	if err := c.do(ctx, http.MethodPost, taskPath(id, "/toggle"), reqBody, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *TodoClient) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id, ""), nil, http.StatusNoContent, nil)
}

func taskPath(id int64, suffix string) string {
	return "/tasks/" + strconv.FormatInt(id, 10) + suffix
}

func (c *TodoClient) do(ctx context.Context, method, path string, reqBody any, wantStatus int, out any) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, body)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return decodeError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	var apiErr models.ErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return fmt.Errorf("todo API error status %d", status)
	}

	switch {
	case status == http.StatusNotFound || apiErr.Code == models.CodeNotFound:
		return models.ErrNotFound
	case status == http.StatusBadRequest || apiErr.Code == models.CodeInvalidRequest:
		return validation.NewError(apiErr.Field, apiErr.Error)
	default:
		return fmt.Errorf("todo API error status %d: %s", status, apiErr.Error)
	}
}
