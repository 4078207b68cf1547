package models

// Request and response bodies of the HTTP API, shared by the handlers and
// the typed client.

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateTaskRequest is a TaskPatch on the wire.
type UpdateTaskRequest = TaskPatch

type ToggleTaskRequest struct {
	Completed bool `json:"completed"`
}

type ListTasksResponse struct {
	Tasks []Task `json:"tasks"`
	Count int    `json:"count"`
}

// Error codes carried in ErrorResponse.Code.
const (
	CodeInvalidRequest = "invalid_request"
	CodeNotFound       = "not_found"
	CodeTimeout        = "timeout"
	CodeInternal       = "internal"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}
