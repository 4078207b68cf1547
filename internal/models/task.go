package models

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("task not found")

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPatch holds the fields of a partial update. Nil pointers and unset
// optionals leave the stored value untouched.
type TaskPatch struct {
	Title       *string        `json:"title,omitempty"`
	Description OptionalString `json:"description,omitzero"`
	Completed   *bool          `json:"completed,omitempty"`
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && !p.Description.Set && p.Completed == nil
}

// OptionalString tells an absent JSON field apart from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

func SomeString(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

func NullString() OptionalString {
	return OptionalString{Set: true}
}

func (o OptionalString) IsZero() bool {
	return !o.Set
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
