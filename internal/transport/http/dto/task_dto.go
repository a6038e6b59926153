package dto

import (
	"time"

	"github.com/taskboard/backend/internal/domain"
)

var statusValues = "pending, in-progress, completed"

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

func (r *CreateTaskRequest) Validate() []string {
	var errors []string

	if r.Title == "" {
		errors = append(errors, "title is required")
	}

	if r.Description == "" {
		errors = append(errors, "description is required")
	}

	if r.Status != "" && !domain.TaskStatus(r.Status).Valid() {
		errors = append(errors, "status must be one of: "+statusValues)
	}

	return errors
}

// UpdateTaskRequest is a partial update: absent fields stay untouched,
// which is why every field is a pointer.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (r *UpdateTaskRequest) Validate() []string {
	var errors []string

	if r.Title != nil && *r.Title == "" {
		errors = append(errors, "title must not be empty")
	}

	if r.Description != nil && *r.Description == "" {
		errors = append(errors, "description must not be empty")
	}

	if r.Status != nil && !domain.TaskStatus(*r.Status).Valid() {
		errors = append(errors, "status must be one of: "+statusValues)
	}

	return errors
}

type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TaskListResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	TotalCount int64          `json:"total_count"`
}

func TaskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.Hex(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func TasksToResponse(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, TaskToResponse(&tasks[i]))
	}
	return out
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
