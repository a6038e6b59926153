package ports

import (
	"context"

	"github.com/taskboard/backend/internal/domain"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
}

// UpdateTaskInput carries a partial update: nil means "leave unchanged".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
}

type ListTasksInput struct {
	Limit     int
	Offset    int
	SortField string
	SortAsc   bool
	Status    string
}

type TaskPage struct {
	Tasks      []domain.Task
	TotalCount int64
}

type TaskRepository interface {
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, input ListTasksInput) (*TaskPage, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, id string, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
