package ports

import (
	"context"

	"github.com/taskboard/backend/internal/domain"
)

type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	GetTasks(ctx context.Context, input ListTasksInput) (*TaskPage, error)
	GetTaskByID(ctx context.Context, id string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}
