package services

import (
	"context"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

// TaskService is a thin pass-through between the HTTP layer and the task
// repository. It carries no business rules; the repository owns validation
// and not-found mapping.
type TaskService struct {
	repo   ports.TaskRepository
	logger *logger.Logger
}

func NewTaskService(repo ports.TaskRepository, logger *logger.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

func (s *TaskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	task, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("task_create_ok", "id", task.ID.Hex(), "status", task.Status)
	return task, nil
}

func (s *TaskService) GetTasks(ctx context.Context, input ports.ListTasksInput) (*ports.TaskPage, error) {
	page, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Debugw("task_list_ok", "count", len(page.Tasks), "total", page.TotalCount)
	return page, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, input ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("task_update_ok", "id", id)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("task_delete_ok", "id", id)
	return nil
}
