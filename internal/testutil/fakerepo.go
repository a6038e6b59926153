package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
)

// FakeTaskRepository is an in-memory ports.TaskRepository mirroring the
// Mongo gateway's contract: field validation, not-found for ill-formed or
// unknown ids, pagination with a total count that ignores the page bounds.
type FakeTaskRepository struct {
	mu    sync.Mutex
	tasks []domain.Task

	// ForcedErr, when set, is returned by every operation. Used to test
	// the 500 path.
	ForcedErr error
}

func NewFakeTaskRepository() *FakeTaskRepository {
	return &FakeTaskRepository{}
}

func (f *FakeTaskRepository) Create(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}

	var fields []string
	if input.Title == "" {
		fields = append(fields, "title must not be empty")
	}
	if input.Description == "" {
		fields = append(fields, "description must not be empty")
	}
	status, ok := domain.ParseTaskStatus(input.Status)
	if !ok {
		fields = append(fields, "status must be a valid status")
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC()
	task := domain.Task{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks = append(f.tasks, task)
	return &task, nil
}

func (f *FakeTaskRepository) List(ctx context.Context, input ports.ListTasksInput) (*ports.TaskPage, error) {
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if input.Status != "" && !domain.TaskStatus(input.Status).Valid() {
		return nil, domain.NewValidationError("filter must be a valid status")
	}

	matched := make([]domain.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		if input.Status != "" && t.Status != domain.TaskStatus(input.Status) {
			continue
		}
		matched = append(matched, t)
	}

	switch input.SortField {
	case "", "created_at":
		// insertion order is creation order
	case "title":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })
	case "status":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Status < matched[j].Status })
	case "updated_at":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].UpdatedAt.Before(matched[j].UpdatedAt) })
	default:
		return nil, domain.NewValidationError("sort field is not sortable")
	}
	if !input.SortAsc {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	total := int64(len(matched))

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]domain.Task, end-offset)
	copy(page, matched[offset:end])
	return &ports.TaskPage{Tasks: page, TotalCount: total}, nil
}

func (f *FakeTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.tasks {
		if t.ID == oid {
			out := t
			return &out, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (f *FakeTaskRepository) Update(ctx context.Context, id string, input ports.UpdateTaskInput) (*domain.Task, error) {
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	var fields []string
	if input.Title != nil && *input.Title == "" {
		fields = append(fields, "title must not be empty")
	}
	if input.Description != nil && *input.Description == "" {
		fields = append(fields, "description must not be empty")
	}
	if input.Status != nil && !domain.TaskStatus(*input.Status).Valid() {
		fields = append(fields, "status must be a valid status")
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID != oid {
			continue
		}
		if input.Title != nil {
			f.tasks[i].Title = *input.Title
		}
		if input.Description != nil {
			f.tasks[i].Description = *input.Description
		}
		if input.Status != nil {
			f.tasks[i].Status = domain.TaskStatus(*input.Status)
		}
		if input.Title != nil || input.Description != nil || input.Status != nil {
			f.tasks[i].UpdatedAt = time.Now().UTC()
		}
		out := f.tasks[i]
		return &out, nil
	}
	return nil, domain.ErrTaskNotFound
}

func (f *FakeTaskRepository) Delete(ctx context.Context, id string) error {
	if f.ForcedErr != nil {
		return f.ForcedErr
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID == oid {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

// Len reports the number of stored tasks.
func (f *FakeTaskRepository) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

// Seed inserts n tasks with generated titles and the given status.
func (f *FakeTaskRepository) Seed(n int, status domain.TaskStatus) {
	for i := 0; i < n; i++ {
		_, _ = f.Create(context.Background(), ports.CreateTaskInput{
			Title:       fmt.Sprintf("task %d", i),
			Description: fmt.Sprintf("description %d", i),
			Status:      string(status),
		})
	}
}
