package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// sortFields maps caller-supplied sort keys to document fields. Anything
// outside this set is rejected before it reaches the store.
var sortFields = map[string]string{
	"":           "created_at",
	"title":      "title",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type taskRepository struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewTaskRepository(coll *mongo.Collection, log *logger.Logger) ports.TaskRepository {
	return &taskRepository{coll: coll, log: log}
}

func (r *taskRepository) Create(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	var fields []string
	if input.Title == "" {
		fields = append(fields, "title must not be empty")
	}
	if input.Description == "" {
		fields = append(fields, "description must not be empty")
	}
	status, ok := domain.ParseTaskStatus(input.Status)
	if !ok {
		fields = append(fields, fmt.Sprintf("status must be one of: %s, %s, %s",
			domain.TaskStatusPending, domain.TaskStatusInProgress, domain.TaskStatusCompleted))
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	now := time.Now().UTC()
	task := domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := r.coll.InsertOne(ctx, task)
	if err != nil {
		r.log.Errorw("task_repo_insert_failed", "title", input.Title, "error", err)
		return nil, err
	}
	task.ID = res.InsertedID.(primitive.ObjectID)

	r.log.Infow("task_repo_insert_ok", "id", task.ID.Hex())
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, input ports.ListTasksInput) (*ports.TaskPage, error) {
	filter := bson.M{}
	if input.Status != "" {
		status := domain.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, domain.NewValidationError("filter must be a valid status")
		}
		filter["status"] = status
	}

	field, ok := sortFields[input.SortField]
	if !ok {
		return nil, domain.NewValidationError("sort field is not sortable")
	}
	direction := 1
	if !input.SortAsc {
		direction = -1
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		r.log.Errorw("task_repo_count_failed", "error", err)
		return nil, err
	}

	findOpts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: field, Value: direction}})

	cursor, err := r.coll.Find(ctx, filter, findOpts)
	if err != nil {
		r.log.Errorw("task_repo_find_failed", "error", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := make([]domain.Task, 0, limit)
	if err := cursor.All(ctx, &tasks); err != nil {
		r.log.Errorw("task_repo_decode_failed", "error", err)
		return nil, err
	}

	return &ports.TaskPage{Tasks: tasks, TotalCount: total}, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// An ill-formed id can never match a stored document.
		return nil, domain.ErrTaskNotFound
	}

	var task domain.Task
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		r.log.Errorw("task_repo_get_failed", "id", id, "error", err)
		return nil, err
	}

	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, input ports.UpdateTaskInput) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	set := bson.M{}
	var fields []string
	if input.Title != nil {
		if *input.Title == "" {
			fields = append(fields, "title must not be empty")
		} else {
			set["title"] = *input.Title
		}
	}
	if input.Description != nil {
		if *input.Description == "" {
			fields = append(fields, "description must not be empty")
		} else {
			set["description"] = *input.Description
		}
	}
	if input.Status != nil {
		status := domain.TaskStatus(*input.Status)
		if !status.Valid() {
			fields = append(fields, fmt.Sprintf("status must be one of: %s, %s, %s",
				domain.TaskStatusPending, domain.TaskStatusInProgress, domain.TaskStatusCompleted))
		} else {
			set["status"] = status
		}
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	// An empty patch changes nothing; return the record as-is.
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var task domain.Task
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		r.log.Errorw("task_repo_update_failed", "id", id, "error", err)
		return nil, err
	}

	r.log.Infow("task_repo_update_ok", "id", id)
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.log.Errorw("task_repo_delete_failed", "id", id, "error", err)
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}

	r.log.Infow("task_repo_delete_ok", "id", id)
	return nil
}
