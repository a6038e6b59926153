package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"github.com/taskboard/backend/internal/transport/http/dto"
)

type TaskHandler struct {
	service ports.TaskService
	logger  *logger.Logger
}

func NewTaskHandler(service ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_create_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		h.logger.Warnw("task_create_validation_failed", "details", errs)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	h.logger.Infow("task_create_request", "title", req.Title)
	task, err := h.service.CreateTask(c.Context(), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return h.taskError(c, "task_create_failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.TaskToResponse(task))
}

func (h *TaskHandler) GetTasks(c *fiber.Ctx) error {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.logger.Warnw("task_list_invalid_limit", "limit", raw)
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "limit must be a non-negative integer",
			})
		}
		limit = n
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.logger.Warnw("task_list_invalid_page", "page", raw)
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "page must be a positive integer",
			})
		}
		page = n
	}

	sortField := c.Query("sort")
	sortAsc := true
	if strings.HasPrefix(sortField, "-") {
		sortAsc = false
		sortField = sortField[1:]
	}

	input := ports.ListTasksInput{
		Limit:     limit,
		Offset:    (page - 1) * limit,
		SortField: sortField,
		SortAsc:   sortAsc,
		Status:    c.Query("filter"),
	}

	result, err := h.service.GetTasks(c.Context(), input)
	if err != nil {
		return h.taskError(c, "task_list_failed", err)
	}

	return c.JSON(dto.TaskListResponse{
		Tasks:      dto.TasksToResponse(result.Tasks),
		TotalCount: result.TotalCount,
	})
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	id := c.Params("id")
	task, err := h.service.GetTaskByID(c.Context(), id)
	if err != nil {
		return h.taskError(c, "task_get_failed", err)
	}

	return c.JSON(dto.TaskToResponse(task))
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	id := c.Params("id")

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_update_body_parse_failed", "id", id, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		h.logger.Warnw("task_update_validation_failed", "id", id, "details", errs)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	h.logger.Infow("task_update_request", "id", id)
	task, err := h.service.UpdateTask(c.Context(), id, ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return h.taskError(c, "task_update_failed", err)
	}

	return c.JSON(dto.TaskToResponse(task))
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	id := c.Params("id")

	h.logger.Infow("task_delete_request", "id", id)
	if err := h.service.DeleteTask(c.Context(), id); err != nil {
		return h.taskError(c, "task_delete_failed", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// taskError maps gateway errors onto HTTP statuses: validation failures to
// 400, missing records to 404, everything else to 500.
func (h *TaskHandler) taskError(c *fiber.Ctx, event string, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		h.logger.Warnw(event, "status", fiber.StatusBadRequest, "details", verr.Fields)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: verr.Fields,
		})
	}
	if errors.Is(err, domain.ErrTaskNotFound) {
		h.logger.Warnw(event, "status", fiber.StatusNotFound)
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "task not found",
		})
	}
	h.logger.Errorw(event, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: err.Error(),
	})
}
