package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/taskboard/backend/internal/core/services"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"github.com/taskboard/backend/internal/testutil"
	"github.com/taskboard/backend/internal/transport/http/dto"
	"github.com/taskboard/backend/internal/transport/http/handlers"
)

func newTestApp() (*fiber.App, *testutil.FakeTaskRepository) {
	repo := testutil.NewFakeTaskRepository()
	svc := services.NewTaskService(repo, logger.NewNop())
	h := handlers.NewTaskHandler(svc, logger.NewNop())

	app := fiber.New()
	tasks := app.Group("/api/v1/tasks")
	tasks.Post("/", h.CreateTask)
	tasks.Get("/", h.GetTasks)
	tasks.Get("/:id", h.GetTask)
	tasks.Patch("/:id", h.UpdateTask)
	tasks.Delete("/:id", h.DeleteTask)

	return app, repo
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	resp.Body.Close()
	return resp, raw
}

func createTask(t *testing.T, app *fiber.App, body map[string]any) dto.TaskResponse {
	t.Helper()

	resp, raw := doJSON(t, app, http.MethodPost, "/api/v1/tasks/", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.StatusCode, raw)
	}
	var task dto.TaskResponse
	if err := json.Unmarshal(raw, &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	return task
}

func TestCreateTaskReturns201WithRecord(t *testing.T) {
	app, _ := newTestApp()

	task := createTask(t, app, map[string]any{
		"title":       "Buy milk",
		"description": "2%",
		"status":      "in-progress",
	})

	if task.ID == "" {
		t.Error("expected generated id")
	}
	if task.Title != "Buy milk" || task.Description != "2%" || task.Status != "in-progress" {
		t.Errorf("unexpected task: %+v", task)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreateTaskDefaultsStatusToPending(t *testing.T) {
	app, _ := newTestApp()

	task := createTask(t, app, map[string]any{
		"title":       "Buy milk",
		"description": "2%",
	})
	if task.Status != "pending" {
		t.Errorf("status = %q, want pending", task.Status)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	app, _ := newTestApp()

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"description": "d"}},
		{"missing description", map[string]any{"title": "t"}},
		{"invalid status", map[string]any{"title": "t", "description": "d", "status": "done"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := doJSON(t, app, http.MethodPost, "/api/v1/tasks/", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body %s", resp.StatusCode, raw)
			}
		})
	}
}

func TestListTasksPagination(t *testing.T) {
	app, repo := newTestApp()
	repo.Seed(25, domain.TaskStatusPending)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/v1/tasks/?limit=10&page=1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}

	var list dto.TaskListResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Tasks) != 10 {
		t.Errorf("page size = %d, want 10", len(list.Tasks))
	}
	if list.TotalCount != 25 {
		t.Errorf("total_count = %d, want 25", list.TotalCount)
	}

	resp, raw = doJSON(t, app, http.MethodGet, "/api/v1/tasks/?limit=10&page=3", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Tasks) != 5 {
		t.Errorf("last page size = %d, want 5", len(list.Tasks))
	}
}

func TestListTasksLimitIsCapped(t *testing.T) {
	app, repo := newTestApp()
	repo.Seed(120, domain.TaskStatusPending)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/v1/tasks/?limit=200", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}

	var list dto.TaskListResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Tasks) != 100 {
		t.Errorf("page size = %d, want capped at 100", len(list.Tasks))
	}
	if list.TotalCount != 120 {
		t.Errorf("total_count = %d, want 120", list.TotalCount)
	}
}

func TestListTasksFilterAndSort(t *testing.T) {
	app, repo := newTestApp()
	repo.Seed(3, domain.TaskStatusPending)
	repo.Seed(2, domain.TaskStatusCompleted)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/v1/tasks/?filter=completed&sort=-title", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}

	var list dto.TaskListResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.TotalCount != 2 {
		t.Errorf("total_count = %d, want 2", list.TotalCount)
	}
	for i := 1; i < len(list.Tasks); i++ {
		if list.Tasks[i-1].Title < list.Tasks[i].Title {
			t.Errorf("titles not descending: %q before %q", list.Tasks[i-1].Title, list.Tasks[i].Title)
		}
	}
}

func TestListTasksRejectsBadQueryParams(t *testing.T) {
	app, _ := newTestApp()

	for _, target := range []string{
		"/api/v1/tasks/?limit=ten",
		"/api/v1/tasks/?page=zero",
		"/api/v1/tasks/?page=0",
		"/api/v1/tasks/?filter=bogus",
	} {
		resp, raw := doJSON(t, app, http.MethodGet, target, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400, body %s", target, resp.StatusCode, raw)
		}
	}
}

func TestGetTaskNotFound(t *testing.T) {
	app, _ := newTestApp()

	for _, id := range []string{"64f000000000000000000000", "garbage"} {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/tasks/"+id, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", id, resp.StatusCode)
		}
	}
}

func TestPatchTaskPartialUpdate(t *testing.T) {
	app, _ := newTestApp()

	task := createTask(t, app, map[string]any{"title": "Buy milk", "description": "2%"})
	if task.Status != "pending" {
		t.Fatalf("initial status = %q, want pending", task.Status)
	}

	resp, raw := doJSON(t, app, http.MethodPatch, "/api/v1/tasks/"+task.ID, map[string]any{
		"status": "completed",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, app, http.MethodGet, "/api/v1/tasks/"+task.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var got dto.TaskResponse
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if got.Status != "completed" {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if got.Title != "Buy milk" || got.Description != "2%" {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestPatchTaskEmptyBodyReturnsCurrentRecord(t *testing.T) {
	app, _ := newTestApp()
	task := createTask(t, app, map[string]any{"title": "Buy milk", "description": "2%"})

	resp, raw := doJSON(t, app, http.MethodPatch, "/api/v1/tasks/"+task.ID, map[string]any{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("empty patch status = %d, body %s", resp.StatusCode, raw)
	}

	var got dto.TaskResponse
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if got.ID != task.ID || got.Title != "Buy milk" || got.Description != "2%" || got.Status != "pending" {
		t.Errorf("empty patch changed the record: %+v", got)
	}
}

func TestPatchTaskErrors(t *testing.T) {
	app, _ := newTestApp()
	task := createTask(t, app, map[string]any{"title": "t", "description": "d"})

	resp, _ := doJSON(t, app, http.MethodPatch, "/api/v1/tasks/64f000000000000000000000", map[string]any{
		"title": "new",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("patch unknown id status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/tasks/"+task.ID, map[string]any{"title": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("patch empty title status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteTask(t *testing.T) {
	app, _ := newTestApp()
	task := createTask(t, app, map[string]any{"title": "t", "description": "d"})

	resp, _ := doJSON(t, app, http.MethodDelete, "/api/v1/tasks/"+task.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/tasks/"+task.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/tasks/"+task.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestStoreFailureSurfacesAs500(t *testing.T) {
	app, repo := newTestApp()
	repo.ForcedErr = fmt.Errorf("connection reset")

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/tasks/", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}
