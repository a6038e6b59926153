package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskboard/backend/internal/config"
	"github.com/taskboard/backend/internal/core/services"
	"github.com/taskboard/backend/internal/infrastructure/db"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"github.com/taskboard/backend/internal/transport/http/handlers"
)

type RouterConfig struct {
	Client *mongo.Client
	Logger *logger.Logger
	Config *config.Config
}

func SetupRoutes(app *fiber.App, cfg RouterConfig) {
	collection := cfg.Client.
		Database(cfg.Config.Mongo.Database).
		Collection(cfg.Config.Mongo.Collection)

	taskRepo := db.NewTaskRepository(collection, cfg.Logger)
	taskService := services.NewTaskService(taskRepo, cfg.Logger)
	taskHandler := handlers.NewTaskHandler(taskService, cfg.Logger)
	healthHandler := handlers.NewHealthHandler(cfg.Client, cfg.Logger)

	app.Get("/health", healthHandler.Health)

	if cfg.Config.Features.EnableMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group("/api/v1")
	tasks := api.Group("/tasks")
	tasks.Post("/", taskHandler.CreateTask)
	tasks.Get("/", taskHandler.GetTasks)
	tasks.Get("/:id", taskHandler.GetTask)
	tasks.Patch("/:id", taskHandler.UpdateTask)
	tasks.Delete("/:id", taskHandler.DeleteTask)
}
