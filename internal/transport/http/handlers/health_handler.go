package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/taskboard/backend/internal/infrastructure/logger"
)

type HealthHandler struct {
	client *mongo.Client
	logger *logger.Logger
}

func NewHealthHandler(client *mongo.Client, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{client: client, logger: logger}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if h.client != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		if err := h.client.Ping(ctx, readpref.Primary()); err != nil {
			h.logger.Errorw("health_mongo_ping_failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
			})
		}
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
