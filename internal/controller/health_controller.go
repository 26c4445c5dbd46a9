package controller

import (
	"context"
	"time"

	"campusbot-be/internal/dto"
	"campusbot-be/internal/pkg/logger"
	"campusbot-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(app *fiber.App)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	chunks  contract.DocumentChunkRepository
	timeout time.Duration
	logger  logger.ILogger
}

func NewHealthController(chunks contract.DocumentChunkRepository, timeout time.Duration, log logger.ILogger) IHealthController {
	return &healthController{chunks: chunks, timeout: timeout, logger: log}
}

func (c *healthController) RegisterRoutes(app *fiber.App) {
	app.Get("/health", c.Health)
}

// Health reports liveness plus the size of the document index. An unreachable
// index database answers 503 with status "degraded".
func (c *healthController) Health(ctx *fiber.Ctx) error {
	reqCtx, cancel := context.WithTimeout(ctx.UserContext(), c.timeout)
	defer cancel()

	count, err := c.chunks.Count(reqCtx)
	if err != nil {
		c.logger.Warn("HEALTH", "Document index unreachable", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "degraded"})
	}
	return ctx.JSON(dto.HealthResponse{Status: "ok", Documents: &count})
}
