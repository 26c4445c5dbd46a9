package controller

import (
	"errors"
	"strings"

	"campusbot-be/internal/dto"
	"campusbot-be/internal/pkg/serverutils"
	"campusbot-be/internal/repository/contract"
	"campusbot-be/internal/service"
	"campusbot-be/pkg/assistant"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(app *fiber.App, api fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(app *fiber.App, api fiber.Router) {
	app.Post("/chat", c.Chat)

	h := api.Group("/chat")
	h.Post("", c.Chat)
	h.Get("/:session_id/history", c.History)
	h.Delete("/:session_id", c.Clear)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.UserContext(), &req)
	if err != nil {
		return mapChatError(err)
	}

	return ctx.JSON(res)
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	sessionId := strings.TrimSpace(ctx.Params("session_id"))

	res, err := c.service.History(ctx.UserContext(), sessionId)
	if err != nil {
		return mapChatError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) Clear(ctx *fiber.Ctx) error {
	sessionId := strings.TrimSpace(ctx.Params("session_id"))

	if err := c.service.Clear(ctx.UserContext(), sessionId); err != nil {
		return mapChatError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear chat session", nil))
}

func mapChatError(err error) error {
	switch {
	case errors.Is(err, assistant.ErrEmptyQuery):
		return serverutils.NewHTTPError(fiber.StatusBadRequest, "Query must not be empty", err)
	case errors.Is(err, contract.ErrSessionStoreUnavailable):
		return serverutils.NewHTTPError(fiber.StatusServiceUnavailable, "Session store unavailable", err)
	default:
		return serverutils.NewHTTPError(fiber.StatusInternalServerError, "Failed to answer the question", err)
	}
}
