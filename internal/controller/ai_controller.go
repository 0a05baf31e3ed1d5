package controller

import (
	"github.com/Srushti-17/Docolab/internal/dto"
	"github.com/Srushti-17/Docolab/internal/pkg/serverutils"
	"github.com/Srushti-17/Docolab/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAIController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Process(ctx *fiber.Ctx) error
}

type aiController struct {
	aiService service.IAIService
}

func NewAIController(aiService service.IAIService) IAIController {
	return &aiController{
		aiService: aiService,
	}
}

func (c *aiController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/ai")
	h.Use(auth)
	h.Post("process", c.Process)
}

func (c *aiController) Process(ctx *fiber.Ctx) error {
	var req dto.ProcessAIRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.aiService.Process(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
