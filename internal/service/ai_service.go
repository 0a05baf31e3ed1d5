package service

import (
	"context"
	"fmt"

	"github.com/Srushti-17/Docolab/internal/constant"
	"github.com/Srushti-17/Docolab/internal/dto"
	"github.com/Srushti-17/Docolab/internal/pkg/logger"
	"github.com/Srushti-17/Docolab/pkg/ai"

	"github.com/gofiber/fiber/v2"
)

type IAIService interface {
	Process(ctx context.Context, req *dto.ProcessAIRequest) (*dto.ProcessAIResponse, error)
}

// aiService forwards transformation requests to the external text service.
// It holds no state and never mutates documents.
type aiService struct {
	generator ai.TextGenerator
	logger    logger.ILogger
}

func NewAIService(generator ai.TextGenerator, log logger.ILogger) IAIService {
	return &aiService{
		generator: generator,
		logger:    log,
	}
}

func (s *aiService) Process(ctx context.Context, req *dto.ProcessAIRequest) (*dto.ProcessAIResponse, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	result, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("AIService", "Upstream AI failure", map[string]interface{}{
			"action": req.Action,
			"error":  err.Error(),
		})
		return nil, fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Failed to %s text", req.Action))
	}

	return &dto.ProcessAIResponse{Result: result}, nil
}

func buildPrompt(req *dto.ProcessAIRequest) (string, error) {
	switch req.Action {
	case "summarize":
		return fmt.Sprintf(constant.PromptSummarize, req.Text), nil
	case "improve", "improve-full":
		return fmt.Sprintf(constant.PromptImprove, req.Text), nil
	case "define":
		return fmt.Sprintf(constant.PromptDefine, req.Text), nil
	case "translate":
		if req.TargetLanguage == "" {
			return "", fiber.NewError(fiber.StatusBadRequest, "Target language is required for translation")
		}
		return fmt.Sprintf(constant.PromptTranslate, req.TargetLanguage, req.Text), nil
	default:
		return "", fiber.NewError(fiber.StatusBadRequest, "Unknown action")
	}
}
