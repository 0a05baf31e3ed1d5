package bootstrap

import (
	"log"

	"github.com/Srushti-17/Docolab/internal/access"
	"github.com/Srushti-17/Docolab/internal/config"
	"github.com/Srushti-17/Docolab/internal/controller"
	"github.com/Srushti-17/Docolab/internal/pkg/logger"
	"github.com/Srushti-17/Docolab/internal/pkg/mailer"
	"github.com/Srushti-17/Docolab/internal/pkg/serverutils"
	"github.com/Srushti-17/Docolab/internal/repository/implementation"
	"github.com/Srushti-17/Docolab/internal/repository/memory"
	"github.com/Srushti-17/Docolab/internal/service"
	"github.com/Srushti-17/Docolab/internal/websocket"
	"github.com/Srushti-17/Docolab/pkg/ai"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const documentEventsTopic = "DOCUMENT_EVENTS"

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	AIController       controller.IAIController

	// Middleware
	AuthMiddleware fiber.Handler
	ErrorHandler   fiber.Handler

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub     *websocket.Hub
	WebSocketHandler *websocket.Handler
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	gate := access.NewGate(cfg.Auth.JWTSecret)

	// Repositories
	documentRepo := implementation.NewDocumentRepository(db)
	userRepo := memory.NewCachedUserRepository(implementation.NewUserRepository(db))

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	publisherService := service.NewPublisherService(pubSub, documentEventsTopic)

	// Redis is optional: without it the hub runs single-instance.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Invalid REDIS_URL, running single-instance: %v", err)
		} else {
			rdb = redis.NewClient(opts)
		}
	}

	// Services
	documentService := service.NewDocumentService(documentRepo, userRepo, gate, publisherService, sysLogger)
	aiService := service.NewAIService(ai.NewGeminiClient(cfg.Keys.GoogleGemini), sysLogger)

	// Joins re-authorize read access through the document service.
	hub := websocket.NewHub(documentService, rdb, sysLogger)
	wsHandler := websocket.NewHandler(hub, gate, userRepo, sysLogger)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	consumerService := service.NewConsumerService(pubSub, documentEventsTopic, hub, emailService, cfg.App.ClientURL, sysLogger)

	return &Container{
		DocumentController: controller.NewDocumentController(documentService),
		AIController:       controller.NewAIController(aiService),
		AuthMiddleware:     serverutils.NewJwtMiddleware(gate),
		ErrorHandler:       serverutils.ErrorHandlerMiddleware(),
		ConsumerService:    consumerService,
		WebSocketHub:       hub,
		WebSocketHandler:   wsHandler,
	}
}
