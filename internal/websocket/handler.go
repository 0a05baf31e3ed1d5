package websocket

import (
	"github.com/Srushti-17/Docolab/internal/access"
	"github.com/Srushti-17/Docolab/internal/pkg/logger"
	"github.com/Srushti-17/Docolab/internal/repository/contract"
	"github.com/Srushti-17/Docolab/internal/repository/specification"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Handler upgrades /ws requests into hub clients.
type Handler struct {
	hub      *Hub
	gate     *access.Gate
	userRepo contract.UserRepository
	logger   logger.ILogger
}

func NewHandler(hub *Hub, gate *access.Gate, userRepo contract.UserRepository, log logger.ILogger) *Handler {
	return &Handler{
		hub:      hub,
		gate:     gate,
		userRepo: userRepo,
		logger:   log,
	}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", h.ServeWs)
}

// ServeWs authenticates the handshake and hands the connection to the hub.
func (h *Handler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on websocket handshakes, so the token also
	// rides a query param.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	principal, err := h.gate.Authenticate(tokenStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is not valid"})
	}

	username := ""
	if user, err := h.userRepo.FindOne(c.Context(), specification.ByID{ID: principal.UserID}); err == nil && user != nil {
		username = user.Username
	}

	if websocket.IsWebSocketUpgrade(c) {
		userId := principal.UserID
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("Handler", "Starting WebSocket session", map[string]interface{}{"user_id": userId})
			client := newClient(h.hub, conn, userId, username)
			client.Hub.register <- client

			go client.writePump()
			client.readPump()
			h.logger.Info("Handler", "WebSocket session ended", map[string]interface{}{"user_id": userId})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
