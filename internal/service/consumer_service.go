package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Srushti-17/Docolab/internal/pkg/logger"
	"github.com/Srushti-17/Docolab/internal/pkg/mailer"
	"github.com/Srushti-17/Docolab/internal/websocket"
	"github.com/Srushti-17/Docolab/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService delivers share notifications: a websocket frame to the
// target user's live connections plus an email. Both are best-effort.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	hub          *websocket.Hub
	emailService mailer.IEmailService
	clientURL    string
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	emailService mailer.IEmailService,
	clientURL string,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		hub:          hub,
		emailService: emailService,
		clientURL:    clientURL,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var evt events.WireEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if evt.Type != events.TypeDocumentShared {
		msg.Ack()
		return
	}

	targetIdStr, _ := evt.Data["target_user_id"].(string)
	targetEmail, _ := evt.Data["target_email"].(string)
	documentIdStr, _ := evt.Data["document_id"].(string)
	documentTitle, _ := evt.Data["document_title"].(string)

	if targetId, err := uuid.Parse(targetIdStr); err == nil {
		frame, _ := json.Marshal(map[string]interface{}{
			"type": "notification",
			"data": map[string]string{
				"event":          evt.Type,
				"document_id":    documentIdStr,
				"document_title": documentTitle,
			},
		})
		cs.hub.SendToUser(targetId, frame)
	}

	if cs.emailService != nil && targetEmail != "" {
		documentURL := fmt.Sprintf("%s/editor/%s", cs.clientURL, documentIdStr)
		if err := cs.emailService.SendDocumentShared(targetEmail, documentTitle, documentURL); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to send share email", map[string]interface{}{
				"email": targetEmail,
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
