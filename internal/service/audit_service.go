package service

import (
	"context"
	"encoding/json"
	"time"

	"campusbot-be/internal/entity"
	"campusbot-be/internal/pkg/logger"
	"campusbot-be/internal/repository/contract"
	"campusbot-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const AuditTopic = "chat.turn.completed"

const auditModule = "AUDIT"

// EventPublisher forwards events outside the process (NATS).
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IAuditPublisher interface {
	PublishTurn(ctx context.Context, event events.ChatTurnCompleted) error
}

type auditPublisher struct {
	publisher message.Publisher
	topic     string
}

func NewAuditPublisher(publisher message.Publisher, topic string) IAuditPublisher {
	return &auditPublisher{publisher: publisher, topic: topic}
}

func (p *auditPublisher) PublishTurn(ctx context.Context, event events.ChatTurnCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.EventType())
	return p.publisher.Publish(p.topic, msg)
}

type IAuditConsumerService interface {
	Consume(ctx context.Context) error
}

type auditConsumerService struct {
	subscriber message.Subscriber
	topic      string
	repo       contract.ChatTurnLogRepository
	external   EventPublisher
	logger     logger.ILogger
}

// NewAuditConsumerService persists turn events and, when external is not
// nil, forwards them. Either sink may fail without affecting the other.
func NewAuditConsumerService(
	subscriber message.Subscriber,
	topic string,
	repo contract.ChatTurnLogRepository,
	external EventPublisher,
	log logger.ILogger,
) IAuditConsumerService {
	return &auditConsumerService{
		subscriber: subscriber,
		topic:      topic,
		repo:       repo,
		external:   external,
		logger:     log,
	}
}

func (cs *auditConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *auditConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Audit is best effort: every message is acked so a broken sink
	// never causes redelivery loops.
	defer msg.Ack()

	var event events.ChatTurnCompleted
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error(auditModule, "Failed to unmarshal audit message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if cs.repo != nil {
		turnLog := &entity.ChatTurnLog{
			SessionId:        event.SessionID,
			Route:            event.Route,
			Source:           event.Source,
			DetectedLanguage: event.DetectedLanguage,
			RefinedQuery:     event.RefinedQuery,
			Translated:       event.Translated,
			Fallbacks:        event.Fallbacks,
			DurationMs:       event.DurationMs,
			CreatedAt:        event.OccurredAt,
		}
		if err := cs.repo.Create(writeCtx, turnLog); err != nil {
			cs.logger.Warn(auditModule, "Failed to persist chat turn", map[string]interface{}{
				"session_id": event.SessionID,
				"error":      err.Error(),
			})
		}
	}

	if cs.external != nil {
		if err := cs.external.Publish(writeCtx, event); err != nil {
			cs.logger.Warn(auditModule, "Failed to forward chat turn event", map[string]interface{}{
				"session_id": event.SessionID,
				"error":      err.Error(),
			})
		}
	}
}
