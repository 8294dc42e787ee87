// Package events carries domain events between the request path and
// background consumers over an in-process watermill pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const TopicMatchCreated = "match.created"

type MatchCreated struct {
	MatchID         uuid.UUID   `json:"matchId"`
	SeasonID        uuid.UUID   `json:"seasonId"`
	SeasonPlayerIDs []uuid.UUID `json:"seasonPlayerIds"`
}

type Publisher interface {
	PublishMatchCreated(ctx context.Context, event MatchCreated) error
}

type MatchCreatedHandler func(ctx context.Context, event MatchCreated) error

type Bus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

func (b *Bus) PublishMatchCreated(ctx context.Context, event MatchCreated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", TopicMatchCreated, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := b.pubsub.Publish(TopicMatchCreated, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", TopicMatchCreated, err)
	}
	return nil
}

// SubscribeMatchCreated consumes match.created events until ctx is done.
// Handler errors are logged and the message is acknowledged anyway.
func (b *Bus) SubscribeMatchCreated(ctx context.Context, handler MatchCreatedHandler) error {
	messages, err := b.pubsub.Subscribe(ctx, TopicMatchCreated)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicMatchCreated, err)
	}

	go func() {
		for msg := range messages {
			var event MatchCreated
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Error("invalid event payload", "topic", TopicMatchCreated, "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			if err := handler(ctx, event); err != nil {
				b.logger.Error("event handler failed", "topic", TopicMatchCreated, "match_id", event.MatchID, "error", err)
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
