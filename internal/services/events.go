package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tubertify-backend/internal/models"
)

// EventPublisher pushes per-user events through redis pub/sub; the
// websocket hub subscribes on the other side. Best effort: a dropped
// event never fails the request that produced it.
type EventPublisher struct {
	redis *redis.Client
}

func NewEventPublisher(redisClient *redis.Client) *EventPublisher {
	return &EventPublisher{redis: redisClient}
}

func (p *EventPublisher) Publish(ctx context.Context, userID uuid.UUID, event models.Event) {
	if p == nil || p.redis == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	channel := "user_events:" + userID.String()
	if err := p.redis.Publish(ctx, channel, string(data)).Err(); err != nil {
		log.Printf("failed to publish %s event for user %s: %v", event.Type, userID, err)
	}
}
