package service

import (
	"context"
	"encoding/json"
	"time"

	"tg-content-bot/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	// RequestSync enqueues one reconciliation pass. Callers never run a
	// pass directly; the consumer serialises them.
	RequestSync(ctx context.Context, reason string) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (p *publisherService) RequestSync(ctx context.Context, reason string) error {
	payload := dto.PublishSyncMessage{
		Reason:      reason,
		RequestedAt: time.Now(),
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payloadJson)
	return p.pubSub.Publish(p.topicName, msg)
}
