package service

import (
	"context"
	"encoding/json"

	"tg-content-bot/internal/dto"
	"tg-content-bot/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the sync-request topic. Messages are processed in
// the subscription loop itself, one at a time, which is what guarantees the
// single-flight property: a pass always runs to completion before the next
// request is picked up.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	syncService ISyncService
	log         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	syncService ISyncService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		syncService: syncService,
		log:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishSyncMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "Failed to unmarshal sync request", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.log.Info("consumer", "Running sync pass", map[string]interface{}{
		"reason": payload.Reason,
	})

	stats, err := cs.syncService.RunOnce(ctx)
	if err != nil {
		// No internal retry loop: the next scheduled request tries again.
		cs.log.Error("consumer", "Sync pass failed", map[string]interface{}{
			"reason": payload.Reason,
			"error":  err.Error(),
		})
		msg.Ack()
		return
	}

	cs.log.Info("consumer", "Sync pass finished", map[string]interface{}{
		"reason":   payload.Reason,
		"inserted": stats.Inserted,
		"updated":  stats.Updated,
		"deleted":  stats.Deleted,
		"embedded": stats.Embedded,
	})
	msg.Ack()
}
