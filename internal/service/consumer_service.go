package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"helpdesk-knowledge-be/internal/dto"
	"helpdesk-knowledge-be/internal/entity"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	ingestionService IIngestionService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingestionService IIngestionService,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		ingestionService: ingestionService,
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
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing ingestion for FileRecordId: %s", payload.FileRecordId)

	doc, err := cs.ingestionService.IngestDocument(ctx, payload.FileRecordId, payload.WorkspaceId)
	if err != nil {
		if errors.Is(err, ErrFileRecordNotFound) {
			log.Printf("[ERROR] File record not found: %s", payload.FileRecordId)
			msg.Ack() // Record deleted? Ack.
			return
		}
		// Infrastructure errors are retriable.
		log.Printf("[ERROR] Ingestion failed for %s: %v", payload.FileRecordId, err)
		msg.Nack()
		return
	}

	// A returned document means the outcome was recorded, success or failure.
	// Failed documents are re-ingested by an explicit API call, not by redelivery.
	switch doc.Status {
	case entity.DocumentStatusIndexed:
		log.Printf("[SUCCESS] Document %s indexed with %d chunks", doc.Id, doc.ChunkCount)
	case entity.DocumentStatusFailed:
		log.Printf("[ERROR] Document %s failed: %s", doc.Id, doc.ErrorMessage)
	default:
		log.Printf("[INFO] Document %s in status %s", doc.Id, doc.Status)
	}
	msg.Ack()
}
