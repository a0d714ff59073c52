package worker

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
	"github.com/datium-labs/dspm-analyzer/internal/services"
)

// BulkPayload mirrors the HTTP bulk-ingest body; collectors can ship the
// same JSON over either transport.
type BulkPayload struct {
	SourceID string              `json:"source_id"`
	Items    []services.BulkItem `json:"items"`
}

type IngestConsumer struct {
	channel  *amqp.Channel
	queue    string
	log      *logger.Logger
	analyzer services.AnalyzerService
}

func NewIngestConsumer(channel *amqp.Channel, queue string, log *logger.Logger, analyzer services.AnalyzerService) *IngestConsumer {
	return &IngestConsumer{
		channel:  channel,
		queue:    queue,
		log:      log.With("consumer", "IngestConsumer"),
		analyzer: analyzer,
	}
}

func (c *IngestConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register ingest consumer: %w", err)
	}

	c.log.Info("listening for bulk payloads", "queue", c.queue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.log.Info("ingest consumer shutting down")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.log.Warn("ingest channel closed")
					return
				}
				c.handle(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *IngestConsumer) handle(ctx context.Context, msg amqp.Delivery) {
	var payload BulkPayload
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.log.Error("undecodable bulk payload, dropping", "error", err)
		_ = msg.Nack(false, false)
		return
	}
	if payload.SourceID == "" || len(payload.Items) == 0 {
		c.log.Warn("bulk payload missing source_id or items, dropping")
		_ = msg.Nack(false, false)
		return
	}

	res, err := c.analyzer.IngestBulk(ctx, nil, payload.SourceID, payload.Items)
	if err != nil {
		// One redelivery attempt for transient storage failures, then drop.
		requeue := !msg.Redelivered
		c.log.Error("bulk ingest failed", "error", err, "source_id", payload.SourceID, "requeue", requeue)
		_ = msg.Nack(false, requeue)
		return
	}

	c.log.Info("bulk payload ingested",
		"source_id", payload.SourceID,
		"created", res.Created,
		"updated", res.Updated,
		"profiled", res.Profiled,
		"guarded", res.Guarded,
	)
	_ = msg.Ack(false)
}
