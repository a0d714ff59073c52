package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
)

// IngestEvent is the post-commit summary of one ingested batch, published
// for downstream dashboards and alerting.
type IngestEvent struct {
	SourceID string    `json:"source_id"`
	Created  int       `json:"created"`
	Updated  int       `json:"updated"`
	Profiled int       `json:"profiled"`
	Guarded  int       `json:"guarded"`
	At       time.Time `json:"at"`
}

type IngestBus interface {
	Publish(ctx context.Context, ev IngestEvent) error
	Close() error
}

type ingestBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewIngestBus connects to Redis from REDIS_ADDR. Callers treat a missing
// address as "bus disabled" before getting here.
func NewIngestBus(log *logger.Logger) (IngestBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_INGEST_CHANNEL"))
	if ch == "" {
		ch = "dspm.ingest"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ingestBus{
		log:     log.With("service", "RedisIngestBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *ingestBus) Publish(ctx context.Context, ev IngestEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("ingest bus not initialized")
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal ingest event: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish ingest event: %w", err)
	}
	return nil
}

func (b *ingestBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
