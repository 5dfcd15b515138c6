package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	"github.com/Zxen1/Events-Platform-sub002/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "listings:stream"
	ConsumerGroupName  = "listing-workers"
	ConsumerNamePrefix = "worker"
)

// RedisStreamListingQueueConfig holds the claim/retry settings; zero values use defaults.
type RedisStreamListingQueueConfig struct {
	ClaimMinIdleTime   time.Duration // pending entries idle this long are reclaimed
	MaxRetryCount      int           // deliveries beyond this are dropped as poison
	ReadGroupBlockTime time.Duration
}

func defaultRedisStreamConfig() RedisStreamListingQueueConfig {
	return RedisStreamListingQueueConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
}

type RedisStreamListingQueueImpl struct {
	client       *redis.Client
	streamKey    string
	groupName    string
	consumerName string
	cfg          RedisStreamListingQueueConfig
	log          *zap.Logger
}

// NewRedisStreamListingQueue creates the consumer group if needed. config may be nil.
func NewRedisStreamListingQueue(client *redis.Client, consumerID string, config *RedisStreamListingQueueConfig) (ListingQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
	}
	q := &RedisStreamListingQueueImpl{
		client:       client,
		streamKey:    StreamKey,
		groupName:    ConsumerGroupName,
		consumerName: fmt.Sprintf("%s:%s", ConsumerNamePrefix, consumerID),
		cfg:          cfg,
		log:          logger.WithComponent("mq"),
	}
	if err := q.ensureConsumerGroup(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamListingQueueImpl) ensureConsumerGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.streamKey, q.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (q *RedisStreamListingQueueImpl) PublishListing(ctx context.Context, listing *model.Listing) error {
	payload, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}
	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey,
		ID:     "*",
		Values: map[string]interface{}{"listing": string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (q *RedisStreamListingQueueImpl) SubscribeListings(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		go q.runAutoClaim(ctx, out)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				q.readAndDeliver(ctx, out)
			}
		}
	}()
	return out, nil
}

// readAndDeliver reads new entries only; entries left pending are picked up
// again by runAutoClaim once they have been idle long enough.
func (q *RedisStreamListingQueueImpl) readAndDeliver(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.groupName,
		Consumer: q.consumerName,
		Streams:  []string{q.streamKey, ">"},
		Count:    10,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() == nil {
			q.log.Error("XReadGroup failed", zap.Error(err))
			time.Sleep(time.Second)
		}
		return
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			if d := q.newDelivery(ctx, msg); d != nil {
				select {
				case out <- *d:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (q *RedisStreamListingQueueImpl) runAutoClaim(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	startID := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			claimed, nextID, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   q.streamKey,
				Group:    q.groupName,
				Consumer: q.consumerName,
				MinIdle:  q.cfg.ClaimMinIdleTime,
				Count:    10,
				Start:    startID,
			}).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				q.log.Error("XAutoClaim failed", zap.Error(err))
				continue
			}
			startID = "0-0"
			if nextID != "" {
				startID = nextID
			}

			for _, msg := range claimed {
				if !q.shouldProcessMessage(ctx, msg.ID) {
					continue
				}
				if d := q.newDelivery(ctx, msg); d != nil {
					select {
					case out <- *d:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}
}

// shouldProcessMessage drops reclaimed entries that exceeded MaxRetryCount.
func (q *RedisStreamListingQueueImpl) shouldProcessMessage(ctx context.Context, messageID string) bool {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.streamKey,
		Group:  q.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil || len(pending) == 0 {
		return true
	}
	if n := int(pending[0].RetryCount); n >= q.cfg.MaxRetryCount {
		q.log.Warn("discard poison message", zap.String("message_id", messageID), zap.Int("retries", n))
		_ = q.client.XAck(ctx, q.streamKey, q.groupName, messageID).Err()
		return false
	}
	return true
}

func (q *RedisStreamListingQueueImpl) newDelivery(ctx context.Context, msg redis.XMessage) *Delivery {
	payload, ok := msg.Values["listing"].(string)
	if !ok {
		q.log.Warn("invalid message: missing listing field", zap.String("message_id", msg.ID))
		_ = q.client.XAck(ctx, q.streamKey, q.groupName, msg.ID).Err()
		return nil
	}
	var listing model.Listing
	if err := json.Unmarshal([]byte(payload), &listing); err != nil {
		q.log.Warn("unmarshal listing failed", zap.String("message_id", msg.ID), zap.Error(err))
		_ = q.client.XAck(ctx, q.streamKey, q.groupName, msg.ID).Err()
		return nil
	}
	msgID := msg.ID
	ack := func() {
		if err := q.client.XAck(ctx, q.streamKey, q.groupName, msgID).Err(); err != nil {
			q.log.Error("XAck failed", zap.String("message_id", msgID), zap.Error(err))
		}
	}
	return &Delivery{
		Data: &listing,
		Ack:  ack,
		Nack: func(requeue bool) {
			if requeue {
				// left in the pending list; runAutoClaim retries it later
				return
			}
			ack()
		},
	}
}
