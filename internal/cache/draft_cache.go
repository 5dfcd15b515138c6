package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	apperrors "github.com/Zxen1/Events-Platform-sub002/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type DraftCache interface {
	// SaveDraft stores the full fieldset state and refreshes its TTL.
	SaveDraft(ctx context.Context, draft model.Draft) error
	// GetDraft returns apperrors.ErrDraftNotFound when nothing is cached.
	GetDraft(ctx context.Context, listingID uuid.UUID) (model.Draft, error)
	DeleteDraft(ctx context.Context, listingID uuid.UUID) error
}

type RedisDraftCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftCache(client *redis.Client, ttl time.Duration) DraftCache {
	return &RedisDraftCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisDraftCacheImpl) getDraftKey(listingID uuid.UUID) string {
	return fmt.Sprintf("listing:%s:draft", listingID)
}

func (c *RedisDraftCacheImpl) SaveDraft(ctx context.Context, draft model.Draft) error {
	state, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	key := c.getDraftKey(draft.ListingID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"state":      string(state),
		"updated_at": draft.UpdatedAt.Format(time.RFC3339Nano),
	})
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (c *RedisDraftCacheImpl) GetDraft(ctx context.Context, listingID uuid.UUID) (model.Draft, error) {
	state, err := c.client.HGet(ctx, c.getDraftKey(listingID), "state").Result()
	if errors.Is(err, redis.Nil) {
		return model.Draft{}, apperrors.ErrDraftNotFound
	}
	if err != nil {
		return model.Draft{}, err
	}
	var draft model.Draft
	if err := json.Unmarshal([]byte(state), &draft); err != nil {
		return model.Draft{}, fmt.Errorf("invalid draft: %w", err)
	}
	return draft, nil
}

func (c *RedisDraftCacheImpl) DeleteDraft(ctx context.Context, listingID uuid.UUID) error {
	return c.client.Del(ctx, c.getDraftKey(listingID)).Err()
}
