package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/Zxen1/Events-Platform-sub002/internal/fieldset"
	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	"github.com/Zxen1/Events-Platform-sub002/internal/queue"
	"github.com/Zxen1/Events-Platform-sub002/internal/testutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStream(t *testing.T) *redis.Client {
	t.Helper()
	rdb := testutil.Redis(t)
	require.NoError(t, rdb.Del(context.Background(), queue.StreamKey).Err())
	return rdb
}

func TestNewRedisStreamListingQueue(t *testing.T) {
	rdb := setupStream(t)

	t.Run("Success", func(t *testing.T) {
		q, err := queue.NewRedisStreamListingQueue(rdb, "test-consumer", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})

	t.Run("Success - empty consumer id", func(t *testing.T) {
		q, err := queue.NewRedisStreamListingQueue(rdb, "", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})
}

func TestRedisStreamListingQueue_DeliversPublishedListing(t *testing.T) {
	ctx := context.Background()
	rdb := setupStream(t)

	q, err := queue.NewRedisStreamListingQueue(rdb, "deliver-test", nil)
	require.NoError(t, err)

	f := fieldset.New()
	f.Registry().AddGroup()
	listing := &model.Listing{ListingID: uuid.New(), Status: model.ListingStatusCommitted, Value: f.GetValue()}
	require.NoError(t, q.PublishListing(ctx, listing))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	deliveries, err := q.SubscribeListings(subCtx)
	require.NoError(t, err)

	select {
	case d, ok := <-deliveries:
		require.True(t, ok)
		require.NotNil(t, d.Data)
		assert.Equal(t, listing.ListingID, d.Data.ListingID)
		assert.Equal(t, listing.Value, d.Data.Value)
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("timed out waiting for delivery")
	}

	pending, err := rdb.XPending(ctx, queue.StreamKey, queue.ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}
