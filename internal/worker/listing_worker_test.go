package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	"github.com/Zxen1/Events-Platform-sub002/internal/queue"
	"github.com/Zxen1/Events-Platform-sub002/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type persisterFunc func(ctx context.Context, listing *model.Listing) error

func (f persisterFunc) PersistListing(ctx context.Context, listing *model.Listing) error {
	return f(ctx, listing)
}

func TestListingWorker_PersistsPublishedListing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewListingQueue(10)
	persisted := make(chan *model.Listing, 1)
	w := worker.NewListingWorker(persisterFunc(func(ctx context.Context, l *model.Listing) error {
		persisted <- l
		return nil
	}), q)
	require.NoError(t, w.Start(ctx))

	listing := &model.Listing{ListingID: uuid.New(), Status: model.ListingStatusCommitted}
	require.NoError(t, q.PublishListing(ctx, listing))

	select {
	case got := <-persisted:
		assert.Equal(t, listing.ListingID, got.ListingID)
	case <-time.After(time.Second):
		t.Fatal("worker did not persist the listing in time")
	}
}

func TestListingWorker_RequeuesOnFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewListingQueue(10)
	var attempts atomic.Int32
	done := make(chan struct{})
	w := worker.NewListingWorker(persisterFunc(func(ctx context.Context, l *model.Listing) error {
		if attempts.Add(1) == 1 {
			return errors.New("db unavailable")
		}
		close(done)
		return nil
	}), q)
	require.NoError(t, w.Start(ctx))

	require.NoError(t, q.PublishListing(ctx, &model.Listing{ListingID: uuid.New()}))

	select {
	case <-done:
		assert.Equal(t, int32(2), attempts.Load())
	case <-time.After(time.Second):
		t.Fatal("failed listing was not redelivered")
	}
}
