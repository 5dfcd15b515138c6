package worker

import (
	"context"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	"github.com/Zxen1/Events-Platform-sub002/internal/queue"
	"github.com/Zxen1/Events-Platform-sub002/pkg/logger"

	"go.uber.org/zap"
)

// ListingPersister is the part of the listing service the worker drives.
type ListingPersister interface {
	PersistListing(ctx context.Context, listing *model.Listing) error
}

type ListingWorker interface {
	// Start subscribes to the queue and persists deliveries until ctx is done.
	Start(ctx context.Context) error
}

type ListingWorkerImpl struct {
	service ListingPersister
	queue   queue.ListingQueue
	log     *zap.Logger
}

func NewListingWorker(service ListingPersister, queue queue.ListingQueue) ListingWorker {
	return &ListingWorkerImpl{
		service: service,
		queue:   queue,
		log:     logger.WithComponent("worker"),
	}
}

func (w *ListingWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeListings(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.service.PersistListing(ctx, msg.Data); err != nil {
				w.log.Warn("persist listing failed, requeueing",
					zap.String("listing_id", msg.Data.ListingID.String()), zap.Error(err))
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}
