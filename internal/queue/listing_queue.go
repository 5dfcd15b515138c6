package queue

import (
	"context"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
)

type Delivery struct {
	Data *model.Listing
	Ack  func()
	Nack func(requeue bool)
}

type ListingQueue interface {
	// PublishListing enqueues a committed listing for persistence.
	PublishListing(ctx context.Context, listing *model.Listing) error
	// SubscribeListings streams deliveries until ctx is done.
	SubscribeListings(ctx context.Context) (<-chan Delivery, error)
}

// ListingQueueImpl is an in-process queue backed by a buffered channel.
type ListingQueueImpl struct {
	ch chan *model.Listing
}

func NewListingQueue(bufferSize int) ListingQueue {
	return &ListingQueueImpl{
		ch: make(chan *model.Listing, bufferSize),
	}
}

func (q *ListingQueueImpl) PublishListing(ctx context.Context, listing *model.Listing) error {
	select {
	case q.ch <- listing:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ListingQueueImpl) SubscribeListings(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case listing, ok := <-q.ch:
				if !ok {
					return
				}
				d := Delivery{
					Data: listing,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							go func() { q.ch <- listing }()
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
