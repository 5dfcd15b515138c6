// Package mocks holds testify mocks of the repository, cache, queue and service interfaces.
package mocks

import (
	"context"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	"github.com/Zxen1/Events-Platform-sub002/internal/queue"
	"github.com/Zxen1/Events-Platform-sub002/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockListingRepository struct {
	mock.Mock
}

func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{}
}

func (m *MockListingRepository) Upsert(ctx context.Context, listing *model.Listing) (*model.Listing, error) {
	args := m.Called(ctx, listing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingRepository) List(ctx context.Context) ([]*model.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByListingID(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingRepository) Delete(ctx context.Context, listingID uuid.UUID) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type MockDraftCache struct {
	mock.Mock
}

func NewMockDraftCache() *MockDraftCache {
	return &MockDraftCache{}
}

func (m *MockDraftCache) SaveDraft(ctx context.Context, draft model.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockDraftCache) GetDraft(ctx context.Context, listingID uuid.UUID) (model.Draft, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(model.Draft), args.Error(1)
}

func (m *MockDraftCache) DeleteDraft(ctx context.Context, listingID uuid.UUID) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type MockListingQueue struct {
	mock.Mock
}

func NewMockListingQueue() *MockListingQueue {
	return &MockListingQueue{}
}

func (m *MockListingQueue) PublishListing(ctx context.Context, listing *model.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingQueue) SubscribeListings(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}

type MockListingService struct {
	mock.Mock
}

func NewMockListingService() *MockListingService {
	return &MockListingService{}
}

func (m *MockListingService) CreateDraft(ctx context.Context) (*model.Draft, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Draft), args.Error(1)
}

func (m *MockListingService) GetValue(ctx context.Context, listingID uuid.UUID) (*model.FieldsetValue, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FieldsetValue), args.Error(1)
}

func (m *MockListingService) Apply(ctx context.Context, listingID uuid.UUID, op service.Mutation) (*model.FieldsetValue, error) {
	args := m.Called(ctx, listingID, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FieldsetValue), args.Error(1)
}

func (m *MockListingService) SetValue(ctx context.Context, listingID uuid.UUID, blob []byte) (*model.FieldsetValue, int, error) {
	args := m.Called(ctx, listingID, blob)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*model.FieldsetValue), args.Int(1), args.Error(2)
}

func (m *MockListingService) Commit(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingService) PersistListing(ctx context.Context, listing *model.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingService) GetListing(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingService) ListListings(ctx context.Context) ([]*model.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Listing), args.Error(1)
}

func (m *MockListingService) Currencies() []string {
	args := m.Called()
	return args.Get(0).([]string)
}
