package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zxen1/Events-Platform-sub002/internal/cache"
	"github.com/Zxen1/Events-Platform-sub002/internal/fieldset"
	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	"github.com/Zxen1/Events-Platform-sub002/internal/queue"
	"github.com/Zxen1/Events-Platform-sub002/internal/repository"
	apperrors "github.com/Zxen1/Events-Platform-sub002/pkg/app_errors"
	"github.com/Zxen1/Events-Platform-sub002/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mutation is one user edit applied to a loaded fieldset.
type Mutation func(f *fieldset.Fieldset) error

// CurrencyProvider supplies the currency codes offered in selectors.
type CurrencyProvider interface {
	Currencies() []string
}

type StaticCurrencyProvider []string

func (p StaticCurrencyProvider) Currencies() []string {
	out := make([]string, len(p))
	copy(out, p)
	return out
}

type ListingService interface {
	// CreateDraft starts an empty pricing/sessions configuration under a new listing id.
	CreateDraft(ctx context.Context) (*model.Draft, error)
	GetValue(ctx context.Context, listingID uuid.UUID) (*model.FieldsetValue, error)
	// Apply loads the draft, runs the mutation and saves the result.
	Apply(ctx context.Context, listingID uuid.UUID, op Mutation) (*model.FieldsetValue, error)
	// SetValue rehydrates the draft from a saved blob; it returns the number of skipped entries.
	SetValue(ctx context.Context, listingID uuid.UUID, blob []byte) (*model.FieldsetValue, int, error)
	// Commit hands the current value to the queue for persistence.
	Commit(ctx context.Context, listingID uuid.UUID) (*model.Listing, error)
	PersistListing(ctx context.Context, listing *model.Listing) error
	GetListing(ctx context.Context, listingID uuid.UUID) (*model.Listing, error)
	ListListings(ctx context.Context) ([]*model.Listing, error)
	Currencies() []string
}

type ListingServiceImpl struct {
	repository      repository.ListingRepository
	draftCache      cache.DraftCache
	listingQueue    queue.ListingQueue
	currencies      CurrencyProvider
	limits          model.Limits
	defaultCurrency string
	log             *zap.Logger
}

func NewListingService(
	listingRepository repository.ListingRepository,
	draftCache cache.DraftCache,
	listingQueue queue.ListingQueue,
	currencies CurrencyProvider,
	limits model.Limits,
	defaultCurrency string,
) ListingService {
	return &ListingServiceImpl{
		repository:      listingRepository,
		draftCache:      draftCache,
		listingQueue:    listingQueue,
		currencies:      currencies,
		limits:          limits,
		defaultCurrency: defaultCurrency,
		log:             logger.WithComponent("service"),
	}
}

func (s *ListingServiceImpl) newFieldset() *fieldset.Fieldset {
	return fieldset.New(
		fieldset.WithLimits(s.limits),
		fieldset.WithCurrency(s.defaultCurrency),
		fieldset.WithLogger(logger.WithComponent("fieldset")),
	)
}

func (s *ListingServiceImpl) CreateDraft(ctx context.Context) (*model.Draft, error) {
	f := s.newFieldset()
	draft := f.Snapshot(uuid.New())
	if err := s.draftCache.SaveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// load prefers the cached draft and falls back to the committed listing.
func (s *ListingServiceImpl) load(ctx context.Context, listingID uuid.UUID) (*fieldset.Fieldset, error) {
	f := s.newFieldset()
	draft, err := s.draftCache.GetDraft(ctx, listingID)
	if err == nil {
		f.Restore(draft)
		return f, nil
	}
	if !errors.Is(err, apperrors.ErrDraftNotFound) {
		return nil, err
	}

	listing, err := s.repository.FindByListingID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	f.SetValue(listing.Value)
	return f, nil
}

func (s *ListingServiceImpl) save(ctx context.Context, listingID uuid.UUID, f *fieldset.Fieldset) error {
	if err := s.draftCache.SaveDraft(ctx, f.Snapshot(listingID)); err != nil {
		return fmt.Errorf("save draft %s: %w", listingID, err)
	}
	return nil
}

func (s *ListingServiceImpl) GetValue(ctx context.Context, listingID uuid.UUID) (*model.FieldsetValue, error) {
	f, err := s.load(ctx, listingID)
	if err != nil {
		return nil, err
	}
	value := f.GetValue()
	return &value, nil
}

func (s *ListingServiceImpl) Apply(ctx context.Context, listingID uuid.UUID, op Mutation) (*model.FieldsetValue, error) {
	f, err := s.load(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if err := op(f); err != nil {
		return nil, err
	}
	if err := s.save(ctx, listingID, f); err != nil {
		return nil, err
	}
	value := f.GetValue()
	return &value, nil
}

func (s *ListingServiceImpl) SetValue(ctx context.Context, listingID uuid.UUID, blob []byte) (*model.FieldsetValue, int, error) {
	f, err := s.load(ctx, listingID)
	if err != nil {
		return nil, 0, err
	}
	skipped := f.SetValueJSON(blob)
	if skipped > 0 {
		s.log.Info("rehydrated with skipped entries",
			zap.String("listing_id", listingID.String()), zap.Int("skipped", skipped))
	}
	if err := s.save(ctx, listingID, f); err != nil {
		return nil, 0, err
	}
	value := f.GetValue()
	return &value, skipped, nil
}

func (s *ListingServiceImpl) Commit(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	f, err := s.load(ctx, listingID)
	if err != nil {
		return nil, err
	}
	listing := &model.Listing{
		ListingID: listingID,
		Status:    model.ListingStatusCommitted,
		Value:     f.GetValue(),
	}
	if err := s.listingQueue.PublishListing(ctx, listing); err != nil {
		s.log.Error("failed to publish listing", zap.String("listing_id", listingID.String()), zap.Error(err))
		return nil, apperrors.ErrInternalServerError
	}
	return listing, nil
}

func (s *ListingServiceImpl) PersistListing(ctx context.Context, listing *model.Listing) error {
	_, err := s.repository.Upsert(ctx, listing)
	return err
}

func (s *ListingServiceImpl) GetListing(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	return s.repository.FindByListingID(ctx, listingID)
}

func (s *ListingServiceImpl) ListListings(ctx context.Context) ([]*model.Listing, error) {
	return s.repository.List(ctx)
}

func (s *ListingServiceImpl) Currencies() []string {
	if s.currencies == nil {
		return []string{}
	}
	return s.currencies.Currencies()
}
