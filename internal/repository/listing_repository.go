package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	apperrors "github.com/Zxen1/Events-Platform-sub002/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ListingRepository interface {
	// Upsert writes the committed value of a listing, creating it on first commit.
	Upsert(ctx context.Context, listing *model.Listing) (*model.Listing, error)
	List(ctx context.Context) ([]*model.Listing, error)
	FindByListingID(ctx context.Context, listingID uuid.UUID) (*model.Listing, error)
	Delete(ctx context.Context, listingID uuid.UUID) error
}

type ListingRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) ListingRepository {
	return &ListingRepositoryImpl{
		pool: pool,
	}
}

const listingColumns = `id, listing_id, status, value, created_at, updated_at`

func (r *ListingRepositoryImpl) Upsert(ctx context.Context, listing *model.Listing) (*model.Listing, error) {
	value, err := json.Marshal(listing.Value)
	if err != nil {
		return nil, fmt.Errorf("marshal listing value: %w", err)
	}
	query := `
		INSERT INTO listings (listing_id, status, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (listing_id) DO UPDATE
		SET status = EXCLUDED.status, value = EXCLUDED.value, updated_at = NOW()
		RETURNING ` + listingColumns

	return scanListing(r.pool.QueryRow(ctx, query, listing.ListingID, listing.Status, value))
}

func (r *ListingRepositoryImpl) List(ctx context.Context) ([]*model.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		ORDER BY updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]*model.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

func (r *ListingRepositoryImpl) FindByListingID(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE listing_id = $1
	`
	return scanListing(r.pool.QueryRow(ctx, query, listingID))
}

func (r *ListingRepositoryImpl) Delete(ctx context.Context, listingID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE listing_id = $1`, listingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrListingNotFound
	}
	return nil
}

func scanListing(row pgx.Row) (*model.Listing, error) {
	var (
		listing model.Listing
		value   []byte
	)
	err := row.Scan(
		&listing.ID,
		&listing.ListingID,
		&listing.Status,
		&value,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(value, &listing.Value); err != nil {
		return nil, fmt.Errorf("unmarshal listing value: %w", err)
	}
	return &listing, nil
}
