package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/Zxen1/Events-Platform-sub002/internal/cache"
	"github.com/Zxen1/Events-Platform-sub002/internal/fieldset"
	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	"github.com/Zxen1/Events-Platform-sub002/internal/testutil"
	apperrors "github.com/Zxen1/Events-Platform-sub002/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDraftCache(t *testing.T) {
	ctx := context.Background()
	rdb := testutil.Redis(t)
	draftCache := cache.NewRedisDraftCache(rdb, time.Minute)

	f := fieldset.New()
	f.Registry().AddGroup()
	require.NoError(t, f.Registry().SetAgeRating("B", "PG"))
	_, err := f.Store().ToggleDate("2024-05-04")
	require.NoError(t, err)
	_, err = f.Store().SetSlotTime("2024-05-04", 0, "18:30")
	require.NoError(t, err)
	draft := f.Snapshot(uuid.New())

	t.Run("Failed - ErrDraftNotFound", func(t *testing.T) {
		_, err := draftCache.GetDraft(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrDraftNotFound)
	})

	t.Run("Success - round trip keeps edit provenance", func(t *testing.T) {
		require.NoError(t, draftCache.SaveDraft(ctx, draft))

		got, err := draftCache.GetDraft(ctx, draft.ListingID)
		require.NoError(t, err)
		assert.Equal(t, draft.Value, got.Value)
		assert.Equal(t, []model.AttributeKey{model.AttrAgeRating}, got.ManualEdits["B"])
		assert.Equal(t, []int{0}, got.FirstGlobalEditDone)

		ttl, err := rdb.TTL(ctx, "listing:"+draft.ListingID.String()+":draft").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("Success - delete", func(t *testing.T) {
		require.NoError(t, draftCache.DeleteDraft(ctx, draft.ListingID))
		_, err := draftCache.GetDraft(ctx, draft.ListingID)
		assert.ErrorIs(t, err, apperrors.ErrDraftNotFound)
	})
}
