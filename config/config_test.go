package config

import (
	"testing"
	"time"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestGetLimits(t *testing.T) {
	t.Run("Success - defaults", func(t *testing.T) {
		assert.Equal(t, model.DefaultLimits(), GetLimits())
	})

	t.Run("Success - overridden from env", func(t *testing.T) {
		t.Setenv("MAX_GROUPS", "4")
		t.Setenv("MAX_SLOTS", "3")

		limits := GetLimits()

		assert.Equal(t, 4, limits.MaxGroups)
		assert.Equal(t, 3, limits.MaxSlots)
		assert.Equal(t, 10, limits.MaxAreas)
	})

	t.Run("Failed - invalid value falls back", func(t *testing.T) {
		t.Setenv("MAX_TIERS", "many")
		t.Setenv("MAX_AREAS", "-2")

		limits := GetLimits()

		assert.Equal(t, 10, limits.MaxTiers)
		assert.Equal(t, 10, limits.MaxAreas)
	})
}

func TestGetCurrencyConfig(t *testing.T) {
	t.Setenv("CURRENCIES", " usd, eur ,,gbp")
	t.Setenv("DEFAULT_CURRENCY", "eur")

	cfg := GetCurrencyConfig()

	assert.Equal(t, []string{"USD", "EUR", "GBP"}, cfg.Currencies)
	assert.Equal(t, "EUR", cfg.Default)
}

func TestGetDraftConfig(t *testing.T) {
	t.Setenv("DRAFT_TTL", "bogus")
	assert.Equal(t, 72*time.Hour, GetDraftConfig().TTL)

	t.Setenv("DRAFT_TTL", "30m")
	assert.Equal(t, 30*time.Minute, GetDraftConfig().TTL)
}
