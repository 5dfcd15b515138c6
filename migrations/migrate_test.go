package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	names, err := Names()

	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_listings.sql", names[0])
	assert.IsIncreasing(t, names)
}
