package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow/src/utils"
)

func TestCacheSetGet(t *testing.T) {
	cache := utils.NewCache[int](time.Minute)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Set("answer", 42)
	got, ok := cache.Get("answer")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	cache.Delete("answer")
	_, ok = cache.Get("answer")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	cache := utils.NewCache[string](10 * time.Millisecond)
	cache.Set("k", "v")

	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	time.Sleep(20 * time.Millisecond)
	_, ok = cache.Get("k")
	assert.False(t, ok)
}

func TestCacheStoresNilPointers(t *testing.T) {
	cache := utils.NewCache[*float64](time.Minute)
	cache.Set("dead", nil)

	got, ok := cache.Get("dead")
	require.True(t, ok)
	assert.Nil(t, got)
}
