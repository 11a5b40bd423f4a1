package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemember_WithoutRedisAlwaysLoads(t *testing.T) {
	RDB = nil
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"Phở", "Bún"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := Remember(context.Background(), "categories", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"Phở", "Bún"}, got)
	}
	assert.Equal(t, 2, calls)
}

func TestRemember_PropagatesLoadError(t *testing.T) {
	RDB = nil
	_, err := Remember(context.Background(), "categories", time.Minute, func(context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
}

func TestNoopWithoutClient(t *testing.T) {
	RDB = nil
	ctx := context.Background()
	var dest string
	assert.False(t, Get(ctx, "k", &dest))
	assert.NoError(t, Set(ctx, "k", "v", time.Second))
	assert.NoError(t, Forget(ctx, "k"))
	assert.NoError(t, Close())
}
