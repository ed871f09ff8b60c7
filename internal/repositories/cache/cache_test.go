package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopCache_AlwaysMisses(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "dashboard:pipeline", []byte("{}"), time.Minute))
	val, ok, err := c.Get(ctx, "dashboard:pipeline")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)

	n, err := c.Incr(ctx, "dashboard:generation")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisCache_UnreachableServerReturnsError(t *testing.T) {
	c := NewRedis("127.0.0.1:1", "", 0)
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, ok, err := c.Get(ctx, "dashboard:pipeline")
	assert.Error(t, err)
	assert.False(t, ok)
}
