package database

import (
	"context"
	"testing"

	"credit-console/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	_, err = client.Get(ctx, "credit-console:theme")
	assert.True(t, IsNil(err))

	require.NoError(t, client.Set(ctx, "credit-console:theme", "dark", 0))
	got, err := client.Get(ctx, "credit-console:theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got)

	require.NoError(t, client.Del(ctx, "credit-console:theme"))
	assert.False(t, mr.Exists("credit-console:theme"))
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestRedisClient_PingFailsWhenServerGone(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}
