package tokens

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*RedisRegistry, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRegistry(client), mr
}

func TestKey(t *testing.T) {
	assert.Equal(t, "user:42:token", Key(42))
}

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	reg, mr := newRegistry(t)

	require.NoError(t, reg.Save(ctx, 7, "tok-1", time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("user:7:token"))

	got, err := reg.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	require.NoError(t, reg.Save(ctx, 7, "tok-2", time.Hour))
	got, err = reg.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got)

	require.NoError(t, reg.Delete(ctx, 7))
	_, err = reg.Get(ctx, 7)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	reg, mr := newRegistry(t)

	require.NoError(t, reg.Save(ctx, 1, "tok", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := reg.Get(ctx, 1)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSave_RejectsNonPositiveTTL(t *testing.T) {
	reg, _ := newRegistry(t)
	require.Error(t, reg.Save(context.Background(), 1, "tok", 0))
}

func TestDelete_MissingIsNoop(t *testing.T) {
	reg, _ := newRegistry(t)
	require.NoError(t, reg.Delete(context.Background(), 99))
}

func TestRedisDown(t *testing.T) {
	ctx := context.Background()
	reg, mr := newRegistry(t)
	mr.Close()

	_, err := reg.Get(ctx, 1)
	require.ErrorContains(t, err, "redis error")
	require.ErrorContains(t, reg.Save(ctx, 1, "tok", time.Minute), "redis error")
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	client, err := Connect(context.Background(), addr, "", 0)
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = Connect(context.Background(), addr, "", 0)
	require.Error(t, err)
}
