package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"JerseyFM/model"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// memRedis answers Set/Get from a map; every other command panics.
type memRedis struct {
	redis.Cmdable
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMemRedis() *memRedis {
	return &memRedis{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memRedis) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	if m.err != nil {
		return redis.NewStatusResult("", m.err)
	}
	m.data[key] = value.([]byte)
	m.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (m *memRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func TestReceiptCacheRoundTrip(t *testing.T) {
	mem := newMemRedis()
	c := NewReceiptCache(mem, 0)
	ctx := context.Background()

	in := &model.MintReceipt{AssetID: "A1", Signature: "S1", OwnerAddress: "Addr1"}
	require.NoError(t, c.Save(ctx, in))
	require.Equal(t, DefaultReceiptTTL, mem.ttls["jerseyfm:receipt:A1"])

	out, err := c.Get(ctx, "A1")
	require.NoError(t, err)
	require.Equal(t, "S1", out.Signature)
	require.Equal(t, "Addr1", out.OwnerAddress)
}

func TestReceiptCacheMiss(t *testing.T) {
	out, err := NewReceiptCache(newMemRedis(), time.Minute).Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestReceiptCacheErrors(t *testing.T) {
	mem := newMemRedis()
	mem.err = errors.New("connection refused")
	c := NewReceiptCache(mem, time.Minute)

	require.Error(t, c.Save(context.Background(), &model.MintReceipt{AssetID: "A1"}))
	_, err := c.Get(context.Background(), "A1")
	require.ErrorContains(t, err, "connection refused")

	mem.err = nil
	mem.data[ReceiptKey("bad")] = []byte("{not json")
	_, err = c.Get(context.Background(), "bad")
	require.ErrorContains(t, err, "decode cached receipt")
}
