package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"JerseyFM/model"

	"github.com/go-redis/redis/v8"
)

// DefaultReceiptTTL is how long a mint receipt stays cached.
const DefaultReceiptTTL = 24 * time.Hour

// ReceiptCache keeps recent mint receipts in Redis, keyed by asset id.
type ReceiptCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewReceiptCache creates a cache; ttl <= 0 uses DefaultReceiptTTL.
func NewReceiptCache(client redis.Cmdable, ttl time.Duration) *ReceiptCache {
	if ttl <= 0 {
		ttl = DefaultReceiptTTL
	}
	return &ReceiptCache{client: client, ttl: ttl}
}

// ReceiptKey 生成铸造记录的Redis键
func ReceiptKey(assetID string) string {
	return "jerseyfm:receipt:" + assetID
}

// Save stores r under its asset id.
func (c *ReceiptCache) Save(ctx context.Context, r *model.MintReceipt) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	if err := c.client.Set(ctx, ReceiptKey(r.AssetID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache receipt %s: %w", r.AssetID, err)
	}
	return nil
}

// Get returns the cached receipt, or nil when it is not cached.
func (c *ReceiptCache) Get(ctx context.Context, assetID string) (*model.MintReceipt, error) {
	data, err := c.client.Get(ctx, ReceiptKey(assetID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached receipt %s: %w", assetID, err)
	}
	var r model.MintReceipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode cached receipt %s: %w", assetID, err)
	}
	return &r, nil
}
