package server

import (
	"context"
	"errors"

	"JerseyFM/logger"
	"JerseyFM/model"
)

// ReceiptStore is one place receipts can be kept.
type ReceiptStore interface {
	Save(ctx context.Context, r *model.MintReceipt) error
	Get(ctx context.Context, assetID string) (*model.MintReceipt, error)
}

// ReceiptLedger is the durable store, which can also list by owner.
type ReceiptLedger interface {
	ReceiptStore
	ListByOwner(ctx context.Context, owner string, limit int) ([]*model.MintReceipt, error)
}

// ErrNoLedger is returned by listing calls when no ledger is configured.
var ErrNoLedger = errors.New("receipt ledger not configured")

// ReceiptBook records finished mints in the Redis cache and the MySQL
// ledger. Either store may be absent.
type ReceiptBook struct {
	cache  ReceiptStore
	ledger ReceiptLedger
}

// NewReceiptBook creates a book. Pass untyped nil for a store that is not
// configured.
func NewReceiptBook(cache ReceiptStore, ledger ReceiptLedger) *ReceiptBook {
	return &ReceiptBook{cache: cache, ledger: ledger}
}

// Record writes r to every configured store. Failures are logged only: a
// receipt that cannot be stored never fails the mint it describes.
func (b *ReceiptBook) Record(ctx context.Context, r *model.MintReceipt) {
	if b == nil {
		return
	}
	if b.ledger != nil {
		if err := b.ledger.Save(ctx, r); err != nil {
			logger.Warn("failed to persist mint receipt",
				logger.String("assetId", r.AssetID),
				logger.ErrorField(err))
		}
	}
	if b.cache != nil {
		if err := b.cache.Save(ctx, r); err != nil {
			logger.Warn("failed to cache mint receipt",
				logger.String("assetId", r.AssetID),
				logger.ErrorField(err))
		}
	}
}

// Get looks in the cache first, then the ledger, backfilling the cache on a
// ledger hit. It returns nil when the receipt is unknown.
func (b *ReceiptBook) Get(ctx context.Context, assetID string) (*model.MintReceipt, error) {
	if b == nil {
		return nil, nil
	}
	if b.cache != nil {
		r, err := b.cache.Get(ctx, assetID)
		if err != nil {
			logger.Warn("receipt cache lookup failed", logger.String("assetId", assetID), logger.ErrorField(err))
		} else if r != nil {
			return r, nil
		}
	}
	if b.ledger == nil {
		return nil, nil
	}
	r, err := b.ledger.Get(ctx, assetID)
	if err != nil || r == nil {
		return nil, err
	}
	if b.cache != nil {
		if err := b.cache.Save(ctx, r); err != nil {
			logger.Debug("receipt cache backfill failed", logger.ErrorField(err))
		}
	}
	return r, nil
}

// ListByOwner returns an owner's most recent receipts from the ledger.
func (b *ReceiptBook) ListByOwner(ctx context.Context, owner string, limit int) ([]*model.MintReceipt, error) {
	if b == nil || b.ledger == nil {
		return nil, ErrNoLedger
	}
	return b.ledger.ListByOwner(ctx, owner, limit)
}
