package repository

import (
	"context"
	"errors"
	"fmt"

	"JerseyFM/model"

	"gorm.io/gorm"
)

// ReceiptRepository persists mint receipts in the MySQL ledger.
type ReceiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a repository over gdb.
func NewReceiptRepository(gdb *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: gdb}
}

// Migrate creates or updates the mint_receipts table.
func (r *ReceiptRepository) Migrate() error {
	return r.db.AutoMigrate(&model.MintReceipt{})
}

// Save inserts a receipt.
func (r *ReceiptRepository) Save(ctx context.Context, receipt *model.MintReceipt) error {
	if err := r.db.WithContext(ctx).Create(receipt).Error; err != nil {
		return fmt.Errorf("failed to save receipt %s: %w", receipt.AssetID, err)
	}
	return nil
}

// Get returns the receipt for assetID, or nil when none exists.
func (r *ReceiptRepository) Get(ctx context.Context, assetID string) (*model.MintReceipt, error) {
	var receipt model.MintReceipt
	err := r.db.WithContext(ctx).Where("asset_id = ?", assetID).First(&receipt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get receipt %s: %w", assetID, err)
	}
	return &receipt, nil
}

// ListByOwner returns an owner's receipts, newest first.
func (r *ReceiptRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]*model.MintReceipt, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var receipts []*model.MintReceipt
	err := r.db.WithContext(ctx).
		Where("owner_address = ?", owner).
		Order("created_at DESC").
		Limit(limit).
		Find(&receipts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts for %s: %w", owner, err)
	}
	return receipts, nil
}
