// Package irys uploads files to the Irys storage network, paying for them
// out of the operator's prepaid node balance.
package irys

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"JerseyFM/logger"
	"JerseyFM/model"
	"JerseyFM/storage"
)

const lamportsPerSOL = 1_000_000_000

// Node is the subset of the bundler node API the uploader drives.
type Node interface {
	Price(ctx context.Context, size int64) (uint64, error)
	Balance(ctx context.Context, address string) (uint64, error)
	BundlerAddress(ctx context.Context) (string, error)
	RegisterFunding(ctx context.Context, txID string) error
	PostDataItem(ctx context.Context, item []byte) (string, error)
}

// Wallet is the operator identity: it signs data items and pays the node.
type Wallet interface {
	Signer
	Address() string
	Transfer(ctx context.Context, to string, lamports uint64) (string, error)
}

// StorageError is returned for every failure of an upload. Op names the
// step that failed: stat, price, balance, fund, read, sign or upload.
type StorageError struct {
	Op    string
	Label string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Label, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Uploader prices, funds and uploads staged files.
type Uploader struct {
	node        Node
	wallet      Wallet
	source      storage.Source
	gatewayHost string
	appName     string
}

// NewUploader wires an uploader. gatewayHost is a bare host such as
// gateway.irys.xyz.
func NewUploader(node Node, wallet Wallet, source storage.Source, gatewayHost string) *Uploader {
	return &Uploader{
		node:        node,
		wallet:      wallet,
		source:      source,
		gatewayHost: strings.Trim(strings.TrimPrefix(gatewayHost, "https://"), "/"),
		appName:     "JerseyFM",
	}
}

// GatewayURL builds the public retrieval URL for a content id.
func GatewayURL(host, id string) string {
	return "https://" + host + "/" + id
}

// Quote asks the node what storing size bytes costs right now.
func (u *Uploader) Quote(ctx context.Context, size int64) (model.FundingQuote, error) {
	price, err := u.node.Price(ctx, size)
	if err != nil {
		return model.FundingQuote{}, err
	}
	return model.FundingQuote{CostAtomicUnits: price}, nil
}

// Balance returns the operator's prepaid balance on the node.
func (u *Uploader) Balance(ctx context.Context) (uint64, error) {
	return u.node.Balance(ctx, u.wallet.Address())
}

// EnsureFunded tops up the node balance by the quoted cost when the current
// balance does not cover it. It returns the amount funded (0 if none).
func (u *Uploader) EnsureFunded(ctx context.Context, quote model.FundingQuote) (uint64, error) {
	balance, err := u.Balance(ctx)
	if err != nil {
		return 0, err
	}
	if balance >= quote.CostAtomicUnits {
		return 0, nil
	}

	to, err := u.node.BundlerAddress(ctx)
	if err != nil {
		return 0, err
	}
	txID, err := u.wallet.Transfer(ctx, to, quote.CostAtomicUnits)
	if err != nil {
		return 0, err
	}
	if err := u.node.RegisterFunding(ctx, txID); err != nil {
		return 0, err
	}

	logger.Info("storage balance funded",
		logger.Uint64("balance", balance),
		logger.Uint64("funded", quote.CostAtomicUnits),
		logger.String("txId", txID))
	return quote.CostAtomicUnits, nil
}

// Upload stores the staged file name on the network. label names the file
// in logs and errors ("Cover Image", "Audio File").
func (u *Uploader) Upload(ctx context.Context, name, label string) (*model.UploadResult, error) {
	fail := func(op string, err error) (*model.UploadResult, error) {
		return nil, &StorageError{Op: op, Label: label, Err: err}
	}

	size, err := u.source.Stat(ctx, name)
	if err != nil {
		return fail("stat", err)
	}

	quote, err := u.Quote(ctx, size)
	if err != nil {
		return fail("price", err)
	}
	logger.Info(fmt.Sprintf("Uploading %s (%d bytes) costs %s SOL", label, size, formatSOL(quote.CostAtomicUnits)),
		logger.String("file", name),
		logger.Int64("bytes", size),
		logger.Uint64("lamports", quote.CostAtomicUnits))

	if _, err := u.EnsureFunded(ctx, quote); err != nil {
		return fail("fund", err)
	}

	data, err := u.readAll(ctx, name)
	if err != nil {
		return fail("read", err)
	}
	if int64(len(data)) != size {
		return fail("read", fmt.Errorf("%s changed size during upload: priced %d bytes, read %d", name, size, len(data)))
	}

	item, err := NewDataItem(data, u.tagsFor(name), u.wallet)
	if err != nil {
		return fail("sign", err)
	}

	id, err := u.node.PostDataItem(ctx, item.Raw)
	if err != nil {
		return fail("upload", err)
	}

	result := &model.UploadResult{
		ID:       id,
		URL:      GatewayURL(u.gatewayHost, id),
		ByteSize: size,
	}
	logger.Info(fmt.Sprintf("%s uploaded: %s", label, result.URL), logger.String("id", id))
	return result, nil
}

func (u *Uploader) readAll(ctx context.Context, name string) ([]byte, error) {
	rc, err := u.source.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (u *Uploader) tagsFor(name string) []Tag {
	return []Tag{
		{Name: "Content-Type", Value: contentType(name)},
		{Name: "App-Name", Value: u.appName},
	}
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func formatSOL(lamports uint64) string {
	return fmt.Sprintf("%d.%09d", lamports/lamportsPerSOL, lamports%lamportsPerSOL)
}
