package irys

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"JerseyFM/storage"

	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	price      uint64
	balance    uint64
	priceErr   error
	balanceErr error
	fundErr    error
	postErr    error

	calls      []string
	registered []string
	posted     [][]byte
}

func (n *fakeNode) Price(_ context.Context, size int64) (uint64, error) {
	n.calls = append(n.calls, "price")
	return n.price, n.priceErr
}

func (n *fakeNode) Balance(_ context.Context, address string) (uint64, error) {
	n.calls = append(n.calls, "balance")
	return n.balance, n.balanceErr
}

func (n *fakeNode) BundlerAddress(context.Context) (string, error) {
	n.calls = append(n.calls, "info")
	return "Bund1er", nil
}

func (n *fakeNode) RegisterFunding(_ context.Context, txID string) error {
	n.calls = append(n.calls, "register")
	if n.fundErr != nil {
		return n.fundErr
	}
	n.registered = append(n.registered, txID)
	return nil
}

func (n *fakeNode) PostDataItem(_ context.Context, item []byte) (string, error) {
	n.calls = append(n.calls, "post")
	if n.postErr != nil {
		return "", n.postErr
	}
	n.posted = append(n.posted, item)
	return "item-id", nil
}

type fakeWallet struct {
	*keySigner
	transfers []uint64
	err       error
}

func (w *fakeWallet) Address() string { return "Op3rator" }

func (w *fakeWallet) Transfer(_ context.Context, to string, lamports uint64) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.transfers = append(w.transfers, lamports)
	return "transfer-sig", nil
}

func stagedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover-1.png"), []byte("0123456789"), 0o644))
	return dir
}

func TestUploadWithSufficientBalanceSkipsFunding(t *testing.T) {
	node := &fakeNode{price: 100, balance: 1000}
	wallet := &fakeWallet{keySigner: newKeySigner(t)}
	u := NewUploader(node, wallet, storage.NewLocalSource(stagedDir(t)), "gateway.irys.xyz")

	res, err := u.Upload(context.Background(), "cover-1.png", "Cover Image")
	require.NoError(t, err)
	require.Equal(t, "https://gateway.irys.xyz/item-id", res.URL)
	require.Equal(t, "item-id", res.ID)
	require.Equal(t, int64(10), res.ByteSize)

	require.Equal(t, []string{"price", "balance", "post"}, node.calls)
	require.Empty(t, wallet.transfers)
	require.Len(t, node.posted, 1)
}

func TestUploadFundsShortBalanceBeforeUploading(t *testing.T) {
	node := &fakeNode{price: 5000, balance: 10}
	wallet := &fakeWallet{keySigner: newKeySigner(t)}
	u := NewUploader(node, wallet, storage.NewLocalSource(stagedDir(t)), "https://gateway.irys.xyz/")

	res, err := u.Upload(context.Background(), "cover-1.png", "Cover Image")
	require.NoError(t, err)
	require.Equal(t, "https://gateway.irys.xyz/item-id", res.URL)

	require.Equal(t, []string{"price", "balance", "info", "register", "post"}, node.calls)
	require.Equal(t, []uint64{5000}, wallet.transfers)
	require.Equal(t, []string{"transfer-sig"}, node.registered)
}

func TestUploadFailuresAreStorageErrors(t *testing.T) {
	boom := errors.New("boom")

	cases := []struct {
		name   string
		node   *fakeNode
		wallet func(*fakeWallet)
		file   string
		op     string
	}{
		{name: "missing file", node: &fakeNode{}, file: "absent.png", op: "stat"},
		{name: "price", node: &fakeNode{priceErr: boom}, file: "cover-1.png", op: "price"},
		{name: "balance", node: &fakeNode{price: 1, balanceErr: boom}, file: "cover-1.png", op: "fund"},
		{name: "transfer", node: &fakeNode{price: 10}, wallet: func(w *fakeWallet) { w.err = boom }, file: "cover-1.png", op: "fund"},
		{name: "register", node: &fakeNode{price: 10, fundErr: boom}, file: "cover-1.png", op: "fund"},
		{name: "post", node: &fakeNode{postErr: boom}, file: "cover-1.png", op: "upload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wallet := &fakeWallet{keySigner: newKeySigner(t)}
			if tc.wallet != nil {
				tc.wallet(wallet)
			}
			u := NewUploader(tc.node, wallet, storage.NewLocalSource(stagedDir(t)), "gateway.irys.xyz")

			res, err := u.Upload(context.Background(), tc.file, "Cover Image")
			require.Nil(t, res)

			var se *StorageError
			require.True(t, errors.As(err, &se))
			require.Equal(t, tc.op, se.Op)
			require.Equal(t, "Cover Image", se.Label)
			require.Contains(t, err.Error(), "Cover Image "+tc.op+" failed")
		})
	}
}

func TestFundingFailureNeverUploads(t *testing.T) {
	node := &fakeNode{price: 10, fundErr: errors.New("rejected")}
	wallet := &fakeWallet{keySigner: newKeySigner(t)}
	u := NewUploader(node, wallet, storage.NewLocalSource(stagedDir(t)), "gateway.irys.xyz")

	_, err := u.Upload(context.Background(), "cover-1.png", "Cover Image")
	require.Error(t, err)
	require.NotContains(t, node.calls, "post")
}

func TestContentTypeAndFormatSOL(t *testing.T) {
	require.Equal(t, "image/png", contentType("cover-1.PNG"))
	require.Equal(t, "application/octet-stream", contentType("blob.zzzunknown"))

	require.Equal(t, "0.000005000", formatSOL(5000))
	require.Equal(t, "1.500000000", formatSOL(1_500_000_000))
}
