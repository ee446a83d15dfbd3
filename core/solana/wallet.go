// Package solana holds the operator wallet used to fund storage uploads.
package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"JerseyFM/logger"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

var (
	ErrEmptyKey       = errors.New("solana: operator private key is empty")
	ErrEmptyRecipient = errors.New("solana: transfer recipient is empty")
	ErrZeroAmount     = errors.New("solana: transfer amount is zero")
	ErrBadRecipient   = errors.New("solana: transfer recipient is not a valid address")
)

// Wallet signs and sends SOL transfers from the operator account.
type Wallet struct {
	account types.Account
	rpc     *client.Client
}

// NewWallet builds a wallet from a private key and the RPC endpoint used to
// submit transactions.
func NewWallet(privateKey, rpcURL string) (*Wallet, error) {
	acc, err := ParseAccount(privateKey)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rpcURL) == "" {
		return nil, fmt.Errorf("solana: rpc url is empty")
	}
	logger.Info("operator wallet loaded", logger.String("address", acc.PublicKey.ToBase58()))
	return &Wallet{account: acc, rpc: client.NewClient(rpcURL)}, nil
}

// ParseAccount accepts either a base58 secret key (Phantom export) or a
// solana-keygen JSON byte array.
func ParseAccount(privateKey string) (types.Account, error) {
	key := strings.TrimSpace(privateKey)
	if key == "" {
		return types.Account{}, ErrEmptyKey
	}
	if strings.HasPrefix(key, "[") {
		var raw []int
		if err := json.Unmarshal([]byte(key), &raw); err != nil {
			return types.Account{}, fmt.Errorf("solana: decode keypair json: %w", err)
		}
		if len(raw) != ed25519.PrivateKeySize {
			return types.Account{}, fmt.Errorf("solana: unexpected keypair length %d, want %d", len(raw), ed25519.PrivateKeySize)
		}
		b := make([]byte, len(raw))
		for i, v := range raw {
			b[i] = byte(v)
		}
		acc, err := types.AccountFromBytes(b)
		if err != nil {
			return types.Account{}, fmt.Errorf("solana: account from bytes: %w", err)
		}
		return acc, nil
	}
	acc, err := types.AccountFromBase58(key)
	if err != nil {
		return types.Account{}, fmt.Errorf("solana: account from base58: %w", err)
	}
	return acc, nil
}

// Address returns the operator's base58 public key.
func (w *Wallet) Address() string {
	return w.account.PublicKey.ToBase58()
}

// PublicKey returns the raw 32-byte ed25519 public key.
func (w *Wallet) PublicKey() []byte {
	return w.account.PublicKey.Bytes()
}

// Sign signs msg with the operator key.
func (w *Wallet) Sign(msg []byte) []byte {
	return w.account.Sign(msg)
}

// parseAddress decodes a base58 public key. common.PublicKeyFromString
// swallows decode errors, so the length is checked here.
func parseAddress(addr string) (common.PublicKey, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: %v", ErrBadRecipient, err)
	}
	if len(raw) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("%w: %d bytes, want %d", ErrBadRecipient, len(raw), common.PublicKeyLength)
	}
	return common.PublicKeyFromBytes(raw), nil
}

// Transfer sends lamports to a base58 address and returns the transaction
// signature. It does not wait for confirmation.
func (w *Wallet) Transfer(ctx context.Context, to string, lamports uint64) (string, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return "", ErrEmptyRecipient
	}
	if lamports == 0 {
		return "", ErrZeroAmount
	}
	recipient, err := parseAddress(to)
	if err != nil {
		return "", err
	}

	recent, err := w.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("solana: get latest blockhash: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{w.account},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        w.account.PublicKey,
			RecentBlockhash: recent.Blockhash,
			Instructions: []types.Instruction{
				system.Transfer(system.TransferParam{
					From:   w.account.PublicKey,
					To:     recipient,
					Amount: lamports,
				}),
			},
		}),
	})
	if err != nil {
		return "", fmt.Errorf("solana: build transfer: %w", err)
	}

	sig, err := w.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("solana: send transfer: %w", err)
	}

	logger.Info("funding transfer sent",
		logger.String("to", to),
		logger.Uint64("lamports", lamports),
		logger.String("signature", sig))
	return sig, nil
}
