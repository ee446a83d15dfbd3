package server

import (
	"context"
	"fmt"

	"JerseyFM/config"
	"JerseyFM/core/irys"
	"JerseyFM/core/mint"
	"JerseyFM/core/pipeline"
	"JerseyFM/core/solana"
	"JerseyFM/storage"
)

// Stack is the mint pipeline together with the pieces the CLI also drives
// directly (quotes, balances, staged file lookups).
type Stack struct {
	Source   storage.Source
	Wallet   *solana.Wallet
	Uploader *irys.Uploader
	Pipeline *pipeline.Pipeline
}

// Assemble builds the pipeline from configuration.
func Assemble(ctx context.Context, cfg *config.Config) (*Stack, error) {
	source, err := storage.NewSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("staging source: %w", err)
	}

	wallet, err := solana.NewWallet(cfg.IrysPrivateKey, cfg.SolanaRPCURL)
	if err != nil {
		return nil, fmt.Errorf("operator wallet: %w", err)
	}

	node := irys.NewNodeClient(cfg.IrysNodeURL, cfg.IrysCurrency)
	uploader := irys.NewUploader(node, wallet, source, cfg.IrysGateway)
	submitter := mint.NewSubmitter(cfg.MintRPCURL)

	return &Stack{
		Source:   source,
		Wallet:   wallet,
		Uploader: uploader,
		Pipeline: pipeline.New(uploader, submitter),
	}, nil
}
