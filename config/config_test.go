package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HELIUS_RPC_URL", "https://mainnet.helius-rpc.com/?api-key=k")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("DB_HOST", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.Equal(t, "local", cfg.StagingBackend)
	assert.Equal(t, "https://node1.irys.xyz", cfg.IrysNodeURL)
	assert.Equal(t, "gateway.irys.xyz", cfg.IrysGateway)
	assert.Equal(t, "solana", cfg.IrysCurrency)
	assert.Equal(t, "https://mainnet.helius-rpc.com/?api-key=k", cfg.MintRPCURL)
	assert.Equal(t, cfg.MintRPCURL, cfg.SolanaRPCURL, "funding falls back to the mint RPC")
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.DBEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HELIUS_RPC_URL", "https://helius.example")
	t.Setenv("SOLANA_RPC_URL", "https://solana.example")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DB_HOST", "mysql")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("LOG_MAX_SIZE_MB", "not-a-number")

	cfg := Load()
	assert.Equal(t, "https://solana.example", cfg.SolanaRPCURL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.DBEnabled())
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, 100, cfg.LogMaxSize)
}
