package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
// Everything the mint pipeline needs is resolved here once and handed to
// constructors explicitly.
type Config struct {
	Port      string
	PublicDir string // Directory the frontend drops cover/audio files into

	// Staging backend for cover/audio files: "local" (PublicDir) or "minio".
	StagingBackend string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	// Irys storage network
	IrysNodeURL    string // e.g. https://node1.irys.xyz
	IrysGateway    string // host only, e.g. gateway.irys.xyz
	IrysCurrency   string // funding token, "solana"
	IrysPrivateKey string // operator key, base58 or solana-keygen JSON array
	SolanaRPCURL   string // provider used to send funding transfers

	// Compressed NFT minting endpoint (Helius RPC)
	MintRPCURL string

	JWTSecret string // empty disables auth on the mint endpoints

	// Redis配置
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// MySQL ledger; empty DBHost disables receipt persistence
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	LogLevel      string
	LogFile       string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	// The mint RPC doubles as the funding provider unless told otherwise.
	mintRPC := os.Getenv("HELIUS_RPC_URL")

	return &Config{
		Port:      getEnv("PORT", "8080"),
		PublicDir: getEnv("PUBLIC_DIR", "public"),

		StagingBackend: getEnv("STAGING_BACKEND", "local"),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "jerseyfm-staging"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		IrysNodeURL:    getEnv("IRYS_NODE_URL", "https://node1.irys.xyz"),
		IrysGateway:    getEnv("IRYS_GATEWAY_HOST", "gateway.irys.xyz"),
		IrysCurrency:   getEnv("IRYS_CURRENCY", "solana"),
		IrysPrivateKey: os.Getenv("IRYS_PRIVATE_KEY"),
		SolanaRPCURL:   getEnv("SOLANA_RPC_URL", mintRPC),

		MintRPCURL: mintRPC,

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "jerseyfm"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSize:    getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAge:     getEnvInt("LOG_MAX_AGE_DAYS", 30),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// RedisEnabled reports whether a receipt cache should be connected.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// DBEnabled reports whether the receipt ledger should be connected.
func (c *Config) DBEnabled() bool {
	return c.DBHost != ""
}
