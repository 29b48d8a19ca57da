package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Gong      GongConfig
	Zoom      ZoomConfig
	Anthropic AnthropicConfig
	Assembly  AssemblyConfig
	Sync      SyncConfig
	Mining    MiningConfig
	Worker    WorkerConfig
	Auth      AuthConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"conversation_miner"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// RedisConfig holds Redis configuration. An empty Addr disables Redis and
// falls back to the in-process cache.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"conversation-media"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string `envconfig:"STORAGE_PUBLIC_URL" default:""`
}

// GongConfig holds Gong API credentials
type GongConfig struct {
	AccessKey string `envconfig:"GONG_ACCESS_KEY" default:""`
	Secret    string `envconfig:"GONG_ACCESS_KEY_SECRET" default:""`
	BaseURL   string `envconfig:"GONG_BASE_URL" default:"https://us-11211.api.gong.io"`
}

// ZoomConfig holds Zoom server-to-server OAuth credentials
type ZoomConfig struct {
	AccountID     string `envconfig:"ZOOM_ACCOUNT_ID" default:""`
	ClientID      string `envconfig:"ZOOM_CLIENT_ID" default:""`
	ClientSecret  string `envconfig:"ZOOM_CLIENT_SECRET" default:""`
	BaseURL       string `envconfig:"ZOOM_BASE_URL" default:"https://api.zoom.us"`
	OAuthURL      string `envconfig:"ZOOM_OAUTH_URL" default:"https://zoom.us/oauth/token"`
	WebhookSecret string `envconfig:"ZOOM_WEBHOOK_SECRET" default:""`
}

// AnthropicConfig holds LLM service configuration
type AnthropicConfig struct {
	APIKey  string `envconfig:"ANTHROPIC_API_KEY" default:""`
	Model   string `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-5"`
	BaseURL string `envconfig:"ANTHROPIC_BASE_URL" default:"https://api.anthropic.com"`
}

// AssemblyConfig holds fallback transcription configuration
type AssemblyConfig struct {
	APIKey  string `envconfig:"ASSEMBLYAI_API_KEY" default:""`
	Enabled bool   `envconfig:"FALLBACK_TRANSCRIPTION" default:"false"`
}

// SyncConfig holds sync orchestration configuration
type SyncConfig struct {
	BatchSize    int           `envconfig:"SYNC_BATCH_SIZE" default:"50"`
	Concurrency  int           `envconfig:"SYNC_CONCURRENCY" default:"5"`
	LeaseTimeout time.Duration `envconfig:"SYNC_LEASE_TIMEOUT" default:"30m"`
	UserCacheTTL time.Duration `envconfig:"USER_CACHE_TTL" default:"15m"`
}

// MiningConfig holds mining engine configuration
type MiningConfig struct {
	KnowledgeMaxChars int `envconfig:"KNOWLEDGE_MAX_CHARS" default:"80000"`
}

// WorkerConfig holds background worker configuration
type WorkerConfig struct {
	PollInterval   time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"5s"`
	Slots          int           `envconfig:"WORKER_SLOTS" default:"2"`
	JobMaxAttempts int           `envconfig:"JOB_MAX_ATTEMPTS" default:"3"`
}

// AuthConfig holds API auth configuration
type AuthConfig struct {
	Enabled    bool          `envconfig:"AUTH_ENABLED" default:"false"`
	JWTSecret  string        `envconfig:"JWT_SECRET" default:""`
	JWTExpiry  time.Duration `envconfig:"JWT_EXPIRY" default:"168h"`
	DefaultOrg string        `envconfig:"DEFAULT_ORG" default:"default"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is true")
	}
	if c.Assembly.Enabled && c.Assembly.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required when FALLBACK_TRANSCRIPTION is true")
	}
	if c.Sync.BatchSize < 1 {
		return fmt.Errorf("SYNC_BATCH_SIZE must be at least 1")
	}
	if c.Sync.Concurrency < 1 {
		return fmt.Errorf("SYNC_CONCURRENCY must be at least 1")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
