package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

// Config is the typed view over the environment. .env files are loaded by
// godotenv/autoload before Load runs.
type Config struct {
	Port         string
	StoreBackend string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoDBEndpoint   string
	QuotesTable        string
	NotificationsTable string
	ForwardersTable    string

	AdminInboxID         string
	ExpirySweepInterval  time.Duration
	NotifyMaxAttempts    int
	NotifyRetryBaseDelay time.Duration
	NotifyRetryMaxDelay  time.Duration
	DefaultPageSize      int
	MaxPageSize          int
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE_BACKEND", StoreDynamoDB)
	v.SetDefault("AWS_REGION", "us-east-1")
	// Local DynamoDB does not validate credentials, but the AWS SDK requires them.
	v.SetDefault("AWS_ACCESS_KEY_ID", "local")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "local")
	v.SetDefault("DYNAMODB_ENDPOINT", "")
	v.SetDefault("QUOTES_TABLE", "quotes")
	v.SetDefault("NOTIFICATIONS_TABLE", "notifications")
	v.SetDefault("FORWARDERS_TABLE", "forwarders")
	v.SetDefault("ADMIN_INBOX_ID", "admin")
	v.SetDefault("EXPIRY_SWEEP_INTERVAL", "1m")
	v.SetDefault("NOTIFY_MAX_ATTEMPTS", 4)
	v.SetDefault("NOTIFY_RETRY_BASE_DELAY", "100ms")
	v.SetDefault("NOTIFY_RETRY_MAX_DELAY", "2s")
	v.SetDefault("DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("MAX_PAGE_SIZE", 100)

	cfg := &Config{
		Port:                 v.GetString("PORT"),
		StoreBackend:         strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		AWSRegion:            v.GetString("AWS_REGION"),
		AWSAccessKeyID:       v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:   v.GetString("AWS_SECRET_ACCESS_KEY"),
		DynamoDBEndpoint:     v.GetString("DYNAMODB_ENDPOINT"),
		QuotesTable:          v.GetString("QUOTES_TABLE"),
		NotificationsTable:   v.GetString("NOTIFICATIONS_TABLE"),
		ForwardersTable:      v.GetString("FORWARDERS_TABLE"),
		AdminInboxID:         v.GetString("ADMIN_INBOX_ID"),
		ExpirySweepInterval:  v.GetDuration("EXPIRY_SWEEP_INTERVAL"),
		NotifyMaxAttempts:    v.GetInt("NOTIFY_MAX_ATTEMPTS"),
		NotifyRetryBaseDelay: v.GetDuration("NOTIFY_RETRY_BASE_DELAY"),
		NotifyRetryMaxDelay:  v.GetDuration("NOTIFY_RETRY_MAX_DELAY"),
		DefaultPageSize:      v.GetInt("DEFAULT_PAGE_SIZE"),
		MaxPageSize:          v.GetInt("MAX_PAGE_SIZE"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreDynamoDB, StoreMemory:
	default:
		return fmt.Errorf("config: STORE_BACKEND must be %q or %q, got %q", StoreDynamoDB, StoreMemory, c.StoreBackend)
	}
	if c.ExpirySweepInterval <= 0 {
		return fmt.Errorf("config: EXPIRY_SWEEP_INTERVAL must be positive")
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("config: page sizes must satisfy 0 < DEFAULT_PAGE_SIZE <= MAX_PAGE_SIZE")
	}
	if strings.TrimSpace(c.AdminInboxID) == "" {
		return fmt.Errorf("config: ADMIN_INBOX_ID cannot be empty")
	}
	return nil
}
