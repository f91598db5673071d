package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	Environment string `validate:"required"`
	Version     string
	LogLevel    string `validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFormat   string `validate:"oneof=json text"`
	LogDir      string

	// Storage
	StoreBackend      string `validate:"oneof=postgres sqlite memory"`
	DBUser            string `validate:"required_if=StoreBackend postgres"`
	DBPassword        string
	DBHost            string `validate:"required_if=StoreBackend postgres"`
	DBPort            string `validate:"required_if=StoreBackend postgres"`
	DBName            string `validate:"required_if=StoreBackend postgres"`
	DBSSLMode         string `validate:"oneof=disable allow prefer require verify-ca verify-full"`
	DBMaxConns        int    `validate:"min=1"`
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
	SQLitePath        string `validate:"required_if=StoreBackend sqlite"`
	AutoMigrate       bool

	// Raffle
	AdminSecret      string
	OperationTimeout time.Duration `validate:"gt=0"`
	TxMaxRetries     int           `validate:"min=1"`
	TxRetryBaseDelay time.Duration `validate:"gte=0"`
	ResetBatchSize   int           `validate:"min=1,max=10000"`
	TokenMaxAttempts int           `validate:"min=1"`

	// Projection and transport
	ProjectionRefreshInterval time.Duration `validate:"gt=0"`
	SSEKeepaliveInterval      time.Duration `validate:"gt=0"`
	AdminMaxFailedAttempts    int           `validate:"min=1"`
	AdminLockoutWindow        time.Duration `validate:"gt=0"`
	TrustedProxies            []string
	MaxRequestBodyBytes       int64 `validate:"min=1"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		Version:     getEnv("VERSION", DefaultVersion),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),

		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", StoreBackendPostgres)),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", DefaultDBName),
		DBSSLMode:         getEnv("DB_SSLMODE", DefaultDBSSLMode),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),
		SQLitePath:        getEnv("SQLITE_PATH", DefaultSQLitePath),
		AutoMigrate:       getEnvAsBool("AUTO_MIGRATE", true),

		AdminSecret:      strings.TrimSpace(getEnv("ADMIN_SECRET", "")),
		OperationTimeout: getEnvAsDuration("OPERATION_TIMEOUT", DefaultOperationTimeout),
		TxMaxRetries:     getEnvAsInt("TX_MAX_RETRIES", DefaultTxMaxRetries),
		TxRetryBaseDelay: getEnvAsDuration("TX_RETRY_BASE_DELAY", DefaultTxRetryBaseDelay),
		ResetBatchSize:   getEnvAsInt("RESET_BATCH_SIZE", DefaultResetBatchSize),
		TokenMaxAttempts: getEnvAsInt("TOKEN_MAX_ATTEMPTS", DefaultTokenMaxAttempts),

		ProjectionRefreshInterval: getEnvAsDuration("PROJECTION_REFRESH_INTERVAL", DefaultProjectionRefreshInterval),
		SSEKeepaliveInterval:      getEnvAsDuration("SSE_KEEPALIVE_INTERVAL", DefaultSSEKeepaliveInterval),
		AdminMaxFailedAttempts:    getEnvAsInt("ADMIN_MAX_FAILED_ATTEMPTS", DefaultAdminMaxFailedAttempts),
		AdminLockoutWindow:        getEnvAsDuration("ADMIN_LOCKOUT_WINDOW", DefaultAdminLockoutWindow),
		TrustedProxies:            getEnvAsList("TRUSTED_PROXIES"),
		MaxRequestBodyBytes:       int64(getEnvAsInt("MAX_REQUEST_BODY_BYTES", DefaultMaxRequestBodyBytes)),
	}

	portStr := getEnv("PORT", DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints declared in struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidConfig, err)
	}
	return nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// IsProduction reports whether the environment is a production one
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction || c.Environment == "prod"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default when unset or malformed
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}

// getEnvAsDuration parses a Go duration string such as "10s"
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
