package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the .env layout version the application expects
const ExpectedEnvSchemaVersion = "1.0"

// Example values shipped in .env.example that must not reach production
const (
	ExampleDBPassword  = "change_this_secure_password"
	ExampleAdminSecret = "change_this_admin_code"
)

// RequiredEnvVars lists the variables every deployment must set, per backend
var RequiredEnvVars = map[string][]string{
	StoreBackendPostgres: {"ENV_SCHEMA_VERSION", "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME"},
	StoreBackendSQLite:   {"ENV_SCHEMA_VERSION", "SQLITE_PATH"},
	StoreBackendMemory:   {"ENV_SCHEMA_VERSION"},
}

// ValidateEnv checks that all required environment variables are set
// and that the schema version matches expectations
func ValidateEnv() error {
	schemaVersion := os.Getenv("ENV_SCHEMA_VERSION")
	if schemaVersion == "" {
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)", ExpectedEnvSchemaVersion)
	}

	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, schemaVersion)
	}

	backend := strings.ToLower(getEnv("STORE_BACKEND", StoreBackendPostgres))
	required, ok := RequiredEnvVars[backend]
	if !ok {
		return fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}

	var missing []string
	for _, envVar := range required {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Warnings returns non-fatal issues with a loaded configuration
func Warnings(cfg *Config) []string {
	var warnings []string

	if cfg.AdminSecret == "" {
		warnings = append(warnings, "ADMIN_SECRET is empty - the raffle pool will not be created at startup and admin login stays disabled until one is set")
	} else if cfg.AdminSecret == ExampleAdminSecret {
		warnings = append(warnings, "ADMIN_SECRET appears to be using the example value - choose a private admin code")
	}

	if cfg.StoreBackend == StoreBackendPostgres && cfg.DBPassword == ExampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}

	if cfg.StoreBackend == StoreBackendMemory && cfg.IsProduction() {
		warnings = append(warnings, "STORE_BACKEND=memory loses all participants on restart")
	}

	return warnings
}
