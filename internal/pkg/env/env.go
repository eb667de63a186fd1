package env

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var Env map[string]string

// RequiredKeys are external credentials the portal cannot run without.
// Startup fails fast with a descriptive error when any of them is missing.
var RequiredKeys = []string{
	"DB_USER",
	"DB_PASSWORD",
	"DB_NAME",
	"PAYMENT_GATEWAY_URL",
	"PAYMENT_API_KEY",
	"PAYMENT_WEBHOOK_SECRET",
	"SMTP_HOST",
}

func GetEnv(key, def string) string {
	// First check our loaded Env map
	if val, ok := Env[key]; ok {
		return val
	}
	// Fallback to OS environment variables (for Docker/tests)
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func SetupEnvFile() {
	// Look for .env file in project root
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/pairmatch to project root
		"../../../.env", // Fallback for deeper nesting
	}

	for _, envFile := range envFiles {
		if m, err := godotenv.Read(envFile); err == nil {
			Env = m
			return
		}
	}

	// No .env file; rely on the process environment (Docker, CI).
	Env = map[string]string{}
}

// ValidateRequired reports every missing required key in one error so a
// misconfigured deployment fails once with the full picture.
func ValidateRequired() error {
	var missing []string
	for _, key := range RequiredKeys {
		if strings.TrimSpace(GetEnv(key, "")) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
