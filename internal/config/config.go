// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
)

// Config holds all runtime configuration values. Database access is
// configured either through a single DSN (DATABASE_DSN, which takes
// precedence) or through the discrete DB_* variables with local-development
// defaults.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DatabaseDSN string // full MySQL DSN; overrides the discrete settings when set
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	AdminKey    string // shared key protecting the /admin surface
}

// Load reads configuration from the environment. ADMIN_API_KEY has no
// default and must be present; the process exits otherwise so a deployment
// can never come up with the admin surface unprotected.
func Load() Config {
	return Config{
		Env:         envStr("APP_ENV", "dev"),
		Port:        envStr("APP_PORT", "8080"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		DBUser:      envStr("DB_USER", "evently_user"),
		DBPass:      os.Getenv("DB_PASS"),
		DBHost:      envStr("DB_HOST", "localhost"),
		DBPort:      envStr("DB_PORT", "3306"),
		DBName:      envStr("DB_NAME", "evently"),
		AdminKey:    must("ADMIN_API_KEY"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
