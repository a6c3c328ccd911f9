package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// EnvDevelopment is the only APP_ENV allowed to run without JWT_SECRET.
const EnvDevelopment = "development"

const (
	defaultDatabasePath       = "genealogy.db"
	defaultJWTExpirationHours = 24
	defaultRequestTimeout     = 60
	defaultPort               = "8080"
	defaultAllowedOrigins     = "http://localhost:5173"

	// used when JWT_SECRET is unset; never fit for a deployed instance
	developmentJWTSecret = "development-only-secret-change-me"
)

type Config struct {
	AppEnv string // development, production, ...

	// database selection
	DatabaseDriver string // sqlite or postgres
	DatabasePath   string // sqlite file
	DatabaseDSN    string // postgres connection string
	DBLogLevel     string // silent, error, warn, info

	// auth token settings
	JWTSecret          []byte
	JWTExpirationHours int

	// http server
	Port                  string
	AllowedOrigins        []string
	RequestTimeoutSeconds int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func LoadConfig() (Config, error) {
	driver := strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite))
	if driver != DriverSQLite && driver != DriverPostgres {
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER '%s' (expected %s or %s)", driver, DriverSQLite, DriverPostgres)
	}

	dsn := os.Getenv("DATABASE_DSN")
	if driver == DriverPostgres && dsn == "" {
		return Config{}, fmt.Errorf("DATABASE_DSN is required when DATABASE_DRIVER is %s", DriverPostgres)
	}

	appEnv := strings.ToLower(getEnvOrDefault("APP_ENV", EnvDevelopment))

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if appEnv != EnvDevelopment {
			return Config{}, fmt.Errorf("JWT_SECRET is required when APP_ENV is '%s'", appEnv)
		}
		log.Printf("Warning: JWT_SECRET is not set, using the development secret")
		secret = developmentJWTSecret
	}

	cfg := Config{
		AppEnv:                appEnv,
		DatabaseDriver:        driver,
		DatabasePath:          getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		DatabaseDSN:           dsn,
		DBLogLevel:            strings.ToLower(getEnvOrDefault("DB_LOG_LEVEL", "warn")),
		JWTSecret:             []byte(secret),
		JWTExpirationHours:    getEnvIntOrDefault("JWT_EXPIRATION_HOURS", defaultJWTExpirationHours),
		Port:                  getEnvOrDefault("PORT", defaultPort),
		AllowedOrigins:        splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins)),
		RequestTimeoutSeconds: getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout),
	}

	return cfg, nil
}
