package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Env holds all configuration for the service.
type Env struct {
	AppAddr string
	GinMode string

	MySQLDSN string

	JWTSecret string
	JWTTTL    time.Duration

	// Booking policy
	HoldTTL            time.Duration
	MaxSeatsPerBooking int

	// Issuance
	IssuanceBackend string // "ethereum" or "solana"
	IssuanceRetries int
	IssuanceBackoff time.Duration

	SweepInterval time.Duration

	SeedRoutes bool
}

// LoadEnv reads configuration from the environment, loading .env first
// when present.
func LoadEnv() Env {
	godotenv.Load()

	return Env{
		AppAddr: getEnv("APP_ADDR", ":8080"),
		GinMode: getEnv("GIN_MODE", ""),

		MySQLDSN: getEnv("MYSQL_DSN", ""),

		JWTSecret: getEnv("JWT_SECRET", "super-secret-key-change-me"),
		JWTTTL:    getEnvAsDuration("JWT_TTL_HOURS", 24*time.Hour, time.Hour),

		HoldTTL:            getEnvAsDuration("HOLD_TTL_MINUTES", 5*time.Minute, time.Minute),
		MaxSeatsPerBooking: getEnvAsInt("MAX_SEATS_PER_BOOKING", 5),

		IssuanceBackend: strings.ToLower(getEnv("ISSUANCE_BACKEND", "ethereum")),
		IssuanceRetries: getEnvAsInt("ISSUANCE_RETRIES", 3),
		IssuanceBackoff: getEnvAsDuration("ISSUANCE_BACKOFF_MS", 200*time.Millisecond, time.Millisecond),

		SweepInterval: getEnvAsDuration("SWEEP_INTERVAL_SECONDS", 30*time.Second, time.Second),

		SeedRoutes: getEnvAsBool("SEED_ROUTES", false),
	}
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue, unit time.Duration) time.Duration {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil && value > 0 {
		return time.Duration(value) * unit
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
