// Package config reads the server configuration from the environment.
//
// A .env file in the working directory is loaded first (godotenv) and never
// overrides variables that are already set. Malformed values are logged and
// replaced by their defaults.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every tunable of the server process.
type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	JWTSecret      string
	DailySalt      string
	DictionaryFile string
	AllowedOrigin  string

	// JWTExpiry is the lifetime of a login token.
	JWTExpiry time.Duration
	// SecureCookies marks cookies Secure and SameSite=None for cross-site
	// deployments behind TLS.
	SecureCookies bool

	// RateLimit is the sustained mutating requests per second per client.
	RateLimit float64
	// RateBurst is the bucket size of the per-client limiter.
	RateBurst int

	// SessionTTL evicts sessions nobody touched for this long.
	SessionTTL time.Duration
	// CleanupInterval is how often idle sessions and limiters are swept.
	CleanupInterval time.Duration
	// WriteQueue is the capacity of the async persistence queue.
	WriteQueue int
}

// Load reads .env (if present) and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	return FromEnv()
}

// FromEnv reads the environment without touching .env.
func FromEnv() Config {
	return Config{
		Port:            getEnv("PORT", "5175"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBPath:          getEnv("DB_PATH", "./data/findword.db"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		DailySalt:       getEnv("DAILY_SALT", "find-word"),
		DictionaryFile:  getEnv("DICTIONARY_FILE", ""),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		JWTExpiry:       getEnvDuration("JWT_EXPIRY", 14*24*time.Hour),
		SecureCookies:   getEnvBool("COOKIE_SECURE", false),
		RateLimit:       getEnvFloat("RATE_LIMIT", 10),
		RateBurst:       getEnvInt("RATE_BURST", 20),
		SessionTTL:      getEnvDuration("SESSION_TTL", 2*time.Hour),
		CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", 10*time.Minute),
		WriteQueue:      getEnvInt("WRITE_QUEUE", 256),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Int("default", fallback).Msg("invalid int, using default")
		return fallback
	}
	return i
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Bool("default", fallback).Msg("invalid bool, using default")
		return fallback
	}
	return b
}

func getEnvFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Float64("default", fallback).Msg("invalid float, using default")
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Dur("default", fallback).Msg("invalid duration, using default")
		return fallback
	}
	return d
}
