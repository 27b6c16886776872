package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the environment-backed settings of the service.
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StripeBaseURL string
	StripeAPIKey  string
	NotifyStream  string
	LogLevel      string
	SweepCron     string
	SweepWindow   int // days
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		StripeBaseURL: os.Getenv("STRIPE_BASE_URL"),
		StripeAPIKey:  os.Getenv("STRIPE_API_KEY"),
		NotifyStream:  envDefault("NOTIFY_STREAM", "rentcore:notifications"),
		LogLevel:      envDefault("LOG_LEVEL", "info"),
		SweepCron:     envDefault("SWEEP_CRON", "0 7 * * *"),
		SweepWindow:   envInt("SWEEP_WINDOW_DAYS", 30),
	}
}

func envDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
