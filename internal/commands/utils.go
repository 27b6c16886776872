package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rentcore/internal/config"
	"rentcore/internal/gateway"
	"rentcore/internal/lifecycle"
	"rentcore/internal/logging"
	"rentcore/internal/notify"
)

func getDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL not set in environment or .env file")
	}
	if strings.HasPrefix(dsn, "sqlite://") {
		return gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), &gorm.Config{})
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func getLogger(cfg *config.Config, console bool) (*zap.Logger, error) {
	format := "json"
	if console {
		format = "console"
	}
	return logging.New(cfg.LogLevel, format)
}

// stack is the wired service behind the operator commands: the database, the
// refund gateways, and the notifier (Redis-backed when REDIS_ADDR is set,
// database-only otherwise).
type stack struct {
	coordinator *lifecycle.Coordinator
	db          *gorm.DB
	notifier    notify.Notifier
}

func buildStack(cfg *config.Config, logger *zap.Logger) (*stack, error) {
	db, err := getDB(cfg)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	stripe := gateway.NewStripeRefunder(cfg.StripeBaseURL, cfg.StripeAPIKey, logger)
	registry := gateway.NewRegistry(logger, stripe)
	notifier := notify.NewStreamNotifier(db, rdb, cfg.NotifyStream, logger)

	return &stack{
		coordinator: lifecycle.NewCoordinator(db, logger, lifecycle.SystemClock(), registry, notifier),
		db:          db,
		notifier:    notifier,
	}, nil
}

func parseID(arg, what string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return uint(id), nil
}
