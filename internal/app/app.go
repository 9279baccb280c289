// Package app construye las dependencias compartidas por los binarios de cmd/.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chat-relay/internal/config"
	"chat-relay/internal/db"
	"chat-relay/internal/events"
	"chat-relay/internal/repository"
	"chat-relay/internal/service"
)

// NewLogger devuelve un logger de produccion o desarrollo segun APP_ENV.
func NewLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

// NewRedisClient conecta a Redis si REDIS_ADDR esta definido; devuelve nil si no.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewHistoryRepository abre el driver de historial configurado.
func NewHistoryRepository(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (repository.HistoryRepository, error) {
	switch cfg.HistoryDriver {
	case config.HistoryDriverFile:
		repo, err := repository.NewFileHistoryRepository(cfg.HistoryFile, logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.HistoryDriverSQLite:
		repo, err := repository.NewSQLiteHistoryRepository(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.HistoryDriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		repo := repository.NewPgHistoryRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return repo, nil
	case config.HistoryDriverRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis history driver requires REDIS_ADDR")
		}
		return repository.NewRedisHistoryRepository(redisClient), nil
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.HistoryDriver)
	}
}

// NewPublisher abre el publicador de eventos configurado.
func NewPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	switch cfg.EventsDriver {
	case config.EventsDriverNone, "":
		return events.NewNopPublisher(), nil
	case config.EventsDriverNATS:
		pub, err := events.NewNATSPublisher(cfg.NatsURL, cfg.NatsToken, cfg.EventsSubject, logger)
		if err != nil {
			return nil, err
		}
		return pub, nil
	case config.EventsDriverKafka:
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsSubject), nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.EventsDriver)
	}
}

// NewChatLimiter devuelve nil cuando CHAT_RATE_LIMIT es 0.
func NewChatLimiter(cfg *config.Config, redisClient *redis.Client) service.RateLimiter {
	if cfg.ChatRateLimit <= 0 {
		return nil
	}
	if redisClient != nil {
		return service.NewRedisRateLimiter(redisClient, cfg.ChatRateWindow, cfg.ChatRateLimit)
	}
	return service.NewMemoryRateLimiter(cfg.ChatRateWindow, cfg.ChatRateLimit)
}
