package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"chat-relay/internal/config"
	"chat-relay/internal/events"
	"chat-relay/internal/repository"
)

func TestNewHistoryRepository_FileAndSQLite(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cfg := &config.Config{HistoryDriver: config.HistoryDriverFile, HistoryFile: filepath.Join(dir, "c.json")}
	repo, err := NewHistoryRepository(ctx, cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("file driver: %v", err)
	}
	if _, ok := repo.(*repository.FileHistoryRepository); !ok {
		t.Fatalf("expected file repository, got %T", repo)
	}

	cfg = &config.Config{HistoryDriver: config.HistoryDriverSQLite, SQLitePath: filepath.Join(dir, "c.db")}
	repo, err = NewHistoryRepository(ctx, cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("sqlite driver: %v", err)
	}
	defer repo.Close()
	if _, ok := repo.(*repository.SQLiteHistoryRepository); !ok {
		t.Fatalf("expected sqlite repository, got %T", repo)
	}
}

func TestNewHistoryRepository_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewHistoryRepository(ctx, &config.Config{HistoryDriver: config.HistoryDriverRedis}, nil, zap.NewNop()); err == nil {
		t.Fatalf("expected error for redis driver without client")
	}
	if _, err := NewHistoryRepository(ctx, &config.Config{HistoryDriver: "mongo"}, nil, zap.NewNop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestNewPublisher(t *testing.T) {
	pub, err := NewPublisher(&config.Config{EventsDriver: config.EventsDriverNone}, zap.NewNop())
	if err != nil {
		t.Fatalf("none driver: %v", err)
	}
	if _, ok := pub.(*events.NopPublisher); !ok {
		t.Fatalf("expected nop publisher, got %T", pub)
	}

	pub, err = NewPublisher(&config.Config{EventsDriver: config.EventsDriverKafka, KafkaBrokers: []string{"k1:9092"}, EventsSubject: "t"}, zap.NewNop())
	if err != nil {
		t.Fatalf("kafka driver: %v", err)
	}
	if _, ok := pub.(*events.KafkaPublisher); !ok {
		t.Fatalf("expected kafka publisher, got %T", pub)
	}
	_ = pub.Close()

	if _, err := NewPublisher(&config.Config{EventsDriver: "sqs"}, zap.NewNop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestNewChatLimiter(t *testing.T) {
	if l := NewChatLimiter(&config.Config{}, nil); l != nil {
		t.Fatalf("expected nil limiter when disabled")
	}
	l := NewChatLimiter(&config.Config{ChatRateLimit: 1, ChatRateWindow: time.Minute}, nil)
	ctx := context.Background()
	if l == nil || !l.Allow(ctx, "ip").Allowed || l.Allow(ctx, "ip").Allowed {
		t.Fatalf("expected in-memory limiter allowing one request")
	}
}

func TestNewRedisClient_DisabledWithoutAddr(t *testing.T) {
	client, err := NewRedisClient(context.Background(), &config.Config{})
	if err != nil || client != nil {
		t.Fatalf("expected nil client without REDIS_ADDR, got %v,%v", client, err)
	}
}
