package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"chat-relay/internal/domain"
)

type redisListClient interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisHistoryRepository guarda una lista por clientId; RPUSH preserva el
// orden de escritura.
type RedisHistoryRepository struct {
	client redisListClient
	prefix string
}

func NewRedisHistoryRepository(client *redis.Client) *RedisHistoryRepository {
	return &RedisHistoryRepository{
		client: client,
		prefix: "history:",
	}
}

func (r *RedisHistoryRepository) Append(ctx context.Context, record domain.ConversationRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return r.client.RPush(ctx, r.prefix+record.ClientID, payload).Err()
}

func (r *RedisHistoryRepository) ListByClientID(ctx context.Context, clientID string) ([]domain.ConversationRecord, error) {
	items, err := r.client.LRange(ctx, r.prefix+clientID, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]domain.ConversationRecord, 0, len(items))
	for _, item := range items {
		var rec domain.ConversationRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close no cierra el cliente: lo comparte el rate limiter y lo cierra main.
func (r *RedisHistoryRepository) Close() error {
	return nil
}
