package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"chat-relay/internal/domain"
)

const pgHistorySchema = `
	CREATE TABLE IF NOT EXISTS conversation_records (
		seq        BIGSERIAL PRIMARY KEY,
		id         UUID NOT NULL UNIQUE,
		client_id  TEXT NOT NULL,
		payload    JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_conversation_records_client_id
		ON conversation_records (client_id, seq);
`

type PgHistoryRepository struct {
	pool *pgxpool.Pool
}

func NewPgHistoryRepository(pool *pgxpool.Pool) *PgHistoryRepository {
	return &PgHistoryRepository{pool: pool}
}

// EnsureSchema crea la tabla e indice si no existen.
func (r *PgHistoryRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, pgHistorySchema)
	return err
}

func (r *PgHistoryRepository) Append(ctx context.Context, record domain.ConversationRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	const query = `
		INSERT INTO conversation_records (id, client_id, payload)
		VALUES ($1, $2, $3)
	`
	_, err = r.pool.Exec(ctx, query, record.ID, record.ClientID, payload)
	return err
}

func (r *PgHistoryRepository) ListByClientID(ctx context.Context, clientID string) ([]domain.ConversationRecord, error) {
	const query = `
		SELECT payload
		FROM conversation_records
		WHERE client_id = $1
		ORDER BY seq ASC
	`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.ConversationRecord{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec domain.ConversationRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *PgHistoryRepository) Close() error {
	r.pool.Close()
	return nil
}
