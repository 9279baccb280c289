package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"chat-relay/internal/domain"
)

// SQLiteHistoryRepository guarda los registros en SQLite con indice por client_id.
type SQLiteHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteHistoryRepository abre (o crea) la base. dbPath puede ser ":memory:".
func NewSQLiteHistoryRepository(dbPath string) (*SQLiteHistoryRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serializa escrituras; una conexion evita SQLITE_BUSY y mantiene
	// vivo el esquema en ":memory:".
	db.SetMaxOpenConns(1)

	r := &SQLiteHistoryRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return r, nil
}

func (r *SQLiteHistoryRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversation_records (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		client_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_conversation_records_client_id ON conversation_records(client_id, seq);
	`
	_, err := r.db.Exec(schema)
	return err
}

func (r *SQLiteHistoryRepository) Append(ctx context.Context, record domain.ConversationRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	query := `INSERT INTO conversation_records (id, client_id, payload) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, record.ID, record.ClientID, string(payload)); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (r *SQLiteHistoryRepository) ListByClientID(ctx context.Context, clientID string) ([]domain.ConversationRecord, error) {
	query := `SELECT payload FROM conversation_records WHERE client_id = ? ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []domain.ConversationRecord{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var rec domain.ConversationRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *SQLiteHistoryRepository) Close() error {
	return r.db.Close()
}
