package repository

import (
	"context"
	"errors"

	"chat-relay/internal/domain"
)

// ErrNilRecord se devuelve al intentar persistir un registro vacio.
var ErrNilRecord = errors.New("history record missing id or client id")

// HistoryRepository persiste intercambios completos y los lee por clientId
// en el orden en que fueron escritos.
type HistoryRepository interface {
	Append(ctx context.Context, record domain.ConversationRecord) error
	ListByClientID(ctx context.Context, clientID string) ([]domain.ConversationRecord, error)
	Close() error
}

func validateRecord(record domain.ConversationRecord) error {
	if record.ID == "" || record.ClientID == "" {
		return ErrNilRecord
	}
	return nil
}
