// Package events publica notificaciones cuando se persiste un intercambio.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"chat-relay/internal/domain"
)

const (
	SchemaVersionV1 = 1

	// EventTypeConversationRecorded se emite despues de persistir un registro.
	EventTypeConversationRecorded = "chatrelay.conversation.recorded"
)

// ErrNilEvent indica que se intento publicar un evento nil.
var ErrNilEvent = errors.New("nil conversation event")

// ConversationRecorded es el payload publicado por cada registro persistido.
type ConversationRecorded struct {
	SchemaVersion int                       `json:"schema_version"`
	EventType     string                    `json:"event_type"`
	EventID       string                    `json:"event_id"`
	EmittedAt     time.Time                 `json:"emitted_at"`
	Record        domain.ConversationRecord `json:"record"`
}

// NewConversationRecorded arma el evento para un registro recien guardado.
func NewConversationRecorded(record domain.ConversationRecord) *ConversationRecorded {
	return &ConversationRecorded{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeConversationRecorded,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Record:        record,
	}
}

// Publisher publica eventos de historial hacia un backend de mensajeria.
type Publisher interface {
	PublishRecorded(ctx context.Context, event *ConversationRecorded) error
	Close() error
}

// NopPublisher valida el evento y no hace nada mas.
type NopPublisher struct{}

func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

func (p *NopPublisher) PublishRecorded(_ context.Context, event *ConversationRecorded) error {
	if event == nil {
		return ErrNilEvent
	}
	return nil
}

func (p *NopPublisher) Close() error {
	return nil
}
