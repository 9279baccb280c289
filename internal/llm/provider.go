package llm

import (
	"context"
	"errors"

	"chat-relay/internal/domain"
)

// ErrUpstreamStatus indica que el proveedor respondio con un status >= 400.
var ErrUpstreamStatus = errors.New("llm upstream status error")

// FragmentFunc recibe cada fragmento de texto en el orden en que llega.
// Si devuelve error el stream se corta.
type FragmentFunc func(fragment string) error

// StreamingClient define la interfaz para generar respuestas incrementales con un LLM.
type StreamingClient interface {
	StreamChat(ctx context.Context, messages []domain.Message, onFragment FragmentFunc) error
}
