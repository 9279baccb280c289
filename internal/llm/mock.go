package llm

import (
	"context"

	"chat-relay/internal/domain"
)

// MockClient permite tests sin llamar a un LLM real.
// Con Err definido el stream falla tras entregar FailAfter fragmentos
// (0 = antes del primero); con FailAfter negativo entrega todo y luego falla.
type MockClient struct {
	Fragments []string
	Err       error
	FailAfter int

	LastMessages []domain.Message
	Calls        int
}

func (m *MockClient) StreamChat(ctx context.Context, messages []domain.Message, onFragment FragmentFunc) error {
	m.Calls++
	m.LastMessages = messages
	for i, f := range m.Fragments {
		if m.Err != nil && m.FailAfter >= 0 && i == m.FailAfter {
			return m.Err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := onFragment(f); err != nil {
			return err
		}
	}
	return m.Err
}
