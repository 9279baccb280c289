package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-relay/internal/domain"
	"chat-relay/internal/llm"
)

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrChatInvalidInput         = errors.New("chat invalid input")
	// ErrUpstream marca fallas del proveedor antes de entregar el primer fragmento.
	ErrUpstream = errors.New("upstream request failed")
	// ErrStreamInterrupted marca cortes despues de haber entregado fragmentos.
	ErrStreamInterrupted = errors.New("upstream stream interrupted")
)

const persistTimeout = 10 * time.Second

// ChatRequest es el cuerpo de POST /api/chat.
type ChatRequest struct {
	Messages []domain.Message `json:"messages"`
	ClientID string           `json:"clientId"`
}

// ChatResult resume un relay completado.
type ChatResult struct {
	ClientID  string
	Response  string
	Fragments int
	Record    *domain.ConversationRecord
}

// ChatService reenvia la conversacion al LLM, entrega cada fragmento al
// emisor y persiste el intercambio al terminar el stream.
type ChatService struct {
	llmClient llm.StreamingClient
	history   *HistoryService
	logger    *zap.Logger
}

func NewChatService(llmClient llm.StreamingClient, history *HistoryService, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		llmClient: llmClient,
		history:   history,
		logger:    logger,
	}
}

// ResolveClientID devuelve el clientId recibido tal cual, o uno nuevo si viene
// vacio o en blanco. El id es opaco: no se normaliza.
func ResolveClientID(clientID string) string {
	if strings.TrimSpace(clientID) == "" {
		return uuid.NewString()
	}
	return clientID
}

// Relay ejecuta el stream completo. emit se llama una vez por fragmento, en
// orden. Cuando el stream upstream termina bien se persiste el intercambio;
// una falla de persistencia se registra en el log pero no se devuelve,
// porque los fragmentos ya fueron entregados.
func (s *ChatService) Relay(ctx context.Context, clientID string, messages []domain.Message, emit llm.FragmentFunc) (ChatResult, error) {
	if s == nil || s.llmClient == nil {
		return ChatResult{}, ErrChatServiceNotConfigured
	}
	if strings.TrimSpace(clientID) == "" || !domain.ValidateConversation(messages) {
		return ChatResult{}, ErrChatInvalidInput
	}

	result := ChatResult{ClientID: clientID}
	var full strings.Builder

	err := s.llmClient.StreamChat(ctx, messages, func(fragment string) error {
		full.WriteString(fragment)
		result.Fragments++
		return emit(fragment)
	})
	result.Response = full.String()
	if err != nil {
		if result.Fragments == 0 {
			return result, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		return result, fmt.Errorf("%w: %w", ErrStreamInterrupted, err)
	}

	if s.history == nil {
		return result, nil
	}
	// El stream ya termino; si el cliente se desconecta ahora el registro igual se guarda.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	record, err := s.history.Record(persistCtx, clientID, messages, result.Response)
	if err != nil {
		s.logger.Error("persist conversation failed",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
		return result, nil
	}
	result.Record = &record
	return result, nil
}
