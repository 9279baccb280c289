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
	"chat-relay/internal/events"
	"chat-relay/internal/repository"
)

var (
	ErrHistoryServiceNotConfigured = errors.New("history service not configured")
	ErrHistoryInvalidInput         = errors.New("history invalid input")
)

// HistoryService arma los ConversationRecord, los persiste y los lee por clientId.
type HistoryService struct {
	repo      repository.HistoryRepository
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

func NewHistoryService(repo repository.HistoryRepository, publisher events.Publisher, logger *zap.Logger) *HistoryService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Record persiste un intercambio: el ultimo mensaje de entrada como "user" y
// la respuesta acumulada como "system".
func (s *HistoryService) Record(ctx context.Context, clientID string, messages []domain.Message, response string) (domain.ConversationRecord, error) {
	if s == nil || s.repo == nil {
		return domain.ConversationRecord{}, ErrHistoryServiceNotConfigured
	}
	if strings.TrimSpace(clientID) == "" || len(messages) == 0 {
		return domain.ConversationRecord{}, ErrHistoryInvalidInput
	}

	record := domain.ConversationRecord{
		ID:       s.newID(),
		ClientID: clientID,
		Messages: []domain.RecordEntry{
			{Speaker: domain.SpeakerUser, Text: domain.LastContent(messages), Timestamp: s.now()},
			{Speaker: domain.SpeakerSystem, Text: response, Timestamp: s.now()},
		},
	}

	if err := s.repo.Append(ctx, record); err != nil {
		return domain.ConversationRecord{}, fmt.Errorf("append history record: %w", err)
	}

	if err := s.publisher.PublishRecorded(ctx, events.NewConversationRecorded(record)); err != nil {
		s.logger.Warn("publish conversation event failed",
			zap.String("record_id", record.ID),
			zap.String("client_id", record.ClientID),
			zap.Error(err),
		)
	}

	return record, nil
}

// List devuelve todos los registros del cliente en orden de escritura.
func (s *HistoryService) List(ctx context.Context, clientID string) ([]domain.ConversationRecord, error) {
	if s == nil || s.repo == nil {
		return nil, ErrHistoryServiceNotConfigured
	}
	if strings.TrimSpace(clientID) == "" {
		return nil, ErrHistoryInvalidInput
	}
	records, err := s.repo.ListByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.ConversationRecord{}
	}
	return records, nil
}
