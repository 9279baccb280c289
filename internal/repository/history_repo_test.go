package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chat-relay/internal/domain"
)

func newTestRecord(id, clientID, user, system string) domain.ConversationRecord {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return domain.ConversationRecord{
		ID:       id,
		ClientID: clientID,
		Messages: []domain.RecordEntry{
			{Speaker: domain.SpeakerUser, Text: user, Timestamp: now},
			{Speaker: domain.SpeakerSystem, Text: system, Timestamp: now.Add(time.Second)},
		},
	}
}

// exerciseHistoryRepository valida el contrato comun a todos los drivers.
func exerciseHistoryRepository(ctx context.Context, repo HistoryRepository) error {
	empty, err := repo.ListByClientID(ctx, "nobody")
	if err != nil {
		return fmt.Errorf("list empty: %w", err)
	}
	if empty == nil || len(empty) != 0 {
		return fmt.Errorf("expected empty non-nil list, got %+v", empty)
	}

	if err := repo.Append(ctx, domain.ConversationRecord{ClientID: "c1"}); !errors.Is(err, ErrNilRecord) {
		return fmt.Errorf("expected ErrNilRecord, got %v", err)
	}

	writes := []domain.ConversationRecord{
		newTestRecord("00000000-0000-0000-0000-000000000001", "c1", "hi", "hello"),
		newTestRecord("00000000-0000-0000-0000-000000000002", "c2", "other", "client"),
		newTestRecord("00000000-0000-0000-0000-000000000003", "c1", "again", "welcome back"),
	}
	for _, w := range writes {
		if err := repo.Append(ctx, w); err != nil {
			return fmt.Errorf("append %s: %w", w.ID, err)
		}
	}

	got, err := repo.ListByClientID(ctx, "c1")
	if err != nil {
		return fmt.Errorf("list c1: %w", err)
	}
	if len(got) != 2 {
		return fmt.Errorf("expected 2 records for c1, got %d", len(got))
	}
	if got[0].UserText() != "hi" || got[1].UserText() != "again" {
		return fmt.Errorf("expected write order, got %q then %q", got[0].UserText(), got[1].UserText())
	}
	if got[1].SystemText() != "welcome back" || got[0].ID != writes[0].ID {
		return fmt.Errorf("unexpected record contents: %+v", got)
	}
	if !got[0].Messages[0].Timestamp.Equal(writes[0].Messages[0].Timestamp) {
		return fmt.Errorf("timestamp not preserved: %v", got[0].Messages[0].Timestamp)
	}
	return nil
}
