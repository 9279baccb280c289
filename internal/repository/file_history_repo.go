package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"chat-relay/internal/domain"
)

// FileHistoryRepository guarda un registro JSON por linea en un unico
// archivo append-only. Las escrituras se serializan con un mutex y cada
// registro se escribe con una sola llamada a Write.
type FileHistoryRepository struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

func NewFileHistoryRepository(path string, logger *zap.Logger) (*FileHistoryRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	return &FileHistoryRepository{path: path, logger: logger}, nil
}

func (r *FileHistoryRepository) Append(_ context.Context, record domain.ConversationRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("append record: %w", err)
	}
	return f.Close()
}

// ListByClientID recorre el archivo completo; el costo es lineal en la
// cantidad total de registros.
func (r *FileHistoryRepository) ListByClientID(ctx context.Context, clientID string) ([]domain.ConversationRecord, error) {
	r.mu.Lock()
	f, err := os.Open(r.path)
	r.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.ConversationRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	records := []domain.ConversationRecord{}
	reader := bufio.NewReaderSize(f, 64*1024)

	// ReadBytes no tiene tope de longitud: una respuesta larga no debe
	// impedir leer el resto del historial.
	lineNo := 0
	for {
		raw, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("read history file: %w", readErr)
		}
		if len(raw) > 0 {
			lineNo++
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if rec, ok := r.decodeLine(raw, lineNo); ok && rec.ClientID == clientID {
				records = append(records, rec)
			}
		}
		if readErr != nil {
			break
		}
	}

	return records, nil
}

func (r *FileHistoryRepository) decodeLine(raw []byte, lineNo int) (domain.ConversationRecord, bool) {
	raw = bytes.TrimRight(raw, "\r\n")
	if len(raw) == 0 {
		return domain.ConversationRecord{}, false
	}
	var rec domain.ConversationRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.logger.Warn("skipping malformed history line",
			zap.String("path", r.path),
			zap.Int("line", lineNo),
			zap.Error(err),
		)
		return domain.ConversationRecord{}, false
	}
	return rec, true
}

func (r *FileHistoryRepository) Close() error {
	return nil
}
