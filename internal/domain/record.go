package domain

import "time"

// Speaker identifica cada lado de un intercambio persistido.
type Speaker string

const (
	SpeakerUser   Speaker = "user"
	SpeakerSystem Speaker = "system"
)

// RecordEntry es una de las dos entradas de un ConversationRecord.
type RecordEntry struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationRecord guarda un intercambio completo: el ultimo mensaje del
// usuario y la respuesta acumulada del modelo. Se escribe una sola vez.
type ConversationRecord struct {
	ID       string        `json:"_id"`
	ClientID string        `json:"clientId"`
	Messages []RecordEntry `json:"messages"`
}

// UserText devuelve el texto de la entrada del usuario.
func (r ConversationRecord) UserText() string {
	for _, e := range r.Messages {
		if e.Speaker == SpeakerUser {
			return e.Text
		}
	}
	return ""
}

// SystemText devuelve el texto generado por el modelo.
func (r ConversationRecord) SystemText() string {
	for _, e := range r.Messages {
		if e.Speaker == SpeakerSystem {
			return e.Text
		}
	}
	return ""
}
