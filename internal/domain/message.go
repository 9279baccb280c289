package domain

import "strings"

// Role identifica al autor de un mensaje dentro de una conversacion.
type Role string

const (
	RoleUser      Role = "user"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
)

// Valid indica si el rol es uno de los aceptados por el proveedor.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSystem, RoleAssistant:
		return true
	}
	return false
}

// Message es un turno de la conversacion; el orden de la lista importa.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// LastContent devuelve el contenido del ultimo mensaje, o "" si la lista esta vacia.
func LastContent(messages []Message) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[len(messages)-1].Content
}

// ValidateConversation verifica que la conversacion pueda enviarse al proveedor.
func ValidateConversation(messages []Message) bool {
	if len(messages) == 0 {
		return false
	}
	for _, m := range messages {
		if !m.Role.Valid() {
			return false
		}
	}
	return strings.TrimSpace(LastContent(messages)) != ""
}
