// Package sse lee eventos Server-Sent Events de un proveedor upstream y
// escribe los frames "data:" que se reenvian al cliente.
//
// Ver https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// DoneSentinel es el payload con el que termina un stream de chat completions.
const DoneSentinel = "[DONE]"

// Event es un evento SSE ya parseado, delimitado por una linea en blanco.
type Event struct {
	// Type viene del campo "event:"; vacio equivale a "message".
	Type string

	// Data concatena todas las lineas "data:" del evento separadas por "\n".
	Data string

	ID string
}

// IsDone indica si el evento es el centinela de fin de stream.
func (e *Event) IsDone() bool {
	return e != nil && e.Data == DoneSentinel
}
