package sse

import (
	"encoding/json"
	"fmt"
	"io"
)

// ContentPayload es el cuerpo JSON de cada fragmento enviado al cliente.
type ContentPayload struct {
	Content string `json:"content"`
}

// ErrorPayload se envia cuando el stream upstream se corta a mitad de camino.
type ErrorPayload struct {
	Error string `json:"error"`
}

// WriteData escribe un frame "data: <payload>\n\n".
func WriteData(w io.Writer, payload string) error {
	_, err := fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

// WriteJSON serializa v y lo escribe como un frame de datos.
func WriteJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal sse payload: %w", err)
	}
	return WriteData(w, string(b))
}

// WriteContent escribe un fragmento de texto generado.
func WriteContent(w io.Writer, fragment string) error {
	return WriteJSON(w, ContentPayload{Content: fragment})
}

// WriteDone escribe el centinela final.
func WriteDone(w io.Writer) error {
	return WriteData(w, DoneSentinel)
}
