package sse

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReaderNext_SingleEvent(t *testing.T) {
	r := NewReader(strings.NewReader("data: hello world\n\n"))

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ev == nil || ev.Data != "hello world" || ev.Type != "" || ev.ID != "" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	ev, err = r.Next()
	if err != nil || ev != nil {
		t.Fatalf("expected nil,nil at end, got %+v,%v", ev, err)
	}
}

func TestReaderNext_MultipleEventsAndFields(t *testing.T) {
	src := "event: delta\nid: 7\ndata: {\"a\":1}\n\n: keep-alive\n\ndata: line one\ndata: line two\n\ndata: [DONE]\n\n"
	r := NewReader(strings.NewReader(src))

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ev.Type != "delta" || ev.ID != "7" || ev.Data != `{"a":1}` {
		t.Fatalf("unexpected first event: %+v", ev)
	}

	ev, err = r.Next()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ev.Data != "line one\nline two" {
		t.Fatalf("expected joined data lines, got %q", ev.Data)
	}

	ev, err = r.Next()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ev.IsDone() {
		t.Fatalf("expected done sentinel, got %+v", ev)
	}
}

func TestReaderNext_CRLFAndMissingTrailingBlank(t *testing.T) {
	r := NewReader(strings.NewReader("data:first\r\n\r\ndata: tail"))

	ev, err := r.Next()
	if err != nil || ev == nil || ev.Data != "first" {
		t.Fatalf("expected first event, got %+v,%v", ev, err)
	}
	ev, err = r.Next()
	if err != nil || ev == nil || ev.Data != "tail" {
		t.Fatalf("expected trailing event without blank line, got %+v,%v", ev, err)
	}
}

func TestReaderNext_ScannerError(t *testing.T) {
	r := NewReader(&failingReader{err: errors.New("conn reset")})
	if _, err := r.Next(); err == nil {
		t.Fatalf("expected scanner error to propagate")
	}
}

func TestWriteHelpers(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteContent(&buf, "hola \"mundo\""); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if err := WriteDone(&buf); err != nil {
		t.Fatalf("write done: %v", err)
	}

	want := "data: {\"content\":\"hola \\\"mundo\\\"\"}\n\ndata: [DONE]\n\n"
	if buf.String() != want {
		t.Fatalf("unexpected frames:\n got %q\nwant %q", buf.String(), want)
	}

	r := NewReader(&buf)
	ev, err := r.Next()
	if err != nil || ev == nil || ev.Data != `{"content":"hola \"mundo\""}` {
		t.Fatalf("frames should be readable back, got %+v,%v", ev, err)
	}
}

type failingReader struct {
	err error
}

func (f *failingReader) Read(_ []byte) (int, error) {
	return 0, f.err
}
