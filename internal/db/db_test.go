package db

import (
	"context"
	"testing"
)

func TestNewPool_InvalidURL(t *testing.T) {
	if _, err := NewPool(context.Background(), "::not a url::"); err == nil {
		t.Fatalf("expected parse error for invalid database url")
	}
}
