package service

import (
	"context"
	"sync"
	"time"
)

// RateDecision es la respuesta del limitador para un request de chat.
type RateDecision struct {
	Allowed bool
	// RetryAfter es lo que falta para que la ventana de la clave se reinicie.
	// Cero cuando el limitador no lo sabe (p.ej. fail-open).
	RetryAfter time.Duration
}

// RateLimiter decide si una clave (la IP del cliente) puede abrir otro stream.
type RateLimiter interface {
	Allow(ctx context.Context, key string) RateDecision
}

type memoryRateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	now     func() time.Time
	windows map[string]fixedWindow
}

type fixedWindow struct {
	start time.Time
	count int
}

// NewMemoryRateLimiter limita a max requests por ventana fija, en memoria del proceso.
func NewMemoryRateLimiter(window time.Duration, max int) RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &memoryRateLimiter{
		window:  window,
		max:     max,
		now:     time.Now,
		windows: make(map[string]fixedWindow),
	}
}

func (l *memoryRateLimiter) Allow(_ context.Context, key string) RateDecision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.sweep(now)
		w = fixedWindow{start: now}
	}
	w.count++
	l.windows[key] = w

	if w.count <= l.max {
		return RateDecision{Allowed: true}
	}
	return RateDecision{RetryAfter: w.start.Add(l.window).Sub(now)}
}

// sweep descarta ventanas vencidas para que el mapa no crezca sin limite.
func (l *memoryRateLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, k)
		}
	}
}
