// Package tracer keeps generation stamps keyed by operation so asynchronous
// work can tell whether it is still the most recent call issued for its key.
package tracer

import (
	"sync"

	"github.com/google/uuid"
)

// Token is an opaque stamp compared by identity. The id is informational and
// only used for logging.
type Token struct {
	id uuid.UUID
}

// ID returns the token identifier.
func (t *Token) ID() string {
	if t == nil {
		return ""
	}
	return t.id.String()
}

// Tracer maps keys to the latest issued token.
type Tracer struct {
	mu      sync.Mutex
	entries map[string]*Token
}

// New returns an empty tracer.
func New() *Tracer {
	return &Tracer{entries: make(map[string]*Token)}
}

// Set issues a fresh token for key, superseding any previous one.
func (t *Tracer) Set(key string) *Token {
	tok := &Token{id: uuid.New()}
	t.mu.Lock()
	t.entries[key] = tok
	t.mu.Unlock()
	return tok
}

// Value returns the current token for key, or nil.
func (t *Tracer) Value(key string) *Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries[key]
}

// Is reports whether tok is still the current token for key. A nil token never
// matches, so results arriving after Dispose are always stale.
func (t *Tracer) Is(key string, tok *Token) bool {
	if tok == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries[key] == tok
}

// Dispose drops every entry.
func (t *Tracer) Dispose() {
	t.mu.Lock()
	t.entries = make(map[string]*Token)
	t.mu.Unlock()
}

// Len returns the number of tracked keys.
func (t *Tracer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
