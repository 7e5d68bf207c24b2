// Package generate turns a template and form state into final text.
package generate

import "sync"

// Tracker detects repeated generations from the same section with no input
// edits in between. It lives for the process lifetime and is never persisted.
type Tracker struct {
	mu                   sync.Mutex
	editCounter          uint64
	lastVersionBySection map[string]uint64
}

// NewTracker creates a Tracker with no recorded sections.
func NewTracker() *Tracker {
	return &Tracker{lastVersionBySection: make(map[string]uint64)}
}

// RecordEdit bumps the edit counter. Call it on every input change.
func (t *Tracker) RecordEdit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.editCounter++
}

// Version returns the current edit counter.
func (t *Tracker) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.editCounter
}

// Observe stamps section with the current counter and reports whether the
// previous stamp for section had the same value.
func (t *Tracker) Observe(section string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.lastVersionBySection[section]
	t.lastVersionBySection[section] = t.editCounter
	return ok && last == t.editCounter
}

// Reset forgets every section and zeroes the counter.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.editCounter = 0
	t.lastVersionBySection = make(map[string]uint64)
}
