// Package history keeps the in-memory log of scored attempts for one
// practice session. Entries are append-only and are not persisted.
package history

import (
	"sync"
	"time"

	"github.com/abhisek/thinkfast/internal/attempt"
	"github.com/abhisek/thinkfast/internal/scoring"
)

// Entry is one scored attempt.
type Entry struct {
	Attempt    attempt.Attempt
	Result     scoring.Result
	RecordedAt time.Time
}

func (e Entry) clone() Entry {
	e.Result = *e.Result.Clone()
	return e
}

// Score returns the entry's overall score.
func (e Entry) Score() int { return e.Result.Overall.Score }

// Log is an append-only list of entries, safe for concurrent readers.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Append records a scored attempt. The log keeps its own copy, so later
// changes to e's result slices do not reach it.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e.clone())
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy of all entries in insertion order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.clone()
	}
	return out
}

// Recent returns up to n entries, most recent first. n <= 0 returns all.
func (l *Log) Recent(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(l.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.entries[i].clone())
	}
	return out
}

// Average returns the mean overall score, or 0 for an empty log.
func (l *Log) Average() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) == 0 {
		return 0
	}
	total := 0
	for _, e := range l.entries {
		total += e.Score()
	}
	return float64(total) / float64(len(l.entries))
}
