package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// MemStore is an in-memory Store for tests, examples, and hosts that keep
// their memory corpus small enough to hold in process.
//
// Recall matches each whitespace-separated query term against entry
// summaries. Terms containing glob metacharacters ('*', '?', '[') are
// compiled as glob patterns; plain terms match as case-insensitive
// substrings. An entry matches if any term matches. An empty query matches
// everything, so callers can use MemStore as a "most recent first" buffer.
type MemStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Add appends entries to the store. Insertion order is preserved and is the
// order Recall returns matches in.
func (s *MemStore) Add(entries ...*Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}

// Len returns the number of stored entries.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Recall implements Store.
func (s *MemStore) Recall(ctx context.Context, query string, limit int) ([]*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	matchers := compileQuery(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Entry
	for _, e := range s.entries {
		if len(matchers) == 0 || anyMatch(matchers, e.Summary) {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// termMatcher matches one query term against a summary.
type termMatcher func(summary string) bool

func compileQuery(query string) []termMatcher {
	var matchers []termMatcher
	for _, term := range strings.Fields(query) {
		if strings.ContainsAny(term, "*?[") {
			if g, err := glob.Compile(strings.ToLower(term)); err == nil {
				matchers = append(matchers, func(summary string) bool {
					return g.Match(strings.ToLower(summary))
				})
				continue
			}
			// Malformed pattern: fall through to substring matching.
		}
		lower := strings.ToLower(term)
		matchers = append(matchers, func(summary string) bool {
			return strings.Contains(strings.ToLower(summary), lower)
		})
	}
	return matchers
}

func anyMatch(matchers []termMatcher, summary string) bool {
	for _, m := range matchers {
		if m(summary) {
			return true
		}
	}
	return false
}
