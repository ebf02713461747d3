package compiler

import (
	"github.com/lcalzada-xor/macoui/internal/core/domain"
)

// Table is the compiled, read-only registry table. It is never mutated after
// Compile returns, so any number of goroutines may read it concurrently.
type Table struct {
	entries map[string]domain.Record
	order   []string
	stats   Stats
}

// Stats summarizes a compilation.
type Stats struct {
	Total      int
	Duplicates int
	ByRegistry map[domain.Registry]int
}

// Get returns the record stored under an exact canonical key.
func (t *Table) Get(key string) (domain.Record, bool) {
	if t == nil {
		return domain.Record{}, false
	}
	r, ok := t.entries[key]
	return r, ok
}

// Len returns the number of unique keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Records returns every record in first-seen order.
func (t *Table) Records() []domain.Record {
	if t == nil {
		return nil
	}
	out := make([]domain.Record, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.entries[k])
	}
	return out
}

// Stats returns a copy of the compilation statistics.
func (t *Table) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	s := t.stats
	s.ByRegistry = make(map[domain.Registry]int, len(t.stats.ByRegistry))
	for k, v := range t.stats.ByRegistry {
		s.ByRegistry[k] = v
	}
	return s
}
