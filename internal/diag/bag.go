package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag holds the retained Problems for one linting run, in a capacity-bounded
// list kept in insertion order until Sort, SortBy, or Dedup reorders or
// prunes it.
type Bag struct {
	items   []Problem
	maximum uint32
}

// NewBag creates a Bag with a capacity limit. A non-positive maximum means
// unbounded.
func NewBag(maximum int) *Bag {
	if maximum <= 0 {
		return &Bag{maximum: 0}
	}
	capped, err := safecast.Conv[uint32](maximum)
	if err != nil {
		panic(fmt.Errorf("diag: bag maximum overflow: %w", err))
	}
	return &Bag{
		items:   make([]Problem, 0, capped),
		maximum: capped,
	}
}

// Add appends a Problem, returning false if the bag is already at capacity.
func (b *Bag) Add(p Problem) bool {
	if b.maximum > 0 && uint32(len(b.items)) >= b.maximum {
		return false
	}
	b.items = append(b.items, p)
	return true
}

// Len returns the number of retained problems.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the retained problems. Callers must not mutate the slice.
func (b *Bag) Items() []Problem {
	return b.items
}

// HasErrors reports whether any retained problem is at least Error.
func (b *Bag) HasErrors() bool {
	return b.HasAtLeast(Error)
}

// HasAtLeast reports whether any retained problem is at least the given
// severity.
func (b *Bag) HasAtLeast(sev Severity) bool {
	for _, p := range b.items {
		if p.Severity >= sev {
			return true
		}
	}
	return false
}

// Sort orders problems by source name, then line number, then severity
// descending, for stable and deterministic presentation.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		pi, pj := b.items[i], b.items[j]
		if pi.SourceName != pj.SourceName {
			return pi.SourceName < pj.SourceName
		}
		if pi.LineNumber != pj.LineNumber {
			return pi.LineNumber < pj.LineNumber
		}
		return pi.Severity > pj.Severity
	})
}

// SortBy stable-sorts problems with a caller-supplied less function, for
// callers that need an ordering Sort doesn't provide (lintrun's catalog
// order, rather than alphabetic source name order).
func (b *Bag) SortBy(less func(a, c Problem) bool) {
	sort.SliceStable(b.items, func(i, j int) bool {
		return less(b.items[i], b.items[j])
	})
}

// Dedup removes problems that are identical in source, line, severity, and
// description, keeping the first occurrence.
func (b *Bag) Dedup() {
	seen := make(map[string]bool, len(b.items))
	kept := make([]Problem, 0, len(b.items))
	for _, p := range b.items {
		key := fmt.Sprintf("%s:%d:%s:%s", p.SourceName, p.LineNumber, p.Severity, p.Description)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, p)
	}
	b.items = kept
}
