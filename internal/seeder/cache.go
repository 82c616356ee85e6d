package seeder

import (
	"fmt"
	"math/rand"
	"strings"
)

const (
	maxUniqueAttempts = 1000
	fkWarmupLimit     = 1000
)

func cacheKey(table, column string) string {
	return table + "." + column
}

// ReferentialCache holds values already present in referenced columns,
// keyed by "table.column". It only grows during a run.
type ReferentialCache struct {
	values map[string][]any
	seen   map[string]valueSet
	// fresh marks keys whose database sample is current; loading into a
	// table makes its keys stale again.
	fresh map[string]bool
}

func NewReferentialCache() *ReferentialCache {
	return &ReferentialCache{
		values: make(map[string][]any),
		seen:   make(map[string]valueSet),
		fresh:  make(map[string]bool),
	}
}

// Add appends values not already cached under key.
func (c *ReferentialCache) Add(key string, values ...any) {
	seen, ok := c.seen[key]
	if !ok {
		seen = make(valueSet)
		c.seen[key] = seen
	}
	for _, v := range values {
		if v == nil {
			continue
		}
		k := valueKey(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		c.values[key] = append(c.values[key], v)
	}
}

func (c *ReferentialCache) Values(key string) []any {
	return c.values[key]
}

// Sample picks a cached value uniformly; nil when the key is empty.
func (c *ReferentialCache) Sample(rng *rand.Rand, key string) any {
	vals := c.values[key]
	if len(vals) == 0 {
		return nil
	}
	return vals[rng.Intn(len(vals))]
}

func (c *ReferentialCache) NeedsWarmup(key string) bool {
	return !c.fresh[key]
}

func (c *ReferentialCache) MarkFresh(key string) {
	c.fresh[key] = true
}

// MarkStale forces the next lookup of any column of table to re-read it.
func (c *ReferentialCache) MarkStale(table string) {
	prefix := table + "."
	for key := range c.fresh {
		if strings.HasPrefix(key, prefix) {
			delete(c.fresh, key)
		}
	}
}

type valueSet map[string]struct{}

func (s valueSet) has(v any) bool {
	_, ok := s[valueKey(v)]
	return ok
}

func (s valueSet) add(v any) {
	s[valueKey(v)] = struct{}{}
}

// valueKey is the comparison form of a value; database samples arrive as
// text, so generated values compare by their text rendering.
func valueKey(v any) string {
	if s, ok, err := encodeValue(v, FamilyUnknown); err == nil && ok {
		return s
	}
	return fmt.Sprint(v)
}

// UniquenessTracker owns the values emitted per unique "table.column" for
// one run.
type UniquenessTracker struct {
	sets map[string]valueSet
}

func NewUniquenessTracker() *UniquenessTracker {
	return &UniquenessTracker{sets: make(map[string]valueSet)}
}

func (t *UniquenessTracker) Used(key string) valueSet {
	set, ok := t.sets[key]
	if !ok {
		set = make(valueSet)
		t.sets[key] = set
	}
	return set
}

// nextUnique draws candidates until one is absent from used. It reports
// false with the last candidate when maxAttempts are exhausted. used is not
// modified.
func nextUnique(candidate func() any, used valueSet, maxAttempts int) (any, bool) {
	var v any
	for i := 0; i < maxAttempts; i++ {
		v = candidate()
		if v == nil {
			return nil, true
		}
		if !used.has(v) {
			return v, true
		}
	}
	return v, false
}
