package ordstat

import (
	"iter"

	"golang.org/x/exp/constraints"
)

// Set is an order-statistic set: a Map with no value payload. All
// operations delegate to the map over a unit value type.
type Set[K any] struct {
	m *Map[K, struct{}]
}

// NewSet creates an empty Set ordered by the given comparison function.
func NewSet[K any](less LessFunc[K]) *Set[K] {
	return &Set[K]{m: New[K, struct{}](less)}
}

// NewSetOrdered creates an empty Set over a naturally ordered key type.
func NewSetOrdered[K constraints.Ordered]() *Set[K] {
	return &Set[K]{m: NewOrdered[K, struct{}]()}
}

// NewSetFromKeys creates a Set holding the given keys. Keys are added
// through the normal insert path; duplicates collapse.
func NewSetFromKeys[K any](less LessFunc[K], keys []K) *Set[K] {
	s := NewSet[K](less)
	for _, k := range keys {
		s.Insert(k)
	}
	return s
}

// Insert adds key to the set. Returns true if the key was not present.
func (s *Set[K]) Insert(key K) bool {
	_, inserted := s.m.Insert(key, struct{}{})
	return inserted
}

// Erase removes key from the set. Returns false if the key is not present.
func (s *Set[K]) Erase(key K) bool {
	return s.m.Erase(key)
}

// Contains reports whether key is in the set.
func (s *Set[K]) Contains(key K) bool {
	return s.m.Find(key).Ok()
}

// At returns the i-th smallest key (zero-based). It panics unless
// 0 <= i < Size().
func (s *Set[K]) At(i int) K {
	return s.m.FindByRank(i).Key()
}

// Rank returns the number of keys strictly less than key, and whether key
// is present in the set.
func (s *Set[K]) Rank(key K) (int, bool) {
	c := s.m.Find(key)
	if !c.Ok() {
		return 0, false
	}
	return c.Rank(), true
}

// Size returns the number of keys in the set.
func (s *Set[K]) Size() int {
	return s.m.Size()
}

// All returns an iterator over the keys in ascending order.
func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range s.m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the set.
func (s *Set[K]) Clone() *Set[K] {
	return &Set[K]{m: s.m.Clone()}
}

// Clear removes all keys.
func (s *Set[K]) Clear() {
	s.m.Clear()
}

// IsTreeValid verifies every container invariant of the underlying map.
func (s *Set[K]) IsTreeValid() error {
	return s.m.IsTreeValid()
}

// String returns a visual rendering of the underlying tree.
func (s *Set[K]) String() string {
	return s.m.String()
}
