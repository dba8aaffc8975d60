package weighted

import (
	"iter"
	"math/rand/v2"

	"golang.org/x/exp/constraints"
)

// Set is a weighted-sampling set: a Map with no value payload. All
// operations delegate to the map over a unit value type.
//
// Unlike the map, the set's sampling operations return bare keys, so there
// is no null sentinel to report "nothing to draw": they panic instead when
// nothing can be sampled. Check TotalWeight before drawing.
type Set[K any, W Weight] struct {
	m *Map[K, struct{}, W]
}

// NewSet creates an empty Set ordered by the given comparison function.
func NewSet[K any, W Weight](less LessFunc[K]) *Set[K, W] {
	return &Set[K, W]{m: New[K, struct{}, W](less)}
}

// NewSetOrdered creates an empty Set over a naturally ordered key type.
func NewSetOrdered[K constraints.Ordered, W Weight]() *Set[K, W] {
	return &Set[K, W]{m: NewOrdered[K, struct{}, W]()}
}

// Insert adds key with the given weight. Returns true if the key was not
// present; for an existing key the weight is left unchanged.
func (s *Set[K, W]) Insert(key K, weight W) bool {
	_, inserted := s.m.Insert(key, struct{}{}, weight)
	return inserted
}

// Erase removes key from the set. Returns false if the key is not present.
func (s *Set[K, W]) Erase(key K) bool {
	return s.m.Erase(key)
}

// Contains reports whether key is in the set.
func (s *Set[K, W]) Contains(key K) bool {
	return s.m.Find(key).Ok()
}

// Weight returns the weight of key, and whether key is present.
func (s *Set[K, W]) Weight(key K) (W, bool) {
	c := s.m.Find(key)
	if !c.Ok() {
		var zero W
		return zero, false
	}
	return c.Weight(), true
}

// SetWeight changes the weight of key. Returns false if the key is not
// present.
func (s *Set[K, W]) SetWeight(key K, weight W) bool {
	c := s.m.Find(key)
	if !c.Ok() {
		return false
	}
	s.m.SetWeight(c, weight)
	return true
}

// Sample draws one key at random with probability proportional to its
// weight. It panics if the set is empty or the total weight is zero;
// check TotalWeight first.
func (s *Set[K, W]) Sample(r *rand.Rand) K {
	c := s.m.Sample(r)
	if !c.Ok() {
		panic("weighted: Sample on set with zero total weight")
	}
	return c.Key()
}

// SampleAt returns the key covering the given position on the weight
// line. It panics if the position lies outside the line; see Map.SampleAt
// for the boundary rules.
func (s *Set[K, W]) SampleAt(pos W) K {
	c := s.m.SampleAt(pos)
	if !c.Ok() {
		panic("weighted: SampleAt position out of range")
	}
	return c.Key()
}

// TotalWeight returns the sum of all key weights.
func (s *Set[K, W]) TotalWeight() W {
	return s.m.TotalWeight()
}

// Size returns the number of keys in the set.
func (s *Set[K, W]) Size() int {
	return s.m.Size()
}

// All returns an iterator over the keys in ascending order.
func (s *Set[K, W]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range s.m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the set.
func (s *Set[K, W]) Clone() *Set[K, W] {
	return &Set[K, W]{m: s.m.Clone()}
}

// Clear removes all keys.
func (s *Set[K, W]) Clear() {
	s.m.Clear()
}

// IsTreeValid verifies every container invariant of the underlying map.
func (s *Set[K, W]) IsTreeValid() error {
	return s.m.IsTreeValid()
}

// String returns a visual rendering of the underlying tree.
func (s *Set[K, W]) String() string {
	return s.m.String()
}
