package weighted

import "math/rand/v2"

// Sample draws one entry at random, with probability proportional to its
// weight, consuming exactly one uniform draw from r.
//
// The position is drawn in [0, T-1] for integer weights and [0, T) for
// floating-point weights, where T is the total weight, then resolved by
// SampleAt. If the map is empty or the total weight is zero, the null
// cursor is returned. Entries with zero weight are never selected.
func (m *Map[K, V, W]) Sample(r *rand.Rand) Cursor[K, V, W] {
	total := m.TotalWeight()
	if m.Size() == 0 || total == 0 {
		return Cursor[K, V, W]{m: m, n: m.t.Sentinel()}
	}
	var pos W
	if isFloat[W]() {
		pos = W(r.Float64() * float64(total))
	} else {
		pos = W(r.Int64N(int64(total)))
	}
	return m.SampleAt(pos)
}

// SampleAt returns the entry covering the given position on the weight
// line: entries are laid out in key order, each occupying a segment as
// wide as its weight, and the entry whose segment contains pos is
// returned.
//
// SampleAt is a total function. Positions outside the weight line yield
// the null cursor instead of failing: any negative position, pos >= T for
// integer weights, and pos > T for floating-point weights. As the single
// boundary exception, floating-point pos == T (with T > 0) returns the
// entry with the largest key. This is reachable only when the caller passes T
// exactly, since a uniform draw in [0, T) cannot produce it.
//
// The descent accumulates the weight mass to the left of the current
// node, so each step is O(1) and the whole lookup O(log n).
func (m *Map[K, V, W]) SampleAt(pos W) Cursor[K, V, W] {
	t := m.t
	root := t.Root()
	if t.IsNil(root) {
		return Cursor[K, V, W]{m: m, n: t.Sentinel()}
	}
	if total := t.Agg(root).sub; isFloat[W]() && total > 0 && pos == total {
		return Cursor[K, V, W]{m: m, n: t.Max(root)}
	}

	var acc W
	for n := root; !t.IsNil(n); {
		left := t.Agg(t.Left(n)).sub
		self := t.Agg(n).self
		switch {
		case pos < acc+left:
			n = t.Left(n)
		case pos < acc+left+self:
			return Cursor[K, V, W]{m: m, n: n}
		default:
			acc += left + self
			n = t.Right(n)
		}
	}
	return Cursor[K, V, W]{m: m, n: t.Sentinel()}
}

// SampleScaled resolves the relative position u in [0, 1] against the
// weight line: it is equivalent to SampleAt(u * TotalWeight()).
func (m *Map[K, V, W]) SampleScaled(u float64) Cursor[K, V, W] {
	return m.SampleAt(W(u * float64(m.TotalWeight())))
}
